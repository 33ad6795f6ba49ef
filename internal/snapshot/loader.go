package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"callwatch/internal/model"
)

// ErrAuthExpired means the upstream rejected our token. The caller
// owns token refresh; the loader only reports it.
var ErrAuthExpired = errors.New("snapshot: auth token rejected")

type TokenSource interface {
	Token() (string, error)
}

// Loader fetches the upstream's current list of active calls for one
// tenant. A failed fetch returns an error and nothing else; it never
// touches existing state, so a flaky snapshot cannot wipe calls we
// already know about.
type Loader struct {
	baseURL  string
	tenantID string
	userID   string // optional: restrict to one user's calls
	tokens   TokenSource
	client   *http.Client
}

func NewLoader(baseURL, tenantID, userID string, tokens TokenSource) *Loader {
	return &Loader{
		baseURL:  baseURL,
		tenantID: tenantID,
		userID:   userID,
		tokens:   tokens,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns the calls the server classifies active right now.
func (l *Loader) Fetch(ctx context.Context) ([]model.Call, error) {
	token, err := l.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("snapshot: token source: %w", err)
	}

	u, err := url.Parse(l.baseURL)
	if err != nil {
		return nil, fmt.Errorf("snapshot: bad base url: %w", err)
	}
	u = u.JoinPath("api", l.tenantID, "calls")

	q := u.Query()
	q.Set("status", "in-progress,queued,ringing")
	if l.userID != "" {
		q.Set("user_id", l.userID)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot: fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuthExpired
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("snapshot: upstream returned %d", resp.StatusCode)
	}

	var calls []model.Call
	if err := json.NewDecoder(resp.Body).Decode(&calls); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return calls, nil
}
