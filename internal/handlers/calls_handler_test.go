package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callwatch/internal/model"
	"callwatch/internal/stream"
)

type fakeSync struct {
	calls      []model.Call
	refreshErr error
	refreshed  int
}

func (f *fakeSync) Calls() []model.Call         { return f.calls }
func (f *fakeSync) ConnState() stream.ConnState { return stream.StateConnected }
func (f *fakeSync) Refresh(context.Context) error {
	f.refreshed++
	return f.refreshErr
}

func TestListReturnsCurrentView(t *testing.T) {
	h := &CallsHandler{Sync: &fakeSync{calls: []model.Call{
		{ID: "c1", Status: "in-progress", PhoneNumber: "+1555"},
	}}}

	req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CallsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "connected", resp.ConnectionState)
	require.Len(t, resp.Calls, 1)
	assert.Equal(t, "c1", resp.Calls[0].ID)
}

func TestRefreshOK(t *testing.T) {
	sync := &fakeSync{}
	h := &CallsHandler{Sync: sync}

	req := httptest.NewRequest(http.MethodPost, "/api/calls/refresh", nil)
	w := httptest.NewRecorder()
	h.Refresh(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, sync.refreshed)
}

func TestRefreshUpstreamFailure(t *testing.T) {
	h := &CallsHandler{Sync: &fakeSync{refreshErr: errors.New("boom")}}

	req := httptest.NewRequest(http.MethodPost, "/api/calls/refresh", nil)
	w := httptest.NewRecorder()
	h.Refresh(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
