package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Call statuses that count as "active" on the dashboard.
// Everything else (ended, completed, failed, missing) is inactive.
var activeStatuses = map[string]bool{
	"in-progress": true,
	"in_progress": true,
	"ringing":     true,
	"queued":      true,
}

func IsActive(status string) bool {
	return activeStatuses[strings.ToLower(strings.TrimSpace(status))]
}

type Call struct {
	ID          string `json:"id"`
	Status      string `json:"status,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Username    string `json:"username,omitempty"`

	StartedAt string  `json:"startedAt,omitempty"`
	EndedAt   string  `json:"endedAt,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
	Duration  int     `json:"duration,omitempty"`
	Cost      float64 `json:"cost,omitempty"`

	LiveTranscript  string         `json:"liveTranscript,omitempty"`
	FinalTranscript string         `json:"finalTranscript,omitempty"`
	Summary         map[string]any `json:"summary,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	RecordingURL    string         `json:"recordingUrl,omitempty"`
	Sentiment       string         `json:"sentiment,omitempty"`
	Disposition     string         `json:"disposition,omitempty"`
	FeedbackRating  int            `json:"feedbackRating,omitempty"`
	FeedbackText    string         `json:"feedbackText,omitempty"`

	HasListenUrl       bool `json:"hasListenUrl,omitempty"`
	HasLiveTranscript  bool `json:"hasLiveTranscript,omitempty"`
	HasFinalTranscript bool `json:"hasFinalTranscript,omitempty"`
	HasRecording       bool `json:"hasRecording,omitempty"`

	DetailsLoaded bool `json:"detailsLoaded,omitempty"`
}

func (c Call) Active() bool {
	return IsActive(c.Status)
}

// =======================
// WIRE DECODING
// =======================

// The upstream mixes camelCase and snake_case in the same payload
// (e.g. "startedAt" next to "created_at"). UnmarshalJSON maps both
// spellings onto the canonical record so nothing past this point has
// to care which one arrived.
func (c *Call) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = rawID(raw, "id")
	c.Status = rawString(raw, "status")
	c.PhoneNumber = rawString(raw, "phoneNumber", "phone_number")
	c.UserID = rawID(raw, "userId", "user_id")
	c.Username = rawString(raw, "username", "user_name")

	c.StartedAt = rawString(raw, "startedAt", "started_at")
	c.EndedAt = rawString(raw, "endedAt", "ended_at")
	c.CreatedAt = rawString(raw, "createdAt", "created_at")
	c.UpdatedAt = rawString(raw, "updatedAt", "updated_at")
	c.Duration = rawInt(raw, "duration")
	c.Cost = rawFloat(raw, "cost")

	c.LiveTranscript = rawString(raw, "liveTranscript", "live_transcript")
	c.FinalTranscript = rawString(raw, "finalTranscript", "final_transcript")
	c.Notes = rawString(raw, "notes")
	c.RecordingURL = rawString(raw, "recordingUrl", "recording_url")
	c.Sentiment = rawString(raw, "sentiment")
	c.Disposition = rawString(raw, "disposition")
	c.FeedbackRating = rawInt(raw, "feedbackRating", "feedback_rating")
	c.FeedbackText = rawString(raw, "feedbackText", "feedback_text")

	c.HasListenUrl = rawBool(raw, "hasListenUrl", "has_listen_url")
	c.HasLiveTranscript = rawBool(raw, "hasLiveTranscript", "has_live_transcript")
	c.HasFinalTranscript = rawBool(raw, "hasFinalTranscript", "has_final_transcript")
	c.HasRecording = rawBool(raw, "hasRecording", "has_recording")
	c.DetailsLoaded = rawBool(raw, "detailsLoaded", "details_loaded")

	if v, ok := raw["summary"]; ok {
		var m map[string]any
		if err := json.Unmarshal(v, &m); err == nil {
			c.Summary = m
		}
	}

	return nil
}

// =======================
// MERGE
// =======================

// Merge applies in on top of c field by field: an incoming value wins
// only when it is present and non-empty. A partial update carrying
// just a transcript cannot erase a previously known phone number.
func (c Call) Merge(in Call) Call {
	out := c

	if in.Status != "" {
		out.Status = in.Status
	}
	if in.PhoneNumber != "" {
		out.PhoneNumber = in.PhoneNumber
	}
	if in.UserID != "" {
		out.UserID = in.UserID
	}
	if in.Username != "" {
		out.Username = in.Username
	}
	if in.StartedAt != "" {
		out.StartedAt = in.StartedAt
	}
	if in.EndedAt != "" {
		out.EndedAt = in.EndedAt
	}
	if in.CreatedAt != "" {
		out.CreatedAt = in.CreatedAt
	}
	if in.UpdatedAt != "" {
		out.UpdatedAt = in.UpdatedAt
	}
	if in.Duration > 0 {
		out.Duration = in.Duration
	}
	if in.Cost > 0 {
		out.Cost = in.Cost
	}
	if in.LiveTranscript != "" {
		out.LiveTranscript = in.LiveTranscript
	}
	if in.FinalTranscript != "" {
		out.FinalTranscript = in.FinalTranscript
	}
	if len(in.Summary) > 0 {
		out.Summary = in.Summary
	}
	if in.Notes != "" {
		out.Notes = in.Notes
	}
	if in.RecordingURL != "" {
		out.RecordingURL = in.RecordingURL
	}
	if in.Sentiment != "" {
		out.Sentiment = in.Sentiment
	}
	if in.Disposition != "" {
		out.Disposition = in.Disposition
	}
	if in.FeedbackRating > 0 {
		out.FeedbackRating = in.FeedbackRating
	}
	if in.FeedbackText != "" {
		out.FeedbackText = in.FeedbackText
	}

	// presence flags only ever flip on
	out.HasListenUrl = out.HasListenUrl || in.HasListenUrl
	out.HasLiveTranscript = out.HasLiveTranscript || in.HasLiveTranscript
	out.HasFinalTranscript = out.HasFinalTranscript || in.HasFinalTranscript
	out.HasRecording = out.HasRecording || in.HasRecording
	out.DetailsLoaded = out.DetailsLoaded || in.DetailsLoaded

	return out
}

// =======================
// RAW FIELD HELPERS
// =======================

func rawString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// rawID stringifies ids that some upstreams send as JSON numbers, so
// 123 and "123" compare equal everywhere downstream.
func rawID(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil && n.String() != "" {
			return n.String()
		}
	}
	return ""
}

func rawInt(raw map[string]json.RawMessage, keys ...string) int {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			return int(n)
		}
	}
	return 0
}

func rawFloat(raw map[string]json.RawMessage, keys ...string) float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			return n
		}
	}
	return 0
}

func rawBool(raw map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			return b
		}
	}
	return false
}

// NormalizeID turns any wire form of a call id into the canonical
// string form.
func NormalizeID(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
