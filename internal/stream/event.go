package stream

import (
	"encoding/json"

	"callwatch/internal/model"
)

type EventType string

const (
	EventCallUpsert       EventType = "call-upsert"
	EventTranscriptUpdate EventType = "transcript-update"
)

// Event is one decoded frame from the upstream stream.
type Event struct {
	Type     EventType
	ClientID string

	// call-upsert
	Call model.Call

	// transcript-update
	CallID         string
	FullTranscript string
	Status         string
}

type eventWire struct {
	Type           string          `json:"type"`
	ClientID       string          `json:"clientId"`
	Call           json.RawMessage `json:"call"`
	CallID         json.RawMessage `json:"callId"`
	FullTranscript string          `json:"fullTranscript"`
	Status         string          `json:"status"`
}

// DecodeEvent parses a raw frame. Frames of a type the dashboard does
// not consume decode into Type "" and are skipped by the caller.
func DecodeEvent(data []byte) (Event, error) {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, err
	}

	ev := Event{ClientID: w.ClientID}

	switch EventType(w.Type) {
	case EventCallUpsert:
		ev.Type = EventCallUpsert
		if len(w.Call) > 0 {
			if err := json.Unmarshal(w.Call, &ev.Call); err != nil {
				return Event{}, err
			}
		}

	case EventTranscriptUpdate:
		ev.Type = EventTranscriptUpdate
		ev.CallID = decodeID(w.CallID)
		ev.FullTranscript = w.FullTranscript
		ev.Status = w.Status
	}

	return ev, nil
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.NormalizeID(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return model.NormalizeID(n)
	}
	return ""
}

// subscribeMsg is the only control message the client pushes: it asks
// the server for detailed updates on one call.
type subscribeMsg struct {
	Type   string `json:"type"`
	CallID string `json:"callId"`
}
