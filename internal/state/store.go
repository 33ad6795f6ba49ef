package state

import (
	"sync"

	"callwatch/internal/model"
)

// Transition classifies what an applied event did to the store.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionNew             // call became active and was not tracked before
	TransitionUpdated
	TransitionEnded
)

// Update is what store subscribers receive on every mutation.
type Update struct {
	Type string     `json:"type"` // call-upsert | call-ended | transcript-update
	Call model.Call `json:"call"`
}

type Subscriber chan Update

// Store is the authoritative map of currently active calls. It is the
// only component that writes call state; everything else feeds it
// decoded events or snapshot results.
type Store struct {
	mu     sync.RWMutex
	calls  map[string]model.Call
	known  map[string]bool // ids already classified active (drives notification dedup)
	subs   []Subscriber
	closed bool
}

func NewStore() *Store {
	return &Store{
		calls: make(map[string]model.Call),
		known: make(map[string]bool),
	}
}

// =======================
// UPSERT
// =======================

// ApplyUpsert merges one streamed call-upsert into the store and
// reports the resulting transition plus the record after the merge.
//
// A partial update with no status keeps the previously known status:
// an upsert must never regress a call to "unknown" just because the
// payload omitted the field.
func (s *Store) ApplyUpsert(in model.Call) (Transition, model.Call) {
	if in.ID == "" {
		return TransitionNone, model.Call{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return TransitionNone, model.Call{}
	}
	tr, call := s.applyLocked(in)
	s.mu.Unlock()

	switch tr {
	case TransitionNew, TransitionUpdated:
		s.broadcast(Update{Type: "call-upsert", Call: call})
	case TransitionEnded:
		s.broadcast(Update{Type: "call-ended", Call: call})
	}
	return tr, call
}

func (s *Store) applyLocked(in model.Call) (Transition, model.Call) {
	prev, exists := s.calls[in.ID]

	effective := in.Status
	if effective == "" && exists {
		effective = prev.Status
	}

	switch {
	case model.IsActive(effective) && !exists:
		call := in
		call.Status = effective
		s.calls[in.ID] = call
		s.known[in.ID] = true
		return TransitionNew, call

	case model.IsActive(effective) && exists:
		call := prev.Merge(in)
		call.Status = effective
		s.calls[in.ID] = call
		return TransitionUpdated, call

	case exists:
		call := prev.Merge(in)
		call.Status = effective
		delete(s.calls, in.ID)
		delete(s.known, in.ID)
		return TransitionEnded, call

	default:
		return TransitionNone, model.Call{}
	}
}

// =======================
// TRANSCRIPT
// =======================

// ApplyTranscript handles the lightweight transcript-update event.
// Unknown ids are ignored: the transcript stream may race ahead of
// the upsert that introduces the call.
func (s *Store) ApplyTranscript(callID, fullTranscript, status string) (Transition, model.Call) {
	callID = model.NormalizeID(callID)
	if callID == "" {
		return TransitionNone, model.Call{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return TransitionNone, model.Call{}
	}
	if _, exists := s.calls[callID]; !exists {
		s.mu.Unlock()
		return TransitionNone, model.Call{}
	}
	tr, call := s.applyLocked(model.Call{
		ID:             callID,
		Status:         status,
		LiveTranscript: fullTranscript,
	})
	s.mu.Unlock()

	switch tr {
	case TransitionUpdated:
		s.broadcast(Update{Type: "transcript-update", Call: call})
	case TransitionEnded:
		s.broadcast(Update{Type: "call-ended", Call: call})
	}
	return tr, call
}

// =======================
// SNAPSHOT MERGE
// =======================

// MergeSnapshot reconciles a REST snapshot into existing state.
// Calls discovered this way are inserted as already known, so they
// never fire a new-call notification. Already tracked calls merge
// field by field; streamed values survive wherever the snapshot is
// silent. Returns the ids that were newly inserted.
func (s *Store) MergeSnapshot(calls []model.Call) []string {
	var inserted []string
	var updates []Update

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	for _, in := range calls {
		if in.ID == "" || !in.Active() {
			continue
		}
		if prev, exists := s.calls[in.ID]; exists {
			call := prev.Merge(in)
			s.calls[in.ID] = call
			updates = append(updates, Update{Type: "call-upsert", Call: call})
			continue
		}
		s.calls[in.ID] = in
		s.known[in.ID] = true
		inserted = append(inserted, in.ID)
		updates = append(updates, Update{Type: "call-upsert", Call: in})
	}
	s.mu.Unlock()

	for _, u := range updates {
		s.broadcast(u)
	}
	return inserted
}

// =======================
// READ SIDE
// =======================

func (s *Store) Snapshot() []model.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]model.Call, 0, len(s.calls))
	for _, c := range s.calls {
		res = append(res, c)
	}
	return res
}

func (s *Store) Get(id string) (model.Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.calls[model.NormalizeID(id)]
	return c, ok
}

// ActiveIDs lists every id currently tracked as active. Used for
// subscribe replay after a reconnect.
func (s *Store) ActiveIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.calls))
	for id := range s.calls {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Known(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known[id]
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// Clear wipes all call state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = make(map[string]model.Call)
	s.known = make(map[string]bool)
}

// Close wipes all call state and shuts the store for good: every
// mutating op afterwards is a no-op under the same lock, so a
// snapshot fetch or frame dispatch that was already in flight when
// teardown started cannot repopulate a torn-down store. The maps and
// the connection share one lifetime.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.calls = make(map[string]model.Call)
	s.known = make(map[string]bool)
	for _, sub := range s.subs {
		close(sub)
	}
	s.subs = nil
}

// =======================
// SUBSCRIBERS
// =======================

func (s *Store) Subscribe() Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(Subscriber, 16)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) Unsubscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ssub := range s.subs {
		if ssub == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(ssub)
			break
		}
	}
}

func (s *Store) broadcast(u Update) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		select {
		case sub <- u:
		default:
		}
	}
}
