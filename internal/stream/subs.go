package stream

import (
	"log"
	"sort"
	"sync"
)

// Sender is the slice of Conn the subscription manager needs.
type Sender interface {
	Send(v any) error
}

// Subscriptions tells the server which calls this client wants
// detailed updates for. The server forgets everything when a socket
// drops, so the tracked set is replayed after every reconnect. Ended
// calls are just untracked; the server stops sending for them on its
// own, no explicit unsubscribe.
type Subscriptions struct {
	sender Sender

	mu      sync.Mutex
	tracked map[string]bool
}

func NewSubscriptions(sender Sender) *Subscriptions {
	return &Subscriptions{
		sender:  sender,
		tracked: make(map[string]bool),
	}
}

// Track subscribes to one call. If the connection is down the send is
// skipped; Replay covers it on the next successful open.
func (s *Subscriptions) Track(callID string) {
	if callID == "" {
		return
	}

	s.mu.Lock()
	if s.tracked[callID] {
		s.mu.Unlock()
		return
	}
	s.tracked[callID] = true
	s.mu.Unlock()

	s.subscribe(callID)
}

func (s *Subscriptions) Untrack(callID string) {
	s.mu.Lock()
	delete(s.tracked, callID)
	s.mu.Unlock()
}

// Replay re-sends one subscribe per tracked call. Hung off
// Conn.OnConnected.
func (s *Subscriptions) Replay() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Strings(ids)
	for _, id := range ids {
		s.subscribe(id)
	}
}

func (s *Subscriptions) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Subscriptions) Reset() {
	s.mu.Lock()
	s.tracked = make(map[string]bool)
	s.mu.Unlock()
}

func (s *Subscriptions) subscribe(callID string) {
	err := s.sender.Send(subscribeMsg{Type: "subscribe", CallID: callID})
	if err != nil && err != ErrNotConnected {
		log.Println("stream: subscribe", callID, "failed:", err)
	}
}
