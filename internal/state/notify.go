package state

import (
	"sync"

	"callwatch/internal/model"
)

// Notifier fires the "new active call" alert exactly once per call
// lifecycle. An id is re-armed only after the call has ended; calls
// hydrated from a snapshot are exempted without firing (they were
// already live when we looked, nothing is "new" about them).
type Notifier struct {
	mu    sync.Mutex
	fired map[string]bool

	// OnNewCall is invoked synchronously from the event path; it must
	// not block.
	OnNewCall func(model.Call)
}

func NewNotifier() *Notifier {
	return &Notifier{fired: make(map[string]bool)}
}

// CallStarted fires the notification for the call unless it already
// fired during this lifecycle.
func (n *Notifier) CallStarted(call model.Call) {
	n.mu.Lock()
	if n.fired[call.ID] {
		n.mu.Unlock()
		return
	}
	n.fired[call.ID] = true
	fn := n.OnNewCall
	n.mu.Unlock()

	if fn != nil {
		fn(call)
	}
}

// Exempt marks id as already notified without firing. Used for calls
// discovered via snapshot hydration.
func (n *Notifier) Exempt(id string) {
	n.mu.Lock()
	n.fired[id] = true
	n.mu.Unlock()
}

// CallEnded re-arms the notification for id. A later upsert for the
// same id is a genuinely new call lifecycle.
func (n *Notifier) CallEnded(id string) {
	n.mu.Lock()
	delete(n.fired, id)
	n.mu.Unlock()
}

func (n *Notifier) Reset() {
	n.mu.Lock()
	n.fired = make(map[string]bool)
	n.mu.Unlock()
}
