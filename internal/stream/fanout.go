package stream

import (
	"log"
	"sync"
)

type Listener func(Event)

type listenerEntry struct {
	fn      Listener
	removed bool
}

// Fanout republishes decoded events to every registered listener,
// synchronously and in registration order. Listeners may register and
// unregister at any time, including from inside a callback: dispatch
// iterates a copy of the list taken when the frame arrived, so a
// listener added mid-dispatch first sees the next event, and one
// removed mid-dispatch is skipped if it has not been invoked yet.
type Fanout struct {
	mu      sync.Mutex
	entries []*listenerEntry
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers fn and returns its remove function.
func (f *Fanout) Add(fn Listener) func() {
	e := &listenerEntry{fn: fn}

	f.mu.Lock()
	f.entries = append(f.entries, e)
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		e.removed = true
		for i, cur := range f.entries {
			if cur == e {
				f.entries = append(f.entries[:i], f.entries[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
	}
}

// Dispatch decodes one raw frame and hands the event to every
// listener. Malformed frames are dropped; they never crash the
// fan-out or unregister anyone.
func (f *Fanout) Dispatch(frame []byte) {
	ev, err := DecodeEvent(frame)
	if err != nil {
		log.Println("stream: dropping malformed frame:", err)
		return
	}
	if ev.Type == "" {
		return
	}
	f.Emit(ev)
}

// Emit delivers an already-decoded event.
func (f *Fanout) Emit(ev Event) {
	f.mu.Lock()
	snapshot := make([]*listenerEntry, len(f.entries))
	copy(snapshot, f.entries)
	f.mu.Unlock()

	for _, e := range snapshot {
		f.mu.Lock()
		removed := e.removed
		f.mu.Unlock()
		if removed {
			continue
		}
		e.fn(ev)
	}
}
