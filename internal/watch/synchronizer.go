package watch

import (
	"context"
	"log"
	"sync"
	"time"

	"callwatch/internal/model"
	"callwatch/internal/snapshot"
	"callwatch/internal/state"
	"callwatch/internal/stream"
)

// TokenSource issues the upstream bearer token. Refresh is the
// provider's problem; the synchronizer re-reads it on every reconnect
// and snapshot fetch.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is the config-file token source.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

type Config struct {
	APIURL         string
	StreamURL      string
	TenantID       string
	UserID         string // optional user restriction
	ReconnectDelay time.Duration
}

// Synchronizer keeps the active-call view correct and live: REST
// snapshot and websocket stream are merged into one store, new-call
// notifications fire exactly once per lifecycle, and per-call
// subscriptions are replayed after reconnects. All state it owns
// shares one lifetime and is torn down together by Close.
type Synchronizer struct {
	cfg Config

	store    *state.Store
	notifier *state.Notifier
	subs     *stream.Subscriptions
	conn     *stream.Conn
	loader   *snapshot.Loader
	fanout   *stream.Fanout

	mu     sync.Mutex
	closed bool
}

func New(cfg Config, tokens TokenSource) *Synchronizer {
	s := &Synchronizer{
		cfg:      cfg,
		store:    state.NewStore(),
		notifier: state.NewNotifier(),
		fanout:   stream.NewFanout(),
		loader:   snapshot.NewLoader(cfg.APIURL, cfg.TenantID, cfg.UserID, tokens),
	}

	s.conn = stream.NewConn(cfg.StreamURL, tokens, cfg.ReconnectDelay)
	s.subs = stream.NewSubscriptions(s.conn)

	s.conn.OnFrame = s.fanout.Dispatch
	s.conn.OnConnected = s.subs.Replay
	s.fanout.Add(s.apply)

	return s
}

// Start opens the stream and fetches the initial snapshot
// concurrently. Either may finish first; the merge policy tolerates
// both orders.
func (s *Synchronizer) Start(ctx context.Context) {
	s.conn.Connect()

	go func() {
		if err := s.Refresh(ctx); err != nil {
			log.Println("watch: initial snapshot failed:", err)
		}
	}()
}

// Refresh re-fetches the snapshot and reconciles it into state. Safe
// to call at any time (sign-in, manual refresh). On error existing
// state is left untouched.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	calls, err := s.loader.Fetch(ctx)
	if err != nil {
		return err
	}
	s.hydrate(calls)
	return nil
}

func (s *Synchronizer) hydrate(calls []model.Call) {
	// The real teardown guard lives inside the store: once it is
	// closed, MergeSnapshot returns nothing under the store's own
	// lock, so a fetch that was already in flight when Close ran
	// cannot re-insert calls or re-track subscriptions.
	inserted := s.store.MergeSnapshot(calls)
	for _, id := range inserted {
		// already live when we looked: no notification, but the
		// server still needs to know we want its updates
		s.notifier.Exempt(id)
		s.subs.Track(id)
	}
	if len(inserted) > 0 {
		log.Println("watch: snapshot added", len(inserted), "calls")
	}
}

// apply is the single listener wiring stream events into the store.
// A frame already inside this function when Close runs hits the
// closed store, gets TransitionNone back, and touches nothing else.
func (s *Synchronizer) apply(ev stream.Event) {
	switch ev.Type {
	case stream.EventCallUpsert:
		tr, call := s.store.ApplyUpsert(ev.Call)
		switch tr {
		case state.TransitionNew:
			s.notifier.CallStarted(call)
			s.subs.Track(call.ID)
		case state.TransitionEnded:
			s.notifier.CallEnded(call.ID)
			s.subs.Untrack(call.ID)
		}

	case stream.EventTranscriptUpdate:
		tr, call := s.store.ApplyTranscript(ev.CallID, ev.FullTranscript, ev.Status)
		if tr == state.TransitionEnded {
			s.notifier.CallEnded(call.ID)
			s.subs.Untrack(call.ID)
		}
	}
}

// OnNewCall registers the single outward new-call alert hook. Must be
// set before Start.
func (s *Synchronizer) OnNewCall(fn func(model.Call)) {
	s.notifier.OnNewCall = fn
}

// Listen registers an external listener for every decoded event and
// returns its remove function.
func (s *Synchronizer) Listen(fn stream.Listener) func() {
	return s.fanout.Add(fn)
}

// Calls returns the current active-call view.
func (s *Synchronizer) Calls() []model.Call {
	return s.store.Snapshot()
}

func (s *Synchronizer) Call(id string) (model.Call, bool) {
	return s.store.Get(id)
}

func (s *Synchronizer) ConnState() stream.ConnState {
	return s.conn.State()
}

// Updates subscribes to store mutations (dashboard re-serve).
func (s *Synchronizer) Updates() state.Subscriber {
	return s.store.Subscribe()
}

func (s *Synchronizer) ReleaseUpdates(sub state.Subscriber) {
	s.store.Unsubscribe(sub)
}

// Close tears everything down in one logical step: pending reconnect
// cancelled, socket handlers detached and socket closed, all
// in-memory state cleared. The store is closed terminally first, so a
// timer, late snapshot, or in-flight frame firing afterwards is a
// no-op all the way down (no transition means no notifier or
// subscription calls either).
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.store.Close()
	s.conn.Close()
	s.subs.Reset()
	s.notifier.Reset()
}
