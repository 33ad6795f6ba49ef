package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callwatch/internal/model"
)

func TestUpsertNewActiveCall(t *testing.T) {
	s := NewStore()

	tr, call := s.ApplyUpsert(model.Call{ID: "c1", Status: "ringing"})

	assert.Equal(t, TransitionNew, tr)
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Known("c1"))
}

func TestUpsertIdempotent(t *testing.T) {
	s := NewStore()
	in := model.Call{ID: "c1", Status: "in-progress", PhoneNumber: "+1555"}

	s.ApplyUpsert(in)
	first := s.Snapshot()

	tr, _ := s.ApplyUpsert(in)
	second := s.Snapshot()

	assert.Equal(t, TransitionUpdated, tr)
	assert.Equal(t, first, second)
}

func TestUpsertNonDestructiveMerge(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "in-progress", PhoneNumber: "+1555"})

	// partial update: no phone number, new transcript
	tr, call := s.ApplyUpsert(model.Call{ID: "c1", LiveTranscript: "hi there"})

	assert.Equal(t, TransitionUpdated, tr)
	assert.Equal(t, "+1555", call.PhoneNumber)
	assert.Equal(t, "hi there", call.LiveTranscript)

	got, ok := s.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "+1555", got.PhoneNumber)
}

func TestUpsertMissingStatusKeepsPrevious(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "queued"})

	// status omitted: call must not regress to unknown/inactive
	tr, call := s.ApplyUpsert(model.Call{ID: "c1", Username: "bob"})

	assert.Equal(t, TransitionUpdated, tr)
	assert.Equal(t, "queued", call.Status)
	assert.Equal(t, 1, s.Len())
}

func TestUpsertEndTransition(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "queued"})
	require.Equal(t, 1, s.Len())

	tr, call := s.ApplyUpsert(model.Call{ID: "c1", Status: "completed"})

	assert.Equal(t, TransitionEnded, tr)
	assert.Equal(t, "completed", call.Status)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Known("c1"))
}

func TestUpsertInactiveUnknownIsNoop(t *testing.T) {
	s := NewStore()

	tr, _ := s.ApplyUpsert(model.Call{ID: "ghost", Status: "ended"})

	assert.Equal(t, TransitionNone, tr)
	assert.Equal(t, 0, s.Len())
}

func TestUpsertEmptyIDIgnored(t *testing.T) {
	s := NewStore()

	tr, _ := s.ApplyUpsert(model.Call{Status: "ringing"})

	assert.Equal(t, TransitionNone, tr)
	assert.Equal(t, 0, s.Len())
}

func TestTranscriptUpdate(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "in-progress", PhoneNumber: "+1555"})

	tr, call := s.ApplyTranscript("c1", "agent: hello", "")

	assert.Equal(t, TransitionUpdated, tr)
	assert.Equal(t, "agent: hello", call.LiveTranscript)
	assert.Equal(t, "+1555", call.PhoneNumber)
	assert.Equal(t, "in-progress", call.Status)
}

func TestTranscriptBeforeUpsertIsNoop(t *testing.T) {
	s := NewStore()

	// transcript stream racing ahead of the upsert
	tr, _ := s.ApplyTranscript("c3", "early text", "in-progress")

	assert.Equal(t, TransitionNone, tr)
	assert.Equal(t, 0, s.Len(), "no phantom entry")
}

func TestTranscriptWithEndedStatusRemovesCall(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "in-progress"})

	tr, _ := s.ApplyTranscript("c1", "bye", "ended")

	assert.Equal(t, TransitionEnded, tr)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Known("c1"))
}

func TestMergeSnapshotInsertsAsKnown(t *testing.T) {
	s := NewStore()

	inserted := s.MergeSnapshot([]model.Call{
		{ID: "c2", Status: "in-progress", PhoneNumber: "+1777"},
	})

	assert.Equal(t, []string{"c2"}, inserted)
	assert.True(t, s.Known("c2"))
	assert.Equal(t, 1, s.Len())
}

func TestMergeSnapshotDoesNotClobberStreamedFields(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "in-progress", LiveTranscript: "streamed text"})

	inserted := s.MergeSnapshot([]model.Call{
		{ID: "c1", Status: "in-progress", PhoneNumber: "+1555"},
	})

	assert.Empty(t, inserted, "already tracked ids are merged, not inserted")

	got, ok := s.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "streamed text", got.LiveTranscript, "snapshot silence keeps streamed data")
	assert.Equal(t, "+1555", got.PhoneNumber)
}

func TestMergeSnapshotSkipsInactive(t *testing.T) {
	s := NewStore()

	inserted := s.MergeSnapshot([]model.Call{
		{ID: "c9", Status: "ended"},
		{ID: "", Status: "ringing"},
	})

	assert.Empty(t, inserted)
	assert.Equal(t, 0, s.Len())
}

func TestSnapshotThenStreamOrderIndependence(t *testing.T) {
	up := model.Call{ID: "c1", Status: "in-progress", LiveTranscript: "t"}
	snap := []model.Call{{ID: "c1", Status: "in-progress", PhoneNumber: "+1555"}}

	a := NewStore()
	a.MergeSnapshot(snap)
	a.ApplyUpsert(up)

	b := NewStore()
	b.ApplyUpsert(up)
	b.MergeSnapshot(snap)

	ca, _ := a.Get("c1")
	cb, _ := b.Get("c1")
	assert.Equal(t, ca.PhoneNumber, cb.PhoneNumber)
	assert.Equal(t, ca.LiveTranscript, cb.LiveTranscript)
}

func TestSubscribersReceiveUpdates(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	s.ApplyUpsert(model.Call{ID: "c1", Status: "ringing"})
	u := <-sub
	assert.Equal(t, "call-upsert", u.Type)
	assert.Equal(t, "c1", u.Call.ID)

	s.ApplyUpsert(model.Call{ID: "c1", Status: "ended"})
	u = <-sub
	assert.Equal(t, "call-ended", u.Type)
}

func TestCloseBlocksLateMutations(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "ringing"})

	s.Close()
	require.Equal(t, 0, s.Len())

	// a snapshot fetch or frame that was in flight during teardown
	// must not repopulate the store
	tr, _ := s.ApplyUpsert(model.Call{ID: "c2", Status: "ringing"})
	assert.Equal(t, TransitionNone, tr)

	inserted := s.MergeSnapshot([]model.Call{{ID: "c3", Status: "in-progress"}})
	assert.Empty(t, inserted)

	tr, _ = s.ApplyTranscript("c1", "late", "in-progress")
	assert.Equal(t, TransitionNone, tr)

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Known("c2"))
}

func TestCloseEndsSubscribers(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()

	s.Close()

	_, open := <-sub
	assert.False(t, open)

	// a subscriber obtained after close is already closed
	late := s.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestClearWipesEverything(t *testing.T) {
	s := NewStore()
	s.ApplyUpsert(model.Call{ID: "c1", Status: "ringing"})
	s.ApplyUpsert(model.Call{ID: "c2", Status: "queued"})

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Known("c1"))
	assert.Empty(t, s.ActiveIDs())
}
