package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"callwatch/internal/model"
)

func TestNotifierFiresOncePerLifecycle(t *testing.T) {
	n := NewNotifier()
	var fired []string
	n.OnNewCall = func(c model.Call) { fired = append(fired, c.ID) }

	n.CallStarted(model.Call{ID: "c1", Status: "ringing"})
	n.CallStarted(model.Call{ID: "c1", Status: "in-progress"})

	assert.Equal(t, []string{"c1"}, fired)
}

func TestNotifierRearmsAfterEnd(t *testing.T) {
	n := NewNotifier()
	count := 0
	n.OnNewCall = func(model.Call) { count++ }

	n.CallStarted(model.Call{ID: "c1"})
	n.CallStarted(model.Call{ID: "c1"})
	assert.Equal(t, 1, count)

	// full lifecycle restart re-arms the alert
	n.CallEnded("c1")
	n.CallStarted(model.Call{ID: "c1"})
	assert.Equal(t, 2, count)
}

func TestNotifierExemptNeverFires(t *testing.T) {
	n := NewNotifier()
	count := 0
	n.OnNewCall = func(model.Call) { count++ }

	n.Exempt("c2")
	n.CallStarted(model.Call{ID: "c2"})

	assert.Equal(t, 0, count)
}

func TestNotifierNilCallbackSafe(t *testing.T) {
	n := NewNotifier()
	assert.NotPanics(t, func() {
		n.CallStarted(model.Call{ID: "c1"})
	})
}
