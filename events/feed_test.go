package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFeedDeliversInRegistrationOrder(t *testing.T) {
	f := NewFeed[int]("test", nil)

	var order []string
	f.Subscribe(func(v int) { order = append(order, "a") })
	f.Subscribe(func(v int) { order = append(order, "b") })
	f.Subscribe(func(v int) { order = append(order, "c") })

	f.Emit(1)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFeedUnsubscribeIdempotent(t *testing.T) {
	f := NewFeed[int]("test", nil)

	var a, b int
	unsubA := f.Subscribe(func(v int) { a++ })
	f.Subscribe(func(v int) { b++ })

	unsubA()
	unsubA()
	assert.Equal(t, 1, f.Len())

	f.Emit(1)
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b, "second unsubscribe call must not remove other listeners")
}

func TestFeedIsolatesPanics(t *testing.T) {
	obs, logs := observer.New(zap.ErrorLevel)
	f := NewFeed[string]("faulty", zap.New(obs))

	var got []string
	f.Subscribe(func(v string) { panic("listener failure") })
	f.Subscribe(func(v string) { got = append(got, v) })

	assert.NotPanics(t, func() { f.Emit("x") })
	assert.Equal(t, []string{"x"}, got)
	assert.Equal(t, int64(1), f.Faults.Load())
	assert.Equal(t, 1, logs.FilterMessage("subscriber fault").Len())
}

func TestFeedMutationDuringDispatch(t *testing.T) {
	f := NewFeed[int]("test", nil)

	var late, removed int
	var unsubRemoved Unsubscribe
	f.Subscribe(func(v int) {
		f.Subscribe(func(v int) { late++ })
		unsubRemoved()
	})
	unsubRemoved = f.Subscribe(func(v int) { removed++ })

	f.Emit(1)
	assert.Equal(t, 0, late, "listener added during dispatch sees the next value only")
	assert.Equal(t, 0, removed, "listener removed during dispatch is skipped")

	f.Emit(2)
	assert.Equal(t, 1, late)
}

func TestFeedClose(t *testing.T) {
	f := NewFeed[int]("test", nil)

	calls := 0
	unsub := f.Subscribe(func(v int) { calls++ })
	f.Close()
	f.Emit(1)
	unsub()

	assert.Equal(t, 0, calls)
	assert.True(t, f.Closed())

	f.Subscribe(func(v int) { calls++ })
	f.Emit(2)
	assert.Equal(t, 0, calls)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "RouteBegin", EventRouteBegin.String())
	assert.Equal(t, "Ready", EventReady.String())
	assert.Equal(t, "Unknown", EventType(99).String())
}
