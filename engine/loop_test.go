package engine

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop := NewLoop(16, nil)
	loop.Start()
	defer loop.Stop()

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, loop.Post(func() { order = append(order, i) }))
	}
	require.NoError(t, loop.Do(func() {}))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestLoopDoWaits(t *testing.T) {
	loop := NewLoop(4, nil)
	loop.Start()
	defer loop.Stop()

	var ran atomic.Bool
	require.NoError(t, loop.Do(func() { ran.Store(true) }))
	assert.True(t, ran.Load())
}

func TestLoopRecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	loop := NewLoop(4, zap.New(core))
	loop.Start()
	defer loop.Stop()

	require.NoError(t, loop.Do(func() { panic("boom") }))

	var after atomic.Bool
	require.NoError(t, loop.Do(func() { after.Store(true) }))

	assert.True(t, after.Load(), "loop should keep running after a task panic")
	assert.Equal(t, int64(1), loop.Faults())
	assert.Equal(t, 1, logs.FilterMessage("task panicked").Len())
}

func TestLoopRejectsAfterStop(t *testing.T) {
	loop := NewLoop(4, nil)
	loop.Start()
	loop.Stop()
	loop.Stop()

	assert.ErrorIs(t, loop.Post(func() {}), ErrLoopStopped)
	assert.ErrorIs(t, loop.Do(func() {}), ErrLoopStopped)
	assert.False(t, loop.IsRunning())

	// Start after Stop stays stopped
	loop.Start()
	assert.False(t, loop.IsRunning())
}

func TestLoopStopWithoutStart(t *testing.T) {
	loop := NewLoop(0, nil)
	loop.Stop()
	assert.ErrorIs(t, loop.Post(func() {}), ErrLoopStopped)
}
