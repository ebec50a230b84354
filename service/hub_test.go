package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name     string
	deps     []string
	initErr  error
	startErr error
	trace    *[]string
	args     []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }
func (f *fakeService) Init(args ...any) error {
	f.args = args
	*f.trace = append(*f.trace, "init:"+f.name)
	return f.initErr
}
func (f *fakeService) Start() error {
	*f.trace = append(*f.trace, "start:"+f.name)
	return f.startErr
}
func (f *fakeService) Stop() error {
	*f.trace = append(*f.trace, "stop:"+f.name)
	return nil
}

func TestHubLifecycleOrder(t *testing.T) {
	var trace []string
	h := NewHub(nil)

	feed := &fakeService{name: "feed", deps: []string{"audio"}, trace: &trace}
	require.NoError(t, h.Register(feed, "redis://x"))
	require.NoError(t, h.Register(&fakeService{name: "audio", trace: &trace}, true))

	require.NoError(t, h.InitAll())
	require.NoError(t, h.StartAll())
	h.StopAll()
	h.StopAll()

	assert.Equal(t, []string{
		"init:audio", "init:feed",
		"start:audio", "start:feed",
		"stop:feed", "stop:audio",
	}, trace)
	assert.Equal(t, []string{"audio", "feed"}, h.Order())
	assert.Equal(t, []any{"redis://x"}, feed.args)
}

func TestHubDuplicateRegistration(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "audio", trace: &trace}))
	assert.Error(t, h.Register(&fakeService{name: "audio", trace: &trace}))
}

func TestHubMissingDependency(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "feed", deps: []string{"redis"}, trace: &trace}))
	assert.ErrorContains(t, h.InitAll(), "unregistered service")
}

func TestHubCycle(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "a", deps: []string{"b"}, trace: &trace}))
	require.NoError(t, h.Register(&fakeService{name: "b", deps: []string{"a"}, trace: &trace}))
	assert.ErrorContains(t, h.InitAll(), "circular")
}

func TestHubInitRollback(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	boom := errors.New("boom")
	require.NoError(t, h.Register(&fakeService{name: "a", trace: &trace}))
	require.NoError(t, h.Register(&fakeService{name: "b", deps: []string{"a"}, initErr: boom, trace: &trace}))

	err := h.InitAll()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init:a", "init:b", "stop:a"}, trace)
}

func TestHubStartBeforeInit(t *testing.T) {
	h := NewHub(nil)
	assert.Error(t, h.StartAll())
}

func TestHubTiesKeepRegistrationOrder(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "zeta", trace: &trace}))
	require.NoError(t, h.Register(&fakeService{name: "alpha", trace: &trace}))
	require.NoError(t, h.Register(&fakeService{name: "mid", deps: []string{"zeta"}, trace: &trace}))

	require.NoError(t, h.InitAll())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, h.Order())
}

func TestHubStartRollbackStopsFailingService(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	boom := errors.New("boom")
	require.NoError(t, h.Register(&fakeService{name: "audio", trace: &trace}))
	require.NoError(t, h.Register(&fakeService{name: "feed", startErr: boom, trace: &trace}))

	require.NoError(t, h.InitAll())
	assert.ErrorIs(t, h.StartAll(), boom)
	assert.Equal(t, []string{
		"init:audio", "init:feed",
		"start:audio", "start:feed",
		"stop:feed", "stop:audio",
	}, trace)

	// Nothing left to stop
	h.StopAll()
	assert.Len(t, trace, 6)
}
