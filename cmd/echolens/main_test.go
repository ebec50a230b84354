package main

import (
	"bytes"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/app"
	"github.com/lixenwraith/echolens/config"
	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/view"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = ""
		debugFlag = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	t.Setenv("ECHOLENS_REDIS_ADDR", "broker:6379")

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "transition_delay: 1s")
	assert.Contains(t, out, "broker:6379")
	assert.Contains(t, out, "echolens:emotion")
}

func TestConfigCommandDebugFlag(t *testing.T) {
	out, err := execute(t, "config", "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "level: debug")
}

func TestPublishRequiresRedis(t *testing.T) {
	t.Setenv("ECHOLENS_REDIS_ADDR", "")
	_, err := execute(t, "publish", "happy")
	assert.ErrorContains(t, err, "no redis address")
}

func TestPublishCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("ECHOLENS_REDIS_ADDR", mr.Addr())

	out, err := execute(t, "publish", "Excited", "--intensity", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "published excited/positive/high")
}

func TestHandleKey(t *testing.T) {
	sess, err := app.New(app.Options{Config: config.Default()})
	require.NoError(t, err)
	defer sess.Stop()

	// Before start every action still reports whether to keep running
	assert.False(t, handleKey(sess, view.Action{Kind: view.ActionQuit}, zap.NewNop()))
	assert.True(t, handleKey(sess, view.Action{Kind: view.ActionNavigate, Route: core.RouteChat}, zap.NewNop()))
	assert.True(t, handleKey(sess, view.KeyAction(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)), zap.NewNop()))
}

func TestRegisterProducers(t *testing.T) {
	cfg := config.Default()
	sess, err := app.New(app.Options{Config: cfg})
	require.NoError(t, err)
	defer sess.Stop()

	require.NoError(t, registerProducers(sess, cfg, true, 1, zap.NewNop()))
	assert.Error(t, registerProducers(sess, cfg, true, 1, zap.NewNop()), "simulator registered twice")
}
