package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/app"
	"github.com/lixenwraith/echolens/config"
	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/feed"
	"github.com/lixenwraith/echolens/view"
)

var (
	simulateFeed bool
	muteFlag     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the terminal interface",
	Long: `Starts the terminal interface. Logs go to logs/echolens.log.

Keys:
  1-4        navigate dashboard, analysis, chat, settings
  d          toggle dark mode
  m          toggle mute
  h/e/s/a/n  inject happy, excited, sad, angry, neutral
  q, Esc     quit`,
	RunE: runTUI,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVar(&simulateFeed, "simulate", false, "drive states from the built-in simulator")
		cmd.Flags().BoolVar(&muteFlag, "mute", false, "start muted")
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	// Engine goroutines restore the terminal before exiting on a crash
	core.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mECHOLENS CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer core.SetCrashHandler(nil)

	if muteFlag {
		cfg.Audio.Enabled = false
	}
	sess, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	if err := registerProducers(sess, cfg, simulateFeed, 0, logger); err != nil {
		return err
	}
	if err := sess.Start(); err != nil {
		return err
	}
	defer sess.Stop()

	return uiLoop(screen, sess, logger)
}

// registerProducers attaches the Redis feed when configured, else the
// simulator when requested; a zero seed is taken from the clock
func registerProducers(sess *app.Session, cfg *config.Config, simulate bool, seed uint64, logger *zap.Logger) error {
	if cfg.Feed.RedisAddr != "" {
		sub := feed.NewSubscriber(feed.RedisOptions{
			Addr:     cfg.Feed.RedisAddr,
			Password: cfg.Feed.RedisPassword,
			DB:       cfg.Feed.RedisDB,
			Channel:  cfg.Feed.Channel,
		}, sess.Deliver, logger)
		return sess.Register(sub)
	}
	if simulate {
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		sim := feed.NewSimulator(cfg.Feed.SimulationInterval, seed, sess.Deliver, logger)
		return sess.Register(sim)
	}
	return nil
}

func uiLoop(screen tcell.Screen, sess *app.Session, logger *zap.Logger) error {
	renderer := view.NewRenderer(screen)

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	})

	ticker := time.NewTicker(constants.FrameUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !handleKey(sess, view.KeyAction(ev), logger) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			m, err := sess.Snapshot()
			if err != nil {
				return err
			}
			renderer.Draw(m)
		}
	}
}

// handleKey applies act and reports whether the UI keeps running
func handleKey(sess *app.Session, act view.Action, logger *zap.Logger) bool {
	var err error
	switch act.Kind {
	case view.ActionQuit:
		return false
	case view.ActionNavigate:
		err = sess.Navigate(act.Route)
	case view.ActionEmotion:
		err = sess.SetEmotionalState(act.State)
	case view.ActionToggleDark:
		err = sess.ToggleDarkMode()
	case view.ActionToggleMute:
		sess.ToggleMute()
	}
	if err != nil {
		logger.Warn("key action failed", zap.Error(err))
	}
	return true
}
