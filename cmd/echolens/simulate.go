package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/app"
	"github.com/lixenwraith/echolens/events"
)

var (
	simDuration time.Duration
	simSeed     uint64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the engine headless against the simulated producer",
	Long: `Runs the engine without a terminal interface. States come from the Redis
feed when configured, else from the simulator. Every reaction is logged;
the final counters are logged on exit.`,
	RunE: simulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&simDuration, "duration", 0, "stop after this long, 0 runs until interrupted")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "simulator seed, 0 picks one from the clock")
	simulateCmd.Flags().BoolVar(&muteFlag, "mute", false, "disable audio output")
}

func simulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	if muteFlag {
		cfg.Audio.Enabled = false
	}
	sess, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	if err := registerProducers(sess, cfg, true, simSeed, logger); err != nil {
		return err
	}

	journal := logger.Named("journal")
	if _, err := sess.OnEvent(func(e events.Event) {
		journal.Info(e.Type.String(), zap.Any("payload", e.Payload), zap.Time("at", e.Time))
	}); err != nil {
		return err
	}

	if err := sess.Start(); err != nil {
		return err
	}
	defer func() {
		counters := sess.Status().Snapshot()
		keys := make([]string, 0, len(counters))
		for k := range counters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]zap.Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, zap.String(k, counters[k]))
		}
		sess.Stop()
		logger.Info("simulation finished", fields...)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if simDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, simDuration)
		defer cancel()
	}

	<-ctx.Done()
	return nil
}
