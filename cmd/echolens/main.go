package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/config"
	"github.com/lixenwraith/echolens/logging"
)

var (
	// Global flags
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "echolens",
	Short: "echolens - emotion-aware view orchestration",
	Long: `echolens surfaces detected emotional cues through a terminal view.

Emotional-state updates arrive from a Redis channel or the built-in simulator;
celebratory emotions open a bounded celebration window with an audio cue, and
every navigation runs a short loading phase.

Run without arguments to start the terminal interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "debug logging")

	rootCmd.AddCommand(runCmd, simulateCmd, publishCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig applies the global flags over file and environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debugFlag {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the command logger; toFile forces file output so the
// terminal stays clean
func newLogger(cfg *config.Config, toFile bool) (*zap.Logger, func(), error) {
	opts := logging.Options{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development || debugFlag,
		File:        cfg.Logging.File,
	}
	if toFile && opts.File == "" {
		opts.File = logging.LogFileName
	}
	logger, cleanup, err := logging.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, cleanup, nil
}
