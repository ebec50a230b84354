// Package logging builds the zap logger used across echolens
//
// The TUI owns the terminal, so when a log file is requested output goes only to
// that file under LogDir, rotated once it grows past MaxLogSize. Headless
// commands log to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogDir      = "logs"
	LogFileName = "echolens.log"
	MaxLogSize  = 10 * 1024 * 1024
)

// Options selects level, encoding and destination
type Options struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder
	File        string // empty logs to stderr, relative paths resolve under Dir
	Dir         string // defaults to LogDir
}

// ParseLevel maps a level name to zap, unknown names fall back to info
func ParseLevel(name string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New builds a logger for opts and returns a cleanup that syncs and closes it
func New(opts Options) (*zap.Logger, func(), error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.Development {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	level := zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	if opts.File == "" {
		core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
		logger := zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))
		return logger, func() { _ = logger.Sync() }, nil
	}

	f, err := OpenFile(opts.Dir, opts.File)
	if err != nil {
		return nil, nil, err
	}
	ws := zapcore.AddSync(f)
	logger := zap.New(zapcore.NewCore(enc, ws, level), zap.ErrorOutput(ws))
	cleanup := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, cleanup, nil
}

// OpenFile opens name for appending under dir, rotating an oversized file
// to a timestamped sibling first
func OpenFile(dir, name string) (*os.File, error) {
	if dir == "" {
		dir = LogDir
	}
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > MaxLogSize {
		ext := filepath.Ext(path)
		rotated := fmt.Sprintf("%s.%s%s", path[:len(path)-len(ext)], time.Now().Format("20060102-150405"), ext)
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("failed to rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
