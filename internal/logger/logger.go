// Package logger wraps zap initialization so binaries share one setup path.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the process-wide zap logger.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap instance until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("debug", "info",
// "warn", "error").
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = log
	return nil
}
