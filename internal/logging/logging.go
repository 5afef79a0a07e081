// Package logging builds the zap logger herd writes its diagnostics to.
// Logs go to stderr so stdout carries nothing but the command response.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Options controls logger construction.
type Options struct {
	Level   string // debug, info, warn or error
	Verbose bool   // forces debug
	Output  string // zap sink URL, defaults to stderr
}

// New builds a JSON logger tagged with a fresh run id, so every line from one
// invocation can be grouped.
func New(opts Options) (*zap.Logger, error) {
	level := opts.Level
	if level == "" {
		level = DefaultLevel
	}
	if opts.Verbose {
		level = "debug"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	out := opts.Output
	if out == "" {
		out = "stderr"
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{out}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("run", uuid.NewString())), nil
}
