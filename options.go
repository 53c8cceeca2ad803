package zfinder

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options are the runtime settings shared by the command-line tools.
type Options struct {
	LogLevel string `env:"ZFINDER_LOG_LEVEL" envDefault:"info"`
	Threads  int    `env:"ZFINDER_THREADS" envDefault:"2"`
	Profile  bool   `env:"ZFINDER_PROFILE" envDefault:"false"`
}

// LoadOptions reads Options from the environment.
func LoadOptions() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse options: %w", err)
	}
	if opts.Threads < 1 {
		return Options{}, fmt.Errorf("ZFINDER_THREADS must be positive")
	}
	if _, err := zapcore.ParseLevel(opts.LogLevel); err != nil {
		return Options{}, fmt.Errorf("ZFINDER_LOG_LEVEL must be one of: debug, info, warn, error")
	}
	return opts, nil
}

// NewLogger builds a JSON logger writing to stderr at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}
