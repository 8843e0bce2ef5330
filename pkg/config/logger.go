package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger. debug wins over quiet; an empty path
// logs to stderr.
func NewLogger(debug, quiet bool, path string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch {
	case debug:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.WarnLevel
	}

	out := "stderr"
	if path != "" {
		out = path
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{out},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
		DisableCaller:     !debug,
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}

// Logger builds the logger described by c.
func (c Config) Logger() (*zap.Logger, error) {
	return NewLogger(c.Debug, c.Quiet, c.LogFile)
}
