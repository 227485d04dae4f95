// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger, or a console logger when appEnv is
// "development". LOG_LEVEL overrides the level.
func New(appEnv string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(appEnv, "development") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if lvl := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lvl != "" {
		l, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("logging: LOG_LEVEL: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(l)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Install builds the logger, makes it the zap global and returns a flush func.
func Install(appEnv string) (func(), error) {
	logger, err := New(appEnv)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}
