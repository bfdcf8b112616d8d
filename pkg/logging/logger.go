// Package logging builds the process logger and provides log sanitization
// helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New constructs the root zap logger for the given environment. Local and
// development environments get console output at debug level; everything
// else gets production JSON at info level.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "local", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
