// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"

	"tripmate/internal/config"
)

// NewLogger returns a JSON production logger when cfg.Env is "production",
// a console development logger otherwise. The logger also becomes zap.L().
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
