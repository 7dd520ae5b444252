package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/logging"
)

var Module = fx.Options(
	fx.Provide(logging.NewLogger),
	fx.Invoke(registerSync),
)

func registerSync(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr sync fails on some platforms; nothing to do about it
			_ = logger.Sync()
			return nil
		},
	})
}
