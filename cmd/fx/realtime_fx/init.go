package realtime_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/config"
	"tripmate/internal/realtime"
)

var Module = fx.Options(
	fx.Provide(provideHub, provideSource),
	fx.Invoke(startSource),
)

func provideHub(cfg *config.Config, logger *zap.Logger) *realtime.Hub {
	return realtime.NewHub(cfg.RealtimeBuffer, logger)
}

func provideSource(cfg *config.Config, hub *realtime.Hub, logger *zap.Logger) *realtime.PQSource {
	return realtime.NewPQSource(cfg.PostgresURL, cfg.RealtimeChannel, hub, logger)
}

func startSource(lc fx.Lifecycle, source *realtime.PQSource) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return source.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return source.Stop(ctx)
		},
	})
}
