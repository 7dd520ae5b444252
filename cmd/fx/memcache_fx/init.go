package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	resp "tripmate/internal/models/response_models"
	mem "tripmate/pkg/memcache"
)

const janitorInterval = 10 * time.Minute

var Module = fx.Options(
	fx.Provide(
		provideGeocodeTTLCache,
		provideGeocodeCache,
	),
	fx.Invoke(startJanitor),
)

func provideGeocodeTTLCache() *mem.TTLCache[[]resp.Place] {
	return mem.NewTTLCache[[]resp.Place]()
}

func provideGeocodeCache(c *mem.TTLCache[[]resp.Place]) mem.Store[[]resp.Place] {
	return c
}

func startJanitor(lc fx.Lifecycle, c *mem.TTLCache[[]resp.Place]) {
	var stop func()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			stop = c.StartJanitor(janitorInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			if stop != nil {
				stop()
			}
			return nil
		},
	})
}
