package feed_fx

import (
	"go.uber.org/fx"

	"tripmate/internal/services"
)

var Module = fx.Provide(services.NewFeedService)
