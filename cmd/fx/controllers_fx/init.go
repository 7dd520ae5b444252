package controllers_fx

import (
	"go.uber.org/fx"

	"tripmate/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewTripController),
	fx.Provide(controllers.NewExperienceController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewFeedController),
	fx.Provide(controllers.NewGeocodeController),
	fx.Provide(controllers.NewRealtimeController))
