package controllers_fx

import (
	"go.uber.org/fx"

	"itinera/internal/api"
	"itinera/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewTravelerController),
	fx.Provide(controllers.NewNotificationController),
	fx.Provide(controllers.NewAnalyticsController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(api.NewRouter),
)
