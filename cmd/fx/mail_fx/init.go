package mail_fx

import (
	"go.uber.org/fx"

	"itinera/internal/services"
)

var Module = fx.Provide(services.NewMailService)
