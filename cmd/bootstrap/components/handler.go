package components

import (
	"go.uber.org/fx"

	"travelid/internal/handler"
	"travelid/internal/handler/api"
	"travelid/internal/handler/middleware"
	"travelid/internal/pkg/config"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewPricingHandler,
		api.NewReservationHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(cfg config.Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(cfg.JWT)
}
