package components

import (
	"github.com/gabrielmaialva33/moto-rental-platform/internal/handler"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/handler/api"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewVehicleHandler,
		api.NewRentalHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
