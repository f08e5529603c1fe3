package components

import (
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewVehicleQueries,
		queries.NewRentalQueries,
		queries.NewPaymentQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewVehicleUseCase,
		commands.NewRentalUseCase,
		commands.NewPaymentUseCase,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
