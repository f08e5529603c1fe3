package bootstrap

import (
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
