package components

import (
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/gateway"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/config"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewGatewayResolver,
	),
)

func NewGatewayResolver(cfg config.Config, clk clock.Clock) commands.GatewayResolver {
	return gateway.NewResolver(
		gateway.NewPixGateway(cfg.Gateway, clk),
		gateway.NewBoletoGateway(cfg.Gateway, clk),
		gateway.NewCreditCardGateway(cfg.Gateway, clk),
	)
}
