package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/config"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type CreditCardGateway struct {
	cfg   config.GatewayConfig
	clock clock.Clock
}

func NewCreditCardGateway(cfg config.GatewayConfig, clk clock.Clock) commands.SettlementGateway {
	return &CreditCardGateway{cfg: cfg, clock: clk}
}

func (g *CreditCardGateway) Method() payment.Method {
	return payment.MethodCreditCard
}

type cardReference struct {
	AuthorizationCode   string    `json:"authorization_code"`
	StatementDescriptor string    `json:"statement_descriptor"`
	AuthorizedAt        time.Time `json:"authorized_at"`
}

// Submit authorizes and captures in one step, so the charge settles inside
// the call.
func (g *CreditCardGateway) Submit(_ context.Context, p *payment.Payment) (commands.SettlementOutcome, error) {
	ref := cardReference{
		AuthorizationCode:   "AUTH" + randomHex(6),
		StatementDescriptor: g.cfg.CardStatementTag,
		AuthorizedAt:        g.clock.Now(),
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return commands.SettlementOutcome{}, errs.Wrap(err, "failed to encode card reference")
	}
	return commands.SettlementOutcome{Status: payment.StatusCompleted, Reference: raw}, nil
}

type cardRefundReference struct {
	ChargebackID string          `json:"chargeback_id"`
	OriginalTRX  string          `json:"original_trx"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason,omitempty"`
	ProcessedAt  time.Time       `json:"processed_at"`
}

func (g *CreditCardGateway) Refund(_ context.Context, original *payment.Payment, amount decimal.Decimal, reason string) (commands.SettlementOutcome, error) {
	ref := cardRefundReference{
		ChargebackID: "RFD" + randomHex(6),
		OriginalTRX:  original.TransactionID(),
		Amount:       amount,
		Reason:       reason,
		ProcessedAt:  g.clock.Now(),
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return commands.SettlementOutcome{}, errs.Wrap(err, "failed to encode card refund reference")
	}
	return commands.SettlementOutcome{Status: payment.StatusCompleted, Reference: raw}, nil
}
