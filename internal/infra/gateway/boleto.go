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

type BoletoGateway struct {
	cfg   config.GatewayConfig
	clock clock.Clock
}

func NewBoletoGateway(cfg config.GatewayConfig, clk clock.Clock) commands.SettlementGateway {
	return &BoletoGateway{cfg: cfg, clock: clk}
}

func (g *BoletoGateway) Method() payment.Method {
	return payment.MethodBoleto
}

type boletoReference struct {
	Barcode string    `json:"barcode"`
	DueDate time.Time `json:"due_date"`
	URL     string    `json:"url"`
}

// Submit issues the bank slip and leaves the charge pending until the bank
// reports the payment, usually one business day after it is paid.
func (g *BoletoGateway) Submit(_ context.Context, p *payment.Payment) (commands.SettlementOutcome, error) {
	now := g.clock.Now()
	ref := boletoReference{
		Barcode: "34191" + randomDigits(42),
		DueDate: now.AddDate(0, 0, g.cfg.BoletoDueDays),
		URL:     g.cfg.BoletoURLPrefix + p.TransactionID(),
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return commands.SettlementOutcome{}, errs.Wrap(err, "failed to encode boleto reference")
	}
	return commands.SettlementOutcome{Status: payment.StatusPending, Reference: raw}, nil
}

type boletoRefundReference struct {
	RefundID    string          `json:"refund_id"`
	OriginalTRX string          `json:"original_trx"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason,omitempty"`
	RequestedAt time.Time       `json:"requested_at"`
}

// Refund of a boleto is a bank transfer back to the payer and is not
// instantaneous; it comes back pending and settles through the webhook.
func (g *BoletoGateway) Refund(_ context.Context, original *payment.Payment, amount decimal.Decimal, reason string) (commands.SettlementOutcome, error) {
	ref := boletoRefundReference{
		RefundID:    "EST" + randomDigits(10),
		OriginalTRX: original.TransactionID(),
		Amount:      amount,
		Reason:      reason,
		RequestedAt: g.clock.Now(),
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return commands.SettlementOutcome{}, errs.Wrap(err, "failed to encode boleto refund reference")
	}
	return commands.SettlementOutcome{Status: payment.StatusPending, Reference: raw}, nil
}
