package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/config"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type PixGateway struct {
	cfg   config.GatewayConfig
	clock clock.Clock
}

func NewPixGateway(cfg config.GatewayConfig, clk clock.Clock) commands.SettlementGateway {
	return &PixGateway{cfg: cfg, clock: clk}
}

func (g *PixGateway) Method() payment.Method {
	return payment.MethodPix
}

type pixReference struct {
	QRCode    string    `json:"qr_code"`
	PixKey    string    `json:"pix_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Submit issues the copy-paste code and leaves the charge pending; the
// settlement signal arrives through the outcome webhook once the transfer
// clears.
func (g *PixGateway) Submit(_ context.Context, p *payment.Payment) (commands.SettlementOutcome, error) {
	now := g.clock.Now()
	ref := pixReference{
		QRCode:    fmt.Sprintf("00020126PIX%s%s", p.TransactionID(), randomHex(16)),
		PixKey:    g.cfg.PixKey,
		ExpiresAt: now.Add(g.cfg.PixExpiry),
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return commands.SettlementOutcome{}, errs.Wrap(err, "failed to encode pix reference")
	}
	return commands.SettlementOutcome{Status: payment.StatusPending, Reference: raw}, nil
}

type pixRefundReference struct {
	RefundID    string          `json:"refund_id"`
	OriginalTRX string          `json:"original_trx"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason,omitempty"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// Refund reverses over the same rails; pix devolutions clear immediately.
func (g *PixGateway) Refund(_ context.Context, original *payment.Payment, amount decimal.Decimal, reason string) (commands.SettlementOutcome, error) {
	ref := pixRefundReference{
		RefundID:    "DEV" + randomHex(8),
		OriginalTRX: original.TransactionID(),
		Amount:      amount,
		Reason:      reason,
		ProcessedAt: g.clock.Now(),
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return commands.SettlementOutcome{}, errs.Wrap(err, "failed to encode pix refund reference")
	}
	return commands.SettlementOutcome{Status: payment.StatusCompleted, Reference: raw}, nil
}
