package commands

import (
	"context"
	"encoding/json"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// SettlementOutcome is what a gateway reports back for a submitted charge or
// refund. Reference carries provider metadata (QR code, barcode,
// authorization code) verbatim; the core stores it without interpreting it.
type SettlementOutcome struct {
	Status    payment.Status
	Reference json.RawMessage
}

// SettlementGateway is one payment method's settlement provider. Submit may
// leave the payment pending (pix and boleto settle asynchronously) or settle
// it immediately (card authorization).
type SettlementGateway interface {
	Method() payment.Method
	Submit(ctx context.Context, p *payment.Payment) (SettlementOutcome, error)
	Refund(ctx context.Context, original *payment.Payment, amount decimal.Decimal, reason string) (SettlementOutcome, error)
}

// GatewayResolver maps a payment method to its gateway.
type GatewayResolver interface {
	ForMethod(m payment.Method) (SettlementGateway, error)
}
