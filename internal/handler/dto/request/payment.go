package request

import (
	"encoding/json"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type ProcessPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// PaymentOutcomeRequest is the webhook body reporting an external settlement
// result. Reference is stored verbatim as gateway metadata.
type PaymentOutcomeRequest struct {
	Status    string          `json:"status" binding:"required"`
	Reference json.RawMessage `json:"reference,omitempty"`
}

type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

type RefundData struct {
	Amount *decimal.Decimal
	Reason string
}

func (r RefundRequest) ToDomain() (RefundData, error) {
	if r.Amount != nil && !r.Amount.IsPositive() {
		return RefundData{}, errs.New("refund amount must be positive")
	}
	return RefundData{Amount: r.Amount, Reason: r.Reason}, nil
}
