package payment

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("payment amount must be positive")
	ErrNotPending    = errors.New("payment is not pending")
	ErrNotCompleted  = errors.New("payment is not completed")
)

// RefundWindowDays bounds how long after creation a completed payment stays
// refundable.
const RefundWindowDays = 30

type Payment struct {
	id            uuid.UUID
	rentalID      uuid.UUID
	userID        uuid.UUID
	transactionID string
	amount        decimal.Decimal
	paymentType   Type
	method        Method
	status        Status
	description   string

	// Opaque settlement metadata (QR code, barcode, authorization code...).
	// Stored verbatim, never interpreted by the core.
	gatewayResponse json.RawMessage

	paidAt     *time.Time
	refundedAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewPayment(
	now time.Time,
	rentalID, userID uuid.UUID,
	amount decimal.Decimal,
	paymentType Type,
	method Method,
	description string,
) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Payment{
		id:            uuid.New(),
		rentalID:      rentalID,
		userID:        userID,
		transactionID: newTransactionID(now),
		amount:        amount,
		paymentType:   paymentType,
		method:        method,
		status:        StatusPending,
		description:   strings.TrimSpace(description),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructPayment(
	id, rentalID, userID uuid.UUID,
	transactionID string,
	amount decimal.Decimal,
	paymentType Type,
	method Method,
	status Status,
	description string,
	gatewayResponse json.RawMessage,
	paidAt, refundedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:              id,
		rentalID:        rentalID,
		userID:          userID,
		transactionID:   transactionID,
		amount:          amount,
		paymentType:     paymentType,
		method:          method,
		status:          status,
		description:     description,
		gatewayResponse: gatewayResponse,
		paidAt:          paidAt,
		refundedAt:      refundedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func newTransactionID(now time.Time) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TRX%d", now.UnixNano())
	}
	return fmt.Sprintf("TRX%s%d", strings.ToUpper(hex.EncodeToString(buf)), now.Unix())
}

func (p *Payment) MarkCompleted(now time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	p.status = StatusCompleted
	p.paidAt = &now
	p.updatedAt = now
	return nil
}

func (p *Payment) MarkFailed(now time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	p.status = StatusFailed
	p.updatedAt = now
	return nil
}

func (p *Payment) MarkRefunded(now time.Time) error {
	if p.status != StatusCompleted {
		return ErrNotCompleted
	}
	p.status = StatusRefunded
	p.refundedAt = &now
	p.updatedAt = now
	return nil
}

// AssignMethod picks the settlement method for a pending payment. The method
// stays mutable until the payment leaves the pending state.
func (p *Payment) AssignMethod(m Method, now time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	p.method = m
	p.updatedAt = now
	return nil
}

func (p *Payment) AttachGatewayResponse(raw json.RawMessage, now time.Time) {
	p.gatewayResponse = raw
	p.updatedAt = now
}

// RefundableAt reports whether a refund may be requested against this
// payment: it must be completed, must not itself be a refund, and must be at
// most RefundWindowDays old. A payment exactly at the boundary is still
// eligible.
func (p *Payment) RefundableAt(now time.Time) bool {
	if p.status != StatusCompleted {
		return false
	}
	if p.paymentType == TypeRefund {
		return false
	}
	return !now.After(p.createdAt.AddDate(0, 0, RefundWindowDays))
}

func (p *Payment) ID() uuid.UUID                    { return p.id }
func (p *Payment) RentalID() uuid.UUID              { return p.rentalID }
func (p *Payment) UserID() uuid.UUID                { return p.userID }
func (p *Payment) TransactionID() string            { return p.transactionID }
func (p *Payment) Amount() decimal.Decimal          { return p.amount }
func (p *Payment) Type() Type                       { return p.paymentType }
func (p *Payment) Method() Method                   { return p.method }
func (p *Payment) Status() Status                   { return p.status }
func (p *Payment) Description() string              { return p.description }
func (p *Payment) GatewayResponse() json.RawMessage { return p.gatewayResponse }
func (p *Payment) PaidAt() *time.Time               { return p.paidAt }
func (p *Payment) RefundedAt() *time.Time           { return p.refundedAt }
func (p *Payment) CreatedAt() time.Time             { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time             { return p.updatedAt }
