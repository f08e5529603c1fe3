package rental

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatus        = errors.New("invalid rental status")
	ErrInvalidPaymentStatus = errors.New("invalid rental payment status")
	ErrInvalidInsuranceTier = errors.New("invalid insurance tier")
)

// Status transitions are monotonic:
// reserved -> {active, cancelled}; active -> completed. Completed and
// cancelled are terminal.
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusReserved, StatusActive, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Occupies reports whether a rental in this status blocks the vehicle's
// calendar. Completed and cancelled rentals never block.
func (s Status) Occupies() bool {
	return s == StatusReserved || s == StatusActive
}

// PaymentStatus is a projection of the rental's payment set, kept on the
// rental row for listing/filtering. The payment entities are the source of
// truth.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func NewPaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

func (s PaymentStatus) String() string {
	return string(s)
}

// InsuranceTier is priced per rental day.
type InsuranceTier string

const (
	InsuranceBasic   InsuranceTier = "basic"
	InsurancePremium InsuranceTier = "premium"
	InsuranceFull    InsuranceTier = "full"
)

func NewInsuranceTier(s string) (InsuranceTier, error) {
	switch InsuranceTier(s) {
	case InsuranceBasic, InsurancePremium, InsuranceFull:
		return InsuranceTier(s), nil
	default:
		return "", ErrInvalidInsuranceTier
	}
}

func (t InsuranceTier) String() string {
	return string(t)
}

// Daily insurance fees in BRL.
func (t InsuranceTier) DailyFee() decimal.Decimal {
	switch t {
	case InsuranceBasic:
		return decimal.NewFromInt(15)
	case InsurancePremium:
		return decimal.NewFromInt(25)
	case InsuranceFull:
		return decimal.NewFromInt(40)
	default:
		return decimal.Zero
	}
}
