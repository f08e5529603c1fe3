package payment

import "errors"

var (
	ErrInvalidType   = errors.New("invalid payment type")
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrInvalidStatus = errors.New("invalid payment status")
)

// Type classifies the monetary event. Each rental has exactly one payment of
// type rental for the primary booking charge.
type Type string

const (
	TypeRental     Type = "rental"
	TypeDeposit    Type = "deposit"
	TypeAdditional Type = "additional"
	TypeRefund     Type = "refund"
)

func NewType(s string) (Type, error) {
	switch Type(s) {
	case TypeRental, TypeDeposit, TypeAdditional, TypeRefund:
		return Type(s), nil
	default:
		return "", ErrInvalidType
	}
}

func (t Type) String() string {
	return string(t)
}

type Method string

const (
	// MethodUnset marks a payment whose settlement method has not been
	// chosen yet. Rental lifecycle commands create payments unset; the
	// method is assigned when the customer submits the charge.
	MethodUnset Method = ""

	MethodPix        Method = "pix"
	MethodBoleto     Method = "boleto"
	MethodCreditCard Method = "credit_card"
)

func NewMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodPix, MethodBoleto, MethodCreditCard:
		return Method(s), nil
	default:
		return "", ErrInvalidMethod
	}
}

func (m Method) String() string {
	return string(m)
}

// Status transitions: pending -> {completed, failed}; completed -> refunded.
// Failed and refunded are terminal; completed is not, it may still become
// refunded.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusFailed || s == StatusRefunded
}
