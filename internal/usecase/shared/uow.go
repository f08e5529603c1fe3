package shared

import (
	"context"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/user"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Rentals() RentalRepository
	Payments() PaymentRepository
	Vehicles() VehicleRepository
	Reads() CommandReads
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	RentalByID(ctx context.Context, id uuid.UUID) (*RentalSnapshot, error)
	PaymentByID(ctx context.Context, id uuid.UUID) (*PaymentSnapshot, error)
}

// Minimal snapshots for command-side validation reads.
type VehicleSnapshot struct {
	ID        uuid.UUID
	DailyRate decimal.Decimal
	Status    vehicle.Status
	Mileage   int
}

type RentalSnapshot struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	UserID        uuid.UUID
	Status        rental.Status
	PaymentStatus rental.PaymentStatus
	StartDate     time.Time
	EndDate       time.Time
	TotalAmount   decimal.Decimal
}

type PaymentSnapshot struct {
	ID        uuid.UUID
	RentalID  uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Type      payment.Type
	Method    payment.Method
	Status    payment.Status
	CreatedAt time.Time
}

// RentalRepository loads aggregates under a row lock so that state
// transitions on a single rental are mutually exclusive.
type RentalRepository interface {
	Create(ctx context.Context, r *rental.Rental) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*rental.Rental, error)
	Update(ctx context.Context, r *rental.Rental) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	Update(ctx context.Context, p *payment.Payment) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	Update(ctx context.Context, v *vehicle.Vehicle) error
	SetStatus(ctx context.Context, id uuid.UUID, status vehicle.Status) error
	SetMileage(ctx context.Context, id uuid.UUID, mileage int) error
}

// Actor is the pre-authorized requester resolved by the external identity
// provider; use cases only consult it for ownership checks.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.Role.IsAdmin() || a.ID == ownerID
}
