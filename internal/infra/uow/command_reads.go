package uow

import (
	"context"
	"errors"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// commandReads serves the write side's validation lookups. Plain reads, no
// locks; anything that must hold under concurrency is re-checked inside the
// transaction or by a database constraint.
type commandReads struct {
	db db.DBTX
}

func (c *commandReads) VehicleByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	const query = `SELECT id, daily_rate, status, mileage FROM vehicles WHERE id = $1`

	var (
		snap   shared.VehicleSnapshot
		status string
	)
	err := c.db.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.DailyRate, &status, &snap.Mileage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read vehicle snapshot", err)
	}

	parsedStatus, err := vehicle.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid vehicle status in storage", err)
	}
	snap.Status = parsedStatus
	return &snap, nil
}

func (c *commandReads) RentalByID(ctx context.Context, id uuid.UUID) (*shared.RentalSnapshot, error) {
	const query = `
		SELECT id, vehicle_id, user_id, status, payment_status,
		       start_date, end_date, total_amount
		FROM rentals WHERE id = $1`

	var (
		snap                  shared.RentalSnapshot
		status, paymentStatus string
	)
	err := c.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.VehicleID, &snap.UserID, &status, &paymentStatus,
		&snap.StartDate, &snap.EndDate, &snap.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("rental not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read rental snapshot", err)
	}

	parsedStatus, err := rental.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid rental status in storage", err)
	}
	parsedPaymentStatus, err := rental.NewPaymentStatus(paymentStatus)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid rental payment status in storage", err)
	}
	snap.Status = parsedStatus
	snap.PaymentStatus = parsedPaymentStatus
	return &snap, nil
}

func (c *commandReads) PaymentByID(ctx context.Context, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	const query = `
		SELECT id, rental_id, user_id, amount, type, method, status, created_at
		FROM payments WHERE id = $1`

	var (
		snap                        shared.PaymentSnapshot
		paymentType, method, status string
	)
	err := c.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.RentalID, &snap.UserID, &snap.Amount,
		&paymentType, &method, &status, &snap.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read payment snapshot", err)
	}

	parsedType, err := payment.NewType(paymentType)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid payment type in storage", err)
	}
	parsedStatus, err := payment.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid payment status in storage", err)
	}
	snap.Type = parsedType
	snap.Method = payment.Method(method)
	snap.Status = parsedStatus
	return &snap, nil
}
