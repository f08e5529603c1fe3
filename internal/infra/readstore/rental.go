package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RentalReadStore struct {
	db db.DBTX
}

func NewRentalReadStore(dbtx db.DBTX) queries.RentalViewRepo {
	return &RentalReadStore{db: dbtx}
}

const rentalViewColumns = `
	r.id, r.vehicle_id, v.brand || ' ' || v.model, v.plate, r.user_id,
	r.start_date, r.end_date,
	r.daily_rate, r.total_amount, r.discount, r.insurance_fee, r.insurance_tier,
	r.security_deposit, r.additional_charges, r.additional_charges_note,
	r.status, r.payment_status, r.pickup_location, r.return_location, r.notes,
	r.final_mileage, r.actual_return_at, r.created_at, r.updated_at`

func (r *RentalReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RentalView, error) {
	query := `
		SELECT ` + rentalViewColumns + `
		FROM rentals r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE r.id = $1`

	view, err := scanRentalView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("rental not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rental by ID", err)
	}
	return view, nil
}

func (r *RentalReadStore) FindByUserIDKeyset(ctx context.Context, userID uuid.UUID, limit int32, afterCreatedAt *time.Time, afterID *uuid.UUID) ([]*queries.RentalListItem, error) {
	const firstPage = `
		SELECT r.id, r.vehicle_id, v.brand || ' ' || v.model,
		       r.start_date, r.end_date, r.status, r.payment_status,
		       r.total_amount, r.created_at
		FROM rentals r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2`

	const keyset = `
		SELECT r.id, r.vehicle_id, v.brand || ' ' || v.model,
		       r.start_date, r.end_date, r.status, r.payment_status,
		       r.total_amount, r.created_at
		FROM rentals r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE r.user_id = $1
		  AND (r.created_at, r.id) < ($2, $3)
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $4`

	var (
		rows pgx.Rows
		err  error
	)
	if afterCreatedAt != nil && afterID != nil {
		rows, err = r.db.Query(ctx, keyset, userID, *afterCreatedAt, *afterID, limit)
	} else {
		rows, err = r.db.Query(ctx, firstPage, userID, limit)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rentals", err)
	}
	defer rows.Close()

	var result []*queries.RentalListItem
	for rows.Next() {
		item := &queries.RentalListItem{}
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.VehicleName,
			&item.StartDate, &item.EndDate, &item.Status, &item.PaymentStatus,
			&item.TotalAmount, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rental list row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rental list rows", err)
	}
	return result, nil
}

func scanRentalView(row pgx.Row) (*queries.RentalView, error) {
	view := &queries.RentalView{}
	err := row.Scan(
		&view.ID, &view.VehicleID, &view.VehicleName, &view.VehiclePlate, &view.UserID,
		&view.StartDate, &view.EndDate,
		&view.DailyRate, &view.TotalAmount, &view.Discount, &view.InsuranceFee, &view.InsuranceTier,
		&view.SecurityDeposit, &view.AdditionalCharges, &view.AdditionalChargesNote,
		&view.Status, &view.PaymentStatus, &view.PickupLocation, &view.ReturnLocation, &view.Notes,
		&view.FinalMileage, &view.ActualReturnAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.Days = int(view.EndDate.Sub(view.StartDate).Hours()/24) + 1
	return view, nil
}
