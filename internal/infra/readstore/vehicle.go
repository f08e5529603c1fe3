package readstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(dbtx db.DBTX) queries.VehicleViewRepo {
	return &VehicleReadStore{db: dbtx}
}

const vehicleViewColumns = `
	id, brand, model, year, plate, color, engine_capacity,
	mileage, daily_rate, status, description, created_at, updated_at`

func (r *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	query := `SELECT ` + vehicleViewColumns + ` FROM vehicles WHERE id = $1`

	view, err := scanVehicleView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}
	return view, nil
}

func (r *VehicleReadStore) FindFiltered(ctx context.Context, filter queries.VehicleFilter, limit int32, afterCreatedAt *time.Time, afterID *uuid.UUID) ([]*queries.VehicleView, error) {
	query := `SELECT ` + vehicleViewColumns + ` FROM vehicles WHERE 1=1`
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Brand != nil {
		args = append(args, *filter.Brand)
		query += fmt.Sprintf(" AND brand ILIKE $%d", len(args))
	}
	if afterCreatedAt != nil && afterID != nil {
		args = append(args, *afterCreatedAt, *afterID)
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list vehicles", err)
	}
	defer rows.Close()

	var result []*queries.VehicleView
	for rows.Next() {
		view, err := scanVehicleView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan vehicle row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate vehicle rows", err)
	}
	return result, nil
}

// FindBookedPeriods lists live rentals whose inclusive date range touches
// [start, end]. Same overlap semantics as the exclusion constraint.
func (r *VehicleReadStore) FindBookedPeriods(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) ([]queries.BookedPeriod, error) {
	const query = `
		SELECT start_date, end_date
		FROM rentals
		WHERE vehicle_id = $1
		  AND status IN ('reserved', 'active')
		  AND daterange(start_date, end_date, '[]') && daterange($2::date, $3::date, '[]')
		ORDER BY start_date`

	rows, err := r.db.Query(ctx, query, vehicleID, start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query booked periods", err)
	}
	defer rows.Close()

	var result []queries.BookedPeriod
	for rows.Next() {
		var p queries.BookedPeriod
		if err := rows.Scan(&p.StartDate, &p.EndDate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booked period", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booked periods", err)
	}
	return result, nil
}

func scanVehicleView(row pgx.Row) (*queries.VehicleView, error) {
	view := &queries.VehicleView{}
	err := row.Scan(
		&view.ID, &view.Brand, &view.Model, &view.Year, &view.Plate, &view.Color,
		&view.EngineCapacity, &view.Mileage, &view.DailyRate, &view.Status,
		&view.Description, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return view, nil
}
