package writerepo

import (
	"context"
	"errors"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(dbtx db.DBTX) shared.VehicleRepository {
	return &VehicleRepository{db: dbtx}
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `
		INSERT INTO vehicles (
			id, brand, model, year, plate, color,
			engine_capacity, mileage, daily_rate, status, description,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.db.Exec(ctx, query,
		v.ID(), v.Brand(), v.Model(), v.Year(), v.Plate(), v.Color(),
		v.EngineCapacity(), v.Mileage(), v.DailyRate(), v.Status().String(), v.Description(),
		v.CreatedAt(), v.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("vehicle plate already registered", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create vehicle", err)
	}
	return nil
}

func (r *VehicleRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	const query = `
		SELECT id, brand, model, year, plate, color,
		       engine_capacity, mileage, daily_rate, status, description,
		       created_at, updated_at
		FROM vehicles
		WHERE id = $1
		FOR UPDATE`

	var (
		vehicleID            uuid.UUID
		brand, model         string
		year                 int
		plate, color         string
		engineCapacity       int
		mileage              int
		dailyRate            decimal.Decimal
		status, description  string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vehicleID, &brand, &model, &year, &plate, &color,
		&engineCapacity, &mileage, &dailyRate, &status, &description,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock vehicle", err)
	}

	parsedStatus, err := vehicle.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid vehicle status in storage", err)
	}

	return vehicle.ReconstructVehicle(
		vehicleID, brand, model, year, plate, color,
		engineCapacity, mileage, dailyRate, parsedStatus, description,
		createdAt, updatedAt,
	), nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `
		UPDATE vehicles SET
			color = $2,
			engine_capacity = $3,
			mileage = $4,
			daily_rate = $5,
			status = $6,
			description = $7,
			updated_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		v.ID(), v.Color(), v.EngineCapacity(), v.Mileage(),
		v.DailyRate(), v.Status().String(), v.Description(), v.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *VehicleRepository) SetStatus(ctx context.Context, id uuid.UUID, status vehicle.Status) error {
	const query = `UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to set vehicle status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *VehicleRepository) SetMileage(ctx context.Context, id uuid.UUID, mileage int) error {
	const query = `UPDATE vehicles SET mileage = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, mileage)
	if err != nil {
		return infra.WrapRepoErr("failed to set vehicle mileage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return nil
}
