package queries

import (
	"context"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"

	"github.com/google/uuid"
)

type VehicleFilter struct {
	Status *string
	Brand  *string
}

type VehicleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	List(ctx context.Context, filter VehicleFilter, after *Cursor, limit int) ([]*VehicleView, *Cursor, error)
	// CheckAvailability runs the authoritative overlap query against live
	// rentals. The vehicle status flag alone is never trusted for this.
	CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*AvailabilityView, error)
	// Quote prices a hypothetical rental without reserving anything.
	Quote(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, insuranceTier *string) (*QuoteView, error)
}

type VehicleViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	FindFiltered(ctx context.Context, filter VehicleFilter, limit int32, afterCreatedAt *time.Time, afterID *uuid.UUID) ([]*VehicleView, error)
	// FindBookedPeriods returns date ranges of reserved or active rentals
	// overlapping [start, end] for the vehicle.
	FindBookedPeriods(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) ([]BookedPeriod, error)
}

type vehicleQueriesImpl struct {
	repo VehicleViewRepo
}

func NewVehicleQueries(repo VehicleViewRepo) VehicleQueries {
	return &vehicleQueriesImpl{repo: repo}
}

func (q *vehicleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *vehicleQueriesImpl) List(ctx context.Context, filter VehicleFilter, after *Cursor, limit int) ([]*VehicleView, *Cursor, error) {
	if filter.Status != nil {
		if _, err := vehicle.NewStatus(*filter.Status); err != nil {
			return nil, nil, errs.Mark(err, errs.ErrDomainValidation)
		}
	}

	var afterCreatedAt *time.Time
	var afterID *uuid.UUID
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		afterCreatedAt, afterID = &t, &id
	}

	capped := clampLimit(limit)
	rows, err := q.repo.FindFiltered(ctx, filter, capped+1, afterCreatedAt, afterID)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var next *Cursor
	if len(rows) > int(capped) {
		rows = rows[:capped]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return rows, next, nil
}

func (q *vehicleQueriesImpl) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*AvailabilityView, error) {
	period, err := rental.NewPeriod(start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPeriod)
	}

	view, err := q.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	conflicts, err := q.repo.FindBookedPeriods(ctx, vehicleID, period.Start(), period.End())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	inFleet := view.Status != vehicle.StatusMaintenance.String() && view.Status != vehicle.StatusInactive.String()
	return &AvailabilityView{
		VehicleID: vehicleID,
		StartDate: period.Start(),
		EndDate:   period.End(),
		Available: inFleet && len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (q *vehicleQueriesImpl) Quote(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, insuranceTier *string) (*QuoteView, error) {
	period, err := rental.NewPeriod(start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPeriod)
	}

	var tier *rental.InsuranceTier
	if insuranceTier != nil && *insuranceTier != "" {
		t, err := rental.NewInsuranceTier(*insuranceTier)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		tier = &t
	}

	view, err := q.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	quote := rental.CalculateQuote(view.DailyRate, period, tier)
	return &QuoteView{
		VehicleID:       vehicleID,
		Days:            quote.Days,
		DailyRate:       view.DailyRate,
		BaseCost:        quote.BaseCost,
		Discount:        quote.Discount,
		DiscountPercent: quote.DiscountPercent,
		InsuranceFee:    quote.InsuranceFee,
		SecurityDeposit: quote.SecurityDeposit,
		TotalAmount:     quote.TotalAmount,
	}, nil
}
