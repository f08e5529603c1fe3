package queries

import (
	"context"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
)

type RentalQueries interface {
	// GetByID enforces ownership: customers see only their own rentals.
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RentalView, error)
	// GetByIDSystem is the unscoped read used by commands for
	// read-after-write responses.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*RentalView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*RentalListItem, *Cursor, error)
}

type RentalViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RentalView, error)
	FindByUserIDKeyset(ctx context.Context, userID uuid.UUID, limit int32, afterCreatedAt *time.Time, afterID *uuid.UUID) ([]*RentalListItem, error)
}

type rentalQueriesImpl struct {
	repo RentalViewRepo
}

func NewRentalQueries(repo RentalViewRepo) RentalQueries {
	return &rentalQueriesImpl{repo: repo}
}

func (q *rentalQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RentalView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *rentalQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*RentalView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRentalNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *rentalQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*RentalListItem, *Cursor, error) {
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
	rows, err := q.repo.FindByUserIDKeyset(ctx, userID, capped+1, afterCreatedAt, afterID)
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
