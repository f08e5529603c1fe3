package queries

import (
	"context"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*PaymentView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	// ListByRental returns every payment of a rental, scoped to its owner.
	ListByRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID) ([]*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	FindByRentalID(ctx context.Context, rentalID uuid.UUID) ([]*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo       PaymentViewRepo
	rentalRepo RentalViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo, rentalRepo RentalViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo, rentalRepo: rentalRepo}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*PaymentView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *paymentQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *paymentQueriesImpl) ListByRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID) ([]*PaymentView, error) {
	rentalView, err := q.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRentalNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !actor.CanAccess(rentalView.UserID) {
		return nil, errs.ErrForbidden
	}

	views, err := q.repo.FindByRentalID(ctx, rentalID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}
