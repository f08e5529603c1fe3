package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CancelRentalResult struct {
	Rental        *queries.RentalView
	RefundAmount  decimal.Decimal
	RefundPercent int
	Fee           decimal.Decimal
}

type CompleteRentalResult struct {
	Rental            *queries.RentalView
	OverdueDays       int
	OverduePenalty    decimal.Decimal
	AdditionalCharges decimal.Decimal
}

type RentalCommands interface {
	CreateRental(ctx context.Context, actor shared.Actor, req reqdto.CreateRentalRequest) (*queries.RentalView, error)
	ActivateRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID) (*queries.RentalView, error)
	CompleteRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID, req reqdto.CompleteRentalRequest) (*CompleteRentalResult, error)
	CancelRental(ctx context.Context, actor shared.Actor, rentalID uuid.UUID, req reqdto.CancelRentalRequest) (*CancelRentalResult, error)
}

type rentalUseCaseImpl struct {
	uow           shared.UnitOfWork
	rentalQueries queries.RentalQueries
	clock         clock.Clock
}

func NewRentalUseCase(
	uow shared.UnitOfWork,
	rentalQueries queries.RentalQueries,
	clk clock.Clock,
) RentalCommands {
	return &rentalUseCaseImpl{
		uow:           uow,
		rentalQueries: rentalQueries,
		clock:         clk,
	}
}

// CreateRental books a vehicle for an inclusive date range. The reservation
// row, the primary rental payment, the deposit payment and the vehicle status
// update are committed in one transaction; overlapping bookings are rejected
// by the database exclusion constraint, so concurrent requests for the same
// vehicle and range end with exactly one winner.
func (r *rentalUseCaseImpl) CreateRental(
	ctx context.Context,
	actor shared.Actor,
	req reqdto.CreateRentalRequest,
) (*queries.RentalView, error) {
	domainData, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPeriod)
	}

	veh, err := r.validateVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	rentalEntity, err := rental.NewRental(
		now,
		rental.VehicleSpec{ID: veh.ID, DailyRate: veh.DailyRate},
		actor.ID,
		domainData.Period,
		domainData.InsuranceTier,
		domainData.PickupLocation,
		domainData.ReturnLocation,
		domainData.Notes,
	)
	if err != nil {
		return nil, markRentalCreationErr(err)
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Rentals().Create(ctx, rentalEntity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrRentalConflict)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Vehicles().SetStatus(ctx, veh.ID, vehicle.StatusRented); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := r.createBookingPayments(ctx, tx, rentalEntity); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.rentalQueries.GetByIDSystem(ctx, rentalEntity.ID())
}

// createBookingPayments opens the primary rental charge and the security
// deposit hold, both pending with no settlement method chosen yet.
func (r *rentalUseCaseImpl) createBookingPayments(ctx context.Context, tx shared.Tx, rentalEntity *rental.Rental) error {
	now := r.clock.Now()

	rentalCharge, err := payment.NewPayment(
		now,
		rentalEntity.ID(),
		rentalEntity.UserID(),
		rentalEntity.TotalAmount(),
		payment.TypeRental,
		payment.MethodUnset,
		"rental charge "+rentalEntity.Period().String(),
	)
	if err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := tx.Payments().Create(ctx, rentalCharge); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	deposit, err := payment.NewPayment(
		now,
		rentalEntity.ID(),
		rentalEntity.UserID(),
		rentalEntity.SecurityDeposit(),
		payment.TypeDeposit,
		payment.MethodUnset,
		"refundable security deposit",
	)
	if err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := tx.Payments().Create(ctx, deposit); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// ActivateRental hands the vehicle over. Admin only; the usual path is the
// automatic activation when the rental payment settles.
func (r *rentalUseCaseImpl) ActivateRental(
	ctx context.Context,
	actor shared.Actor,
	rentalID uuid.UUID,
) (*queries.RentalView, error) {
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rentalEntity, err := findRentalForUpdate(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(rentalEntity.UserID()) {
			return errs.ErrForbidden
		}

		if err := rentalEntity.Activate(r.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidState)
		}
		if err := tx.Rentals().Update(ctx, rentalEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Vehicles().SetStatus(ctx, rentalEntity.VehicleID(), vehicle.StatusRented); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.rentalQueries.GetByIDSystem(ctx, rentalID)
}

// CompleteRental records the vehicle return. Overdue days incur a penalty of
// half the daily rate each, added on top of any damage or fuel charges the
// operator supplies; charges above zero open a pending follow-up payment.
func (r *rentalUseCaseImpl) CompleteRental(
	ctx context.Context,
	actor shared.Actor,
	rentalID uuid.UUID,
	req reqdto.CompleteRentalRequest,
) (*CompleteRentalResult, error) {
	domainData, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var completion rental.CompletionResult
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rentalEntity, err := findRentalForUpdate(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(rentalEntity.UserID()) {
			return errs.ErrForbidden
		}

		now := r.clock.Now()
		completion, err = rentalEntity.Complete(now, domainData.FinalMileage, domainData.AdditionalCharges, domainData.ChargesDescription, domainData.Notes)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidState)
		}

		if err := tx.Rentals().Update(ctx, rentalEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Vehicles().SetStatus(ctx, rentalEntity.VehicleID(), vehicle.StatusAvailable); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Vehicles().SetMileage(ctx, rentalEntity.VehicleID(), domainData.FinalMileage); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if completion.AdditionalCharges.IsPositive() {
			extra, err := payment.NewPayment(
				now,
				rentalEntity.ID(),
				rentalEntity.UserID(),
				completion.AdditionalCharges,
				payment.TypeAdditional,
				payment.MethodUnset,
				chargesDescription(completion, domainData.ChargesDescription),
			)
			if err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := tx.Payments().Create(ctx, extra); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := r.rentalQueries.GetByIDSystem(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return &CompleteRentalResult{
		Rental:            view,
		OverdueDays:       completion.OverdueDays,
		OverduePenalty:    completion.OverduePenalty,
		AdditionalCharges: completion.AdditionalCharges,
	}, nil
}

// CancelRental aborts a reservation before pickup. The refund share shrinks
// as the start date approaches; the kept share is recorded as a cancellation
// fee and any refundable amount opens a pending refund payment.
func (r *rentalUseCaseImpl) CancelRental(
	ctx context.Context,
	actor shared.Actor,
	rentalID uuid.UUID,
	req reqdto.CancelRentalRequest,
) (*CancelRentalResult, error) {
	var breakdown rental.RefundBreakdown
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rentalEntity, err := findRentalForUpdate(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(rentalEntity.UserID()) {
			return errs.ErrForbidden
		}

		now := r.clock.Now()
		breakdown, err = rentalEntity.Cancel(now, req.Reason)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidState)
		}

		if err := tx.Rentals().Update(ctx, rentalEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Vehicles().SetStatus(ctx, rentalEntity.VehicleID(), vehicle.StatusAvailable); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if breakdown.RefundAmount.IsPositive() {
			refund, err := payment.NewPayment(
				now,
				rentalEntity.ID(),
				rentalEntity.UserID(),
				breakdown.RefundAmount,
				payment.TypeRefund,
				payment.MethodUnset,
				"cancellation refund",
			)
			if err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := tx.Payments().Create(ctx, refund); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := r.rentalQueries.GetByIDSystem(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return &CancelRentalResult{
		Rental:        view,
		RefundAmount:  breakdown.RefundAmount,
		RefundPercent: breakdown.RefundPercent,
		Fee:           breakdown.Fee,
	}, nil
}

func (r *rentalUseCaseImpl) validateVehicle(ctx context.Context, vehicleID uuid.UUID) (*shared.VehicleSnapshot, error) {
	veh, err := r.uow.CommandReads().VehicleByID(ctx, vehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	// Advisory pre-check; the exclusion constraint stays authoritative for
	// overlap, this only rejects vehicles pulled out of the fleet.
	if veh.Status == vehicle.StatusMaintenance || veh.Status == vehicle.StatusInactive {
		return nil, errs.ErrVehicleUnavailable
	}
	return veh, nil
}

func findRentalForUpdate(ctx context.Context, tx shared.Tx, rentalID uuid.UUID) (*rental.Rental, error) {
	rentalEntity, err := tx.Rentals().FindForUpdate(ctx, rentalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRentalNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rentalEntity, nil
}

func chargesDescription(completion rental.CompletionResult, supplied string) string {
	parts := make([]string, 0, 2)
	if supplied = strings.TrimSpace(supplied); supplied != "" {
		parts = append(parts, supplied)
	}
	if completion.OverdueDays > 0 {
		parts = append(parts, fmt.Sprintf("overdue penalty (%d days)", completion.OverdueDays))
	}
	if len(parts) == 0 {
		return "additional charges"
	}
	return strings.Join(parts, "; ")
}

func markRentalCreationErr(err error) error {
	if errors.Is(err, rental.ErrEndNotAfterStart) ||
		errors.Is(err, rental.ErrPeriodTooLong) ||
		errors.Is(err, rental.ErrStartNotFuture) {
		return errs.Mark(err, errs.ErrInvalidPeriod)
	}
	return errs.Mark(err, errs.ErrDomainValidation)
}
