package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

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
)

type PaymentCommands interface {
	ProcessPayment(ctx context.Context, actor shared.Actor, paymentID uuid.UUID, req reqdto.ProcessPaymentRequest) (*queries.PaymentView, error)
	RecordPaymentOutcome(ctx context.Context, paymentID uuid.UUID, req reqdto.PaymentOutcomeRequest) (*queries.PaymentView, error)
	RequestRefund(ctx context.Context, actor shared.Actor, paymentID uuid.UUID, req reqdto.RefundRequest) (*queries.PaymentView, error)
}

type paymentUseCaseImpl struct {
	uow            shared.UnitOfWork
	gateways       GatewayResolver
	paymentQueries queries.PaymentQueries
	clock          clock.Clock
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	gateways GatewayResolver,
	paymentQueries queries.PaymentQueries,
	clk clock.Clock,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:            uow,
		gateways:       gateways,
		paymentQueries: paymentQueries,
		clock:          clk,
	}
}

// ProcessPayment assigns a settlement method to a pending payment and submits
// it to that method's gateway. Card charges usually settle inside the call;
// pix and boleto come back pending with instructions in the gateway metadata
// and settle later through RecordPaymentOutcome.
func (u *paymentUseCaseImpl) ProcessPayment(
	ctx context.Context,
	actor shared.Actor,
	paymentID uuid.UUID,
	req reqdto.ProcessPaymentRequest,
) (*queries.PaymentView, error) {
	method, err := payment.NewMethod(req.Method)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUnsupportedMethod)
	}
	gateway, err := u.gateways.ForMethod(method)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUnsupportedMethod)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := findPaymentForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(p.UserID()) {
			return errs.ErrForbidden
		}

		now := u.clock.Now()
		if err := p.AssignMethod(method, now); err != nil {
			return errs.Mark(err, errs.ErrInvalidState)
		}

		outcome, err := gateway.Submit(ctx, p)
		if err != nil {
			return errs.Mark(err, errs.ErrGatewayFailure)
		}

		if err := u.applyOutcome(ctx, tx, p, outcome); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, paymentID)
}

// RecordPaymentOutcome applies an externally reported settlement result, the
// webhook path for asynchronous methods. Reporting the status the payment
// already has is a no-op so providers can safely redeliver.
func (u *paymentUseCaseImpl) RecordPaymentOutcome(
	ctx context.Context,
	paymentID uuid.UUID,
	req reqdto.PaymentOutcomeRequest,
) (*queries.PaymentView, error) {
	status, err := payment.NewStatus(req.Status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if status != payment.StatusCompleted && status != payment.StatusFailed {
		return nil, errs.Mark(errs.New("outcome status must be completed or failed"), errs.ErrDomainValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := findPaymentForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if p.Status() == status {
			return nil
		}
		return u.applyOutcome(ctx, tx, p, SettlementOutcome{Status: status, Reference: req.Reference})
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, paymentID)
}

// RequestRefund reverses a settled payment, fully or partially, within the
// refund window. The reversal is recorded as its own refund payment; the
// original is marked refunded only when the amount covers it entirely.
func (u *paymentUseCaseImpl) RequestRefund(
	ctx context.Context,
	actor shared.Actor,
	paymentID uuid.UUID,
	req reqdto.RefundRequest,
) (*queries.PaymentView, error) {
	domainData, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var refundID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		original, err := findPaymentForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(original.UserID()) {
			return errs.ErrForbidden
		}

		now := u.clock.Now()
		if !original.RefundableAt(now) {
			return errs.ErrNotRefundable
		}

		amount := original.Amount()
		if domainData.Amount != nil {
			amount = *domainData.Amount
			if amount.GreaterThan(original.Amount()) {
				return errs.ErrRefundExceedsPayment
			}
		}

		gateway, err := u.gateways.ForMethod(original.Method())
		if err != nil {
			return errs.Mark(err, errs.ErrUnsupportedMethod)
		}
		outcome, err := gateway.Refund(ctx, original, amount, domainData.Reason)
		if err != nil {
			return errs.Mark(err, errs.ErrGatewayFailure)
		}

		refund, err := payment.NewPayment(
			now,
			original.RentalID(),
			original.UserID(),
			amount,
			payment.TypeRefund,
			original.Method(),
			refundDescription(original, domainData.Reason),
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		refund.AttachGatewayResponse(outcome.Reference, now)
		if outcome.Status == payment.StatusCompleted {
			if err := refund.MarkCompleted(now); err != nil {
				return errs.Mark(err, errs.ErrInvalidState)
			}
		}
		if err := tx.Payments().Create(ctx, refund); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		refundID = refund.ID()

		if amount.GreaterThanOrEqual(original.Amount()) {
			if err := original.MarkRefunded(now); err != nil {
				return errs.Mark(err, errs.ErrInvalidState)
			}
			if err := tx.Payments().Update(ctx, original); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if original.Type() == payment.TypeRental {
				if err := u.setRentalPaymentStatus(ctx, tx, original.RentalID(), rental.PaymentStatusRefunded, now); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, refundID)
}

// applyOutcome moves the payment per the gateway verdict, persists it and
// propagates the cross-machine effects of a settled rental charge.
func (u *paymentUseCaseImpl) applyOutcome(ctx context.Context, tx shared.Tx, p *payment.Payment, outcome SettlementOutcome) error {
	now := u.clock.Now()
	if len(outcome.Reference) > 0 {
		p.AttachGatewayResponse(outcome.Reference, now)
	}

	switch outcome.Status {
	case payment.StatusCompleted:
		if err := p.MarkCompleted(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidState)
		}
	case payment.StatusFailed:
		if err := p.MarkFailed(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidState)
		}
	case payment.StatusPending:
		// Asynchronous method, nothing settled yet.
	default:
		return errs.Mark(errs.New("gateway reported unexpected status "+outcome.Status.String()), errs.ErrDomainValidation)
	}

	if err := tx.Payments().Update(ctx, p); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if outcome.Status == payment.StatusCompleted {
		return u.onPaymentCompleted(ctx, tx, p, now)
	}
	return nil
}

// onPaymentCompleted synchronizes the rental with a settled payment. A
// settled rental charge activates a reservation still waiting for it; if the
// rental moved on in the meantime the activation is skipped and logged, the
// money stays recorded either way.
func (u *paymentUseCaseImpl) onPaymentCompleted(ctx context.Context, tx shared.Tx, p *payment.Payment, now time.Time) error {
	rentalEntity, err := findRentalForUpdate(ctx, tx, p.RentalID())
	if err != nil {
		return err
	}

	switch p.Type() {
	case payment.TypeRental:
		switch rentalEntity.Status() {
		case rental.StatusReserved:
			if err := rentalEntity.Activate(now); err != nil {
				return errs.Mark(err, errs.ErrInvalidState)
			}
			if err := tx.Vehicles().SetStatus(ctx, rentalEntity.VehicleID(), vehicle.StatusRented); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			rentalEntity.SetPaymentStatus(rental.PaymentStatusPaid, now)
		case rental.StatusActive, rental.StatusCompleted:
			rentalEntity.SetPaymentStatus(rental.PaymentStatusPaid, now)
		default:
			slog.Warn("rental charge settled for a rental no longer awaiting it",
				"rental_id", rentalEntity.ID(),
				"payment_id", p.ID(),
				"rental_status", rentalEntity.Status().String())
			return nil
		}
	case payment.TypeDeposit, payment.TypeAdditional:
		if rentalEntity.PaymentStatus() == rental.PaymentStatusPending {
			rentalEntity.SetPaymentStatus(rental.PaymentStatusPartial, now)
		}
	case payment.TypeRefund:
		rentalEntity.SetPaymentStatus(rental.PaymentStatusRefunded, now)
	}

	if err := tx.Rentals().Update(ctx, rentalEntity); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *paymentUseCaseImpl) setRentalPaymentStatus(ctx context.Context, tx shared.Tx, rentalID uuid.UUID, status rental.PaymentStatus, now time.Time) error {
	rentalEntity, err := findRentalForUpdate(ctx, tx, rentalID)
	if err != nil {
		return err
	}
	rentalEntity.SetPaymentStatus(status, now)
	if err := tx.Rentals().Update(ctx, rentalEntity); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func findPaymentForUpdate(ctx context.Context, tx shared.Tx, paymentID uuid.UUID) (*payment.Payment, error) {
	p, err := tx.Payments().FindForUpdate(ctx, paymentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return p, nil
}

func refundDescription(original *payment.Payment, reason string) string {
	desc := "refund of " + original.TransactionID()
	if reason = strings.TrimSpace(reason); reason != "" {
		desc += ": " + reason
	}
	return desc
}
