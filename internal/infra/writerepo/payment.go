package writerepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) shared.PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	const query = `
		INSERT INTO payments (
			id, rental_id, user_id, transaction_id, amount,
			type, method, status, description, gateway_response,
			paid_at, refunded_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)`

	_, err := r.db.Exec(ctx, query,
		p.ID(), p.RentalID(), p.UserID(), p.TransactionID(), p.Amount(),
		p.Type().String(), p.Method().String(), p.Status().String(), p.Description(), rawToDB(p.GatewayResponse()),
		p.PaidAt(), p.RefundedAt(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				return infra.WrapRepoErr("duplicate payment transaction", err, infra.KindDuplicateKey)
			case pgErrCodeForeignKeyViolated:
				return infra.WrapRepoErr("payment references missing rental", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	const query = `
		SELECT id, rental_id, user_id, transaction_id, amount,
		       type, method, status, description, gateway_response,
		       paid_at, refunded_at, created_at, updated_at
		FROM payments
		WHERE id = $1
		FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock payment", err)
	}
	return p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	const query = `
		UPDATE payments SET
			method = $2,
			status = $3,
			gateway_response = $4,
			paid_at = $5,
			refunded_at = $6,
			updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		p.ID(),
		p.Method().String(),
		p.Status().String(),
		rawToDB(p.GatewayResponse()),
		p.PaidAt(),
		p.RefundedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		id, rentalID, userID        uuid.UUID
		transactionID, description  string
		amount                      decimal.Decimal
		paymentType, method, status string
		gatewayResponse             []byte
		paidAt, refundedAt          *time.Time
		createdAt, updatedAt        time.Time
	)

	err := row.Scan(
		&id, &rentalID, &userID, &transactionID, &amount,
		&paymentType, &method, &status, &description, &gatewayResponse,
		&paidAt, &refundedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedType, err := payment.NewType(paymentType)
	if err != nil {
		return nil, err
	}
	parsedStatus, err := payment.NewStatus(status)
	if err != nil {
		return nil, err
	}
	// Method may legitimately still be unset.
	parsedMethod := payment.Method(method)

	return payment.ReconstructPayment(
		id, rentalID, userID,
		transactionID,
		amount,
		parsedType,
		parsedMethod,
		parsedStatus,
		description,
		json.RawMessage(gatewayResponse),
		paidAt, refundedAt,
		createdAt, updatedAt,
	), nil
}

// rawToDB maps empty metadata to NULL instead of an invalid empty jsonb.
func rawToDB(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
