package readstore

import (
	"context"
	"errors"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) queries.PaymentViewRepo {
	return &PaymentReadStore{db: dbtx}
}

const paymentViewColumns = `
	id, rental_id, user_id, transaction_id, amount, type, method, status,
	description, gateway_response, paid_at, refunded_at, created_at, updated_at`

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	query := `SELECT ` + paymentViewColumns + ` FROM payments WHERE id = $1`

	view, err := scanPaymentView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment by ID", err)
	}
	return view, nil
}

func (r *PaymentReadStore) FindByRentalID(ctx context.Context, rentalID uuid.UUID) ([]*queries.PaymentView, error) {
	query := `SELECT ` + paymentViewColumns + ` FROM payments WHERE rental_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, rentalID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments by rental", err)
	}
	defer rows.Close()

	var result []*queries.PaymentView
	for rows.Next() {
		view, err := scanPaymentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate payment rows", err)
	}
	return result, nil
}

func scanPaymentView(row pgx.Row) (*queries.PaymentView, error) {
	view := &queries.PaymentView{}
	var gatewayResponse []byte
	err := row.Scan(
		&view.ID, &view.RentalID, &view.UserID, &view.TransactionID, &view.Amount,
		&view.Type, &view.Method, &view.Status,
		&view.Description, &gatewayResponse, &view.PaidAt, &view.RefundedAt,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.GatewayResponse = gatewayResponse
	return view, nil
}
