package response

import (
	"encoding/json"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	RentalID        uuid.UUID       `json:"rentalId"`
	UserID          uuid.UUID       `json:"userId"`
	TransactionID   string          `json:"transactionId"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	Description     *string         `json:"description,omitempty"`
	GatewayResponse json.RawMessage `json:"gatewayResponse,omitempty"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	RefundedAt      *time.Time      `json:"refundedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type PaymentListResponse struct {
	Items []*PaymentResponse `json:"items"`
}

func FromPaymentView(rm *queries.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:              rm.ID,
		RentalID:        rm.RentalID,
		UserID:          rm.UserID,
		TransactionID:   rm.TransactionID,
		Amount:          rm.Amount,
		Type:            rm.Type,
		Method:          rm.Method,
		Status:          rm.Status,
		Description:     rm.Description,
		GatewayResponse: rm.GatewayResponse,
		PaidAt:          rm.PaidAt,
		RefundedAt:      rm.RefundedAt,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

func FromPaymentList(items []*queries.PaymentView) *PaymentListResponse {
	resp := &PaymentListResponse{
		Items: make([]*PaymentResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = FromPaymentView(item)
	}
	return resp
}
