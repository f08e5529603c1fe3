package queries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type RentalView struct {
	ID                    uuid.UUID       `json:"id"`
	VehicleID             uuid.UUID       `json:"vehicle_id"`
	VehicleName           string          `json:"vehicle_name"`
	VehiclePlate          string          `json:"vehicle_plate"`
	UserID                uuid.UUID       `json:"user_id"`
	StartDate             time.Time       `json:"start_date"`
	EndDate               time.Time       `json:"end_date"`
	Days                  int             `json:"days"`
	DailyRate             decimal.Decimal `json:"daily_rate"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Discount              decimal.Decimal `json:"discount"`
	InsuranceFee          decimal.Decimal `json:"insurance_fee"`
	InsuranceTier         *string         `json:"insurance_tier,omitempty"`
	SecurityDeposit       decimal.Decimal `json:"security_deposit"`
	AdditionalCharges     decimal.Decimal `json:"additional_charges"`
	AdditionalChargesNote *string         `json:"additional_charges_note,omitempty"`
	Status                string          `json:"status"`
	PaymentStatus         string          `json:"payment_status"`
	PickupLocation        string          `json:"pickup_location"`
	ReturnLocation        string          `json:"return_location"`
	Notes                 *string         `json:"notes,omitempty"`
	FinalMileage          *int            `json:"final_mileage,omitempty"`
	ActualReturnAt        *time.Time      `json:"actual_return_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type RentalListItem struct {
	ID            uuid.UUID       `json:"id"`
	VehicleID     uuid.UUID       `json:"vehicle_id"`
	VehicleName   string          `json:"vehicle_name"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type VehicleView struct {
	ID             uuid.UUID       `json:"id"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	Plate          string          `json:"plate"`
	Color          string          `json:"color"`
	EngineCapacity int             `json:"engine_capacity"`
	Mileage        int             `json:"mileage"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	Status         string          `json:"status"`
	Description    *string         `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type PaymentView struct {
	ID              uuid.UUID       `json:"id"`
	RentalID        uuid.UUID       `json:"rental_id"`
	UserID          uuid.UUID       `json:"user_id"`
	TransactionID   string          `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	Description     *string         `json:"description,omitempty"`
	GatewayResponse json.RawMessage `json:"gateway_response,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BookedPeriod is one occupying rental's date range, exposed by the
// availability check so clients can suggest alternatives.
type BookedPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AvailabilityView struct {
	VehicleID uuid.UUID      `json:"vehicle_id"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Available bool           `json:"available"`
	Conflicts []BookedPeriod `json:"conflicts,omitempty"`
}

type QuoteView struct {
	VehicleID       uuid.UUID       `json:"vehicle_id"`
	Days            int             `json:"days"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	BaseCost        decimal.Decimal `json:"base_cost"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountPercent int             `json:"discount_percent"`
	InsuranceFee    decimal.Decimal `json:"insurance_fee"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}
