package response

import (
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VehicleResponse struct {
	ID             uuid.UUID       `json:"id"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	Plate          string          `json:"plate"`
	Color          string          `json:"color"`
	EngineCapacity int             `json:"engineCapacity"`
	Mileage        int             `json:"mileage"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	Status         string          `json:"status"`
	Description    *string         `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type VehicleListResponse struct {
	Items      []*VehicleResponse `json:"items"`
	NextCursor *string            `json:"nextCursor,omitempty"`
}

type BookedPeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type AvailabilityResponse struct {
	VehicleID uuid.UUID              `json:"vehicleId"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Available bool                   `json:"available"`
	Conflicts []BookedPeriodResponse `json:"conflicts,omitempty"`
}

type QuoteResponse struct {
	VehicleID       uuid.UUID       `json:"vehicleId"`
	Days            int             `json:"days"`
	DailyRate       decimal.Decimal `json:"dailyRate"`
	BaseCost        decimal.Decimal `json:"baseCost"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountPercent int             `json:"discountPercent"`
	InsuranceFee    decimal.Decimal `json:"insuranceFee"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

func FromVehicleView(rm *queries.VehicleView) *VehicleResponse {
	return &VehicleResponse{
		ID:             rm.ID,
		Brand:          rm.Brand,
		Model:          rm.Model,
		Year:           rm.Year,
		Plate:          rm.Plate,
		Color:          rm.Color,
		EngineCapacity: rm.EngineCapacity,
		Mileage:        rm.Mileage,
		DailyRate:      rm.DailyRate,
		Status:         rm.Status,
		Description:    rm.Description,
		CreatedAt:      rm.CreatedAt,
		UpdatedAt:      rm.UpdatedAt,
	}
}

func FromVehicleList(items []*queries.VehicleView, next *queries.Cursor) *VehicleListResponse {
	resp := &VehicleListResponse{
		Items: make([]*VehicleResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = FromVehicleView(item)
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp
}

func FromAvailabilityView(rm *queries.AvailabilityView) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		VehicleID: rm.VehicleID,
		StartDate: rm.StartDate.Format(time.DateOnly),
		EndDate:   rm.EndDate.Format(time.DateOnly),
		Available: rm.Available,
	}
	for _, p := range rm.Conflicts {
		resp.Conflicts = append(resp.Conflicts, BookedPeriodResponse{
			StartDate: p.StartDate.Format(time.DateOnly),
			EndDate:   p.EndDate.Format(time.DateOnly),
		})
	}
	return resp
}

func FromQuoteView(rm *queries.QuoteView) *QuoteResponse {
	return &QuoteResponse{
		VehicleID:       rm.VehicleID,
		Days:            rm.Days,
		DailyRate:       rm.DailyRate,
		BaseCost:        rm.BaseCost,
		Discount:        rm.Discount,
		DiscountPercent: rm.DiscountPercent,
		InsuranceFee:    rm.InsuranceFee,
		SecurityDeposit: rm.SecurityDeposit,
		TotalAmount:     rm.TotalAmount,
	}
}
