package request

import (
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"

	"github.com/shopspring/decimal"
)

type CreateVehicleRequest struct {
	Brand          string          `json:"brand" binding:"required"`
	Model          string          `json:"model" binding:"required"`
	Year           int             `json:"year" binding:"required"`
	Plate          string          `json:"plate" binding:"required"`
	Color          string          `json:"color,omitempty"`
	EngineCapacity int             `json:"engine_capacity,omitempty"`
	Mileage        int             `json:"mileage,omitempty"`
	DailyRate      decimal.Decimal `json:"daily_rate" binding:"required"`
	Description    string          `json:"description,omitempty"`
}

type CreateVehicleData struct {
	Brand          string
	Model          string
	Year           int
	Plate          string
	Color          string
	EngineCapacity int
	Mileage        int
	DailyRate      decimal.Decimal
	Description    string
}

func (r CreateVehicleRequest) ToDomain() (CreateVehicleData, error) {
	if !r.DailyRate.IsPositive() {
		return CreateVehicleData{}, vehicle.ErrInvalidRate
	}
	return CreateVehicleData{
		Brand:          r.Brand,
		Model:          r.Model,
		Year:           r.Year,
		Plate:          r.Plate,
		Color:          r.Color,
		EngineCapacity: r.EngineCapacity,
		Mileage:        r.Mileage,
		DailyRate:      r.DailyRate,
		Description:    r.Description,
	}, nil
}

type UpdateVehicleRequest struct {
	Color          *string          `json:"color,omitempty"`
	EngineCapacity *int             `json:"engine_capacity,omitempty"`
	Mileage        *int             `json:"mileage,omitempty"`
	DailyRate      *decimal.Decimal `json:"daily_rate,omitempty"`
	Description    *string          `json:"description,omitempty"`
}

func (r UpdateVehicleRequest) ToDomain() (vehicle.Changes, error) {
	if r.DailyRate != nil && !r.DailyRate.IsPositive() {
		return vehicle.Changes{}, vehicle.ErrInvalidRate
	}
	if r.Mileage != nil && *r.Mileage < 0 {
		return vehicle.Changes{}, vehicle.ErrNegativeMileage
	}
	return vehicle.Changes{
		Color:          r.Color,
		EngineCapacity: r.EngineCapacity,
		Mileage:        r.Mileage,
		DailyRate:      r.DailyRate,
		Description:    r.Description,
	}, nil
}

type SetVehicleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
