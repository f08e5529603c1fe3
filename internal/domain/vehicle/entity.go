package vehicle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyBrand      = errors.New("brand cannot be empty")
	ErrEmptyModel      = errors.New("model cannot be empty")
	ErrEmptyPlate      = errors.New("plate cannot be empty")
	ErrInvalidYear     = errors.New("invalid manufacturing year")
	ErrInvalidRate     = errors.New("daily rate must be positive")
	ErrNegativeMileage = errors.New("mileage cannot be negative")
)

type Vehicle struct {
	id             uuid.UUID
	brand          string
	model          string
	year           int
	plate          string
	color          string
	engineCapacity int
	mileage        int
	dailyRate      decimal.Decimal
	status         Status
	description    string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewVehicle(
	id uuid.UUID,
	brand, model string,
	year int,
	plate, color string,
	engineCapacity, mileage int,
	dailyRate decimal.Decimal,
	description string,
	now time.Time,
) (*Vehicle, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, ErrEmptyBrand
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, ErrEmptyModel
	}
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return nil, ErrEmptyPlate
	}
	if year < 1990 || year > now.Year()+1 {
		return nil, ErrInvalidYear
	}
	if !dailyRate.IsPositive() {
		return nil, ErrInvalidRate
	}
	if mileage < 0 {
		return nil, ErrNegativeMileage
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Vehicle{
		id:             id,
		brand:          brand,
		model:          model,
		year:           year,
		plate:          plate,
		color:          color,
		engineCapacity: engineCapacity,
		mileage:        mileage,
		dailyRate:      dailyRate,
		status:         StatusAvailable,
		description:    description,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructVehicle(
	id uuid.UUID,
	brand, model string,
	year int,
	plate, color string,
	engineCapacity, mileage int,
	dailyRate decimal.Decimal,
	status Status,
	description string,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:             id,
		brand:          brand,
		model:          model,
		year:           year,
		plate:          plate,
		color:          color,
		engineCapacity: engineCapacity,
		mileage:        mileage,
		dailyRate:      dailyRate,
		status:         status,
		description:    description,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Changes carries the mutable fields of a fleet update; nil means keep.
type Changes struct {
	Color          *string
	EngineCapacity *int
	Mileage        *int
	DailyRate      *decimal.Decimal
	Description    *string
}

func (v *Vehicle) Apply(ch Changes, now time.Time) error {
	if ch.DailyRate != nil && !ch.DailyRate.IsPositive() {
		return ErrInvalidRate
	}
	if ch.Mileage != nil && *ch.Mileage < 0 {
		return ErrNegativeMileage
	}

	if ch.Color != nil {
		v.color = strings.TrimSpace(*ch.Color)
	}
	if ch.EngineCapacity != nil {
		v.engineCapacity = *ch.EngineCapacity
	}
	if ch.Mileage != nil {
		v.mileage = *ch.Mileage
	}
	if ch.DailyRate != nil {
		v.dailyRate = *ch.DailyRate
	}
	if ch.Description != nil {
		v.description = *ch.Description
	}
	v.updatedAt = now
	return nil
}

func (v *Vehicle) ChangeStatus(status Status, now time.Time) {
	v.status = status
	v.updatedAt = now
}

// CanBeReserved is advisory only. Maintenance and inactive vehicles are
// structurally out of the fleet; everything else is decided by the
// authoritative overlap check at booking time.
func (v *Vehicle) CanBeReserved() bool {
	return v.status != StatusMaintenance && v.status != StatusInactive
}

func (v *Vehicle) ID() uuid.UUID              { return v.id }
func (v *Vehicle) Brand() string              { return v.brand }
func (v *Vehicle) Model() string              { return v.model }
func (v *Vehicle) Year() int                  { return v.year }
func (v *Vehicle) Plate() string              { return v.plate }
func (v *Vehicle) Color() string              { return v.color }
func (v *Vehicle) EngineCapacity() int        { return v.engineCapacity }
func (v *Vehicle) Mileage() int               { return v.mileage }
func (v *Vehicle) DailyRate() decimal.Decimal { return v.dailyRate }
func (v *Vehicle) Status() Status             { return v.status }
func (v *Vehicle) Description() string        { return v.description }
func (v *Vehicle) CreatedAt() time.Time       { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time       { return v.updatedAt }
