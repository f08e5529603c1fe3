package request

import (
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRentalRequest struct {
	VehicleID      uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate      string    `json:"start_date" binding:"required"`
	EndDate        string    `json:"end_date" binding:"required"`
	InsuranceTier  *string   `json:"insurance_tier,omitempty"`
	PickupLocation string    `json:"pickup_location" binding:"required"`
	ReturnLocation string    `json:"return_location,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

type CreateRentalData struct {
	Period         rental.Period
	InsuranceTier  *rental.InsuranceTier
	PickupLocation string
	ReturnLocation string
	Notes          string
}

func (r CreateRentalRequest) ToDomain() (CreateRentalData, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return CreateRentalData{}, err
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return CreateRentalData{}, err
	}

	period, err := rental.NewPeriod(start, end)
	if err != nil {
		return CreateRentalData{}, err
	}

	var tier *rental.InsuranceTier
	if r.InsuranceTier != nil && *r.InsuranceTier != "" {
		t, err := rental.NewInsuranceTier(*r.InsuranceTier)
		if err != nil {
			return CreateRentalData{}, err
		}
		tier = &t
	}

	return CreateRentalData{
		Period:         period,
		InsuranceTier:  tier,
		PickupLocation: r.PickupLocation,
		ReturnLocation: r.ReturnLocation,
		Notes:          r.Notes,
	}, nil
}

type CompleteRentalRequest struct {
	FinalMileage       int             `json:"final_mileage" binding:"required,min=0"`
	AdditionalCharges  decimal.Decimal `json:"additional_charges,omitempty"`
	ChargesDescription string          `json:"charges_description,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

type CompleteRentalData struct {
	FinalMileage       int
	AdditionalCharges  decimal.Decimal
	ChargesDescription string
	Notes              string
}

func (r CompleteRentalRequest) ToDomain() (CompleteRentalData, error) {
	if r.AdditionalCharges.IsNegative() {
		return CompleteRentalData{}, rental.ErrNegativeCharges
	}
	return CompleteRentalData{
		FinalMileage:       r.FinalMileage,
		AdditionalCharges:  r.AdditionalCharges,
		ChargesDescription: r.ChargesDescription,
		Notes:              r.Notes,
	}, nil
}

type CancelRentalRequest struct {
	Reason string `json:"reason,omitempty"`
}
