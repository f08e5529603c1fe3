package rental

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyPickupLocation = errors.New("pickup location cannot be empty")
	ErrNotReserved         = errors.New("rental is not in reserved state")
	ErrNotActive           = errors.New("rental is not in active state")
	ErrNegativeCharges     = errors.New("additional charges cannot be negative")
)

// VehicleSpec is the slice of vehicle state a booking needs. The daily rate
// is snapshotted into the rental and is immune to later rate changes.
type VehicleSpec struct {
	ID        uuid.UUID
	DailyRate decimal.Decimal
}

type Rental struct {
	id              uuid.UUID
	vehicleID       uuid.UUID
	userID          uuid.UUID
	period          Period
	dailyRate       decimal.Decimal
	totalAmount     decimal.Decimal
	discount        decimal.Decimal
	insuranceFee    decimal.Decimal
	securityDeposit decimal.Decimal
	insuranceTier   *InsuranceTier

	additionalCharges     decimal.Decimal
	additionalChargesNote string

	status        Status
	paymentStatus PaymentStatus

	pickupLocation string
	returnLocation string
	notes          string
	finalMileage   *int
	actualReturnAt *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewRental(
	now time.Time,
	veh VehicleSpec,
	userID uuid.UUID,
	period Period,
	tier *InsuranceTier,
	pickupLocation, returnLocation, notes string,
) (*Rental, error) {
	if err := period.ValidateStartsAfter(now); err != nil {
		return nil, err
	}

	pickupLocation = strings.TrimSpace(pickupLocation)
	if pickupLocation == "" {
		return nil, ErrEmptyPickupLocation
	}
	returnLocation = strings.TrimSpace(returnLocation)
	if returnLocation == "" {
		returnLocation = pickupLocation
	}

	quote := CalculateQuote(veh.DailyRate, period, tier)

	return &Rental{
		id:                uuid.New(),
		vehicleID:         veh.ID,
		userID:            userID,
		period:            period,
		dailyRate:         veh.DailyRate,
		totalAmount:       quote.TotalAmount,
		discount:          quote.Discount,
		insuranceFee:      quote.InsuranceFee,
		securityDeposit:   quote.SecurityDeposit,
		insuranceTier:     tier,
		additionalCharges: decimal.Zero,
		status:            StatusReserved,
		paymentStatus:     PaymentStatusPending,
		pickupLocation:    pickupLocation,
		returnLocation:    returnLocation,
		notes:             strings.TrimSpace(notes),
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func ReconstructRental(
	id, vehicleID, userID uuid.UUID,
	period Period,
	dailyRate, totalAmount, discount, insuranceFee, securityDeposit, additionalCharges decimal.Decimal,
	additionalChargesNote string,
	insuranceTier *InsuranceTier,
	status Status,
	paymentStatus PaymentStatus,
	pickupLocation, returnLocation, notes string,
	finalMileage *int,
	actualReturnAt *time.Time,
	createdAt, updatedAt time.Time,
) *Rental {
	return &Rental{
		id:                    id,
		vehicleID:             vehicleID,
		userID:                userID,
		period:                period,
		dailyRate:             dailyRate,
		totalAmount:           totalAmount,
		discount:              discount,
		insuranceFee:          insuranceFee,
		securityDeposit:       securityDeposit,
		additionalCharges:     additionalCharges,
		additionalChargesNote: additionalChargesNote,
		insuranceTier:         insuranceTier,
		status:                status,
		paymentStatus:         paymentStatus,
		pickupLocation:        pickupLocation,
		returnLocation:        returnLocation,
		notes:                 notes,
		finalMileage:          finalMileage,
		actualReturnAt:        actualReturnAt,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// Activate moves a paid reservation into the active state. Legal only from
// reserved.
func (r *Rental) Activate(now time.Time) error {
	if r.status != StatusReserved {
		return ErrNotReserved
	}
	r.status = StatusActive
	r.updatedAt = now
	return nil
}

// CompletionResult reports what Complete decided so callers can create the
// follow-up payment when charges accrued.
type CompletionResult struct {
	OverdueDays       int
	OverduePenalty    decimal.Decimal
	AdditionalCharges decimal.Decimal
}

// Complete closes an active rental. Overdue penalties are added on top of
// any explicitly supplied charges, never replacing them.
func (r *Rental) Complete(now time.Time, finalMileage int, extraCharges decimal.Decimal, chargesNote, notes string) (CompletionResult, error) {
	if r.status != StatusActive {
		return CompletionResult{}, ErrNotActive
	}
	if extraCharges.IsNegative() {
		return CompletionResult{}, ErrNegativeCharges
	}

	overdueDays := 0
	penalty := decimal.Zero
	if r.actualReturnAt == nil {
		overdueDays = r.period.OverdueDays(now)
		penalty = OverduePenalty(r.dailyRate, overdueDays)
	}

	charges := extraCharges.Add(penalty)

	r.status = StatusCompleted
	r.actualReturnAt = &now
	r.finalMileage = &finalMileage
	r.addCharges(charges, chargesNote)
	if notes = strings.TrimSpace(notes); notes != "" {
		r.notes = notes
	}
	r.updatedAt = now

	return CompletionResult{
		OverdueDays:       overdueDays,
		OverduePenalty:    penalty,
		AdditionalCharges: charges,
	}, nil
}

// Cancel aborts a reservation before pickup. Legal only from reserved; the
// refund tier depends on how close to the start the cancellation happens.
// The cancellation fee accrues into additional charges without clobbering
// charges recorded by other flows.
func (r *Rental) Cancel(now time.Time, reason string) (RefundBreakdown, error) {
	if r.status != StatusReserved {
		return RefundBreakdown{}, ErrNotReserved
	}

	breakdown := CancellationRefund(r.totalAmount, r.period.HoursUntilStart(now))

	r.status = StatusCancelled
	if breakdown.Fee.IsPositive() {
		r.addCharges(breakdown.Fee, "cancellation fee")
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		if r.notes != "" {
			r.notes += "\n"
		}
		r.notes += "cancelled: " + reason
	}
	r.updatedAt = now

	return breakdown, nil
}

func (r *Rental) addCharges(amount decimal.Decimal, note string) {
	if !amount.IsPositive() {
		return
	}
	r.additionalCharges = r.additionalCharges.Add(amount)
	if note = strings.TrimSpace(note); note != "" {
		if r.additionalChargesNote != "" {
			r.additionalChargesNote += "; "
		}
		r.additionalChargesNote += note
	}
}

func (r *Rental) SetPaymentStatus(status PaymentStatus, now time.Time) {
	r.paymentStatus = status
	r.updatedAt = now
}

func (r *Rental) IsOverdue(now time.Time) bool {
	return r.status == StatusActive && r.actualReturnAt == nil && now.After(r.period.End())
}

func (r *Rental) ID() uuid.UUID                    { return r.id }
func (r *Rental) VehicleID() uuid.UUID             { return r.vehicleID }
func (r *Rental) UserID() uuid.UUID                { return r.userID }
func (r *Rental) Period() Period                   { return r.period }
func (r *Rental) DailyRate() decimal.Decimal       { return r.dailyRate }
func (r *Rental) TotalAmount() decimal.Decimal     { return r.totalAmount }
func (r *Rental) Discount() decimal.Decimal        { return r.discount }
func (r *Rental) InsuranceFee() decimal.Decimal    { return r.insuranceFee }
func (r *Rental) SecurityDeposit() decimal.Decimal { return r.securityDeposit }
func (r *Rental) InsuranceTier() *InsuranceTier    { return r.insuranceTier }
func (r *Rental) AdditionalCharges() decimal.Decimal {
	return r.additionalCharges
}
func (r *Rental) AdditionalChargesNote() string { return r.additionalChargesNote }
func (r *Rental) Status() Status                { return r.status }
func (r *Rental) PaymentStatus() PaymentStatus  { return r.paymentStatus }
func (r *Rental) PickupLocation() string        { return r.pickupLocation }
func (r *Rental) ReturnLocation() string        { return r.returnLocation }
func (r *Rental) Notes() string                 { return r.notes }
func (r *Rental) FinalMileage() *int            { return r.finalMileage }
func (r *Rental) ActualReturnAt() *time.Time    { return r.actualReturnAt }
func (r *Rental) CreatedAt() time.Time          { return r.createdAt }
func (r *Rental) UpdatedAt() time.Time          { return r.updatedAt }
