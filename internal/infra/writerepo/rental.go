package writerepo

import (
	"context"
	"errors"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

type RentalRepository struct {
	db db.DBTX
}

func NewRentalRepository(dbtx db.DBTX) shared.RentalRepository {
	return &RentalRepository{db: dbtx}
}

func (r *RentalRepository) Create(ctx context.Context, rent *rental.Rental) error {
	const query = `
		INSERT INTO rentals (
			id, vehicle_id, user_id, start_date, end_date,
			daily_rate, total_amount, discount, insurance_fee, security_deposit,
			additional_charges, additional_charges_note, insurance_tier,
			status, payment_status, pickup_location, return_location, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)`

	_, err := r.db.Exec(ctx, query,
		rent.ID(), rent.VehicleID(), rent.UserID(), rent.Period().Start(), rent.Period().End(),
		rent.DailyRate(), rent.TotalAmount(), rent.Discount(), rent.InsuranceFee(), rent.SecurityDeposit(),
		rent.AdditionalCharges(), rent.AdditionalChargesNote(), tierToDB(rent.InsuranceTier()),
		rent.Status().String(), rent.PaymentStatus().String(), rent.PickupLocation(), rent.ReturnLocation(), rent.Notes(),
		rent.CreatedAt(), rent.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeExclusionViolation:
				return infra.WrapRepoErr("rental period overlaps an existing booking", err, infra.KindConflict)
			case pgErrCodeForeignKeyViolated:
				return infra.WrapRepoErr("rental references missing vehicle", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to create rental", err)
	}
	return nil
}

func (r *RentalRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*rental.Rental, error) {
	const query = `
		SELECT id, vehicle_id, user_id, start_date, end_date,
		       daily_rate, total_amount, discount, insurance_fee, security_deposit,
		       additional_charges, additional_charges_note, insurance_tier,
		       status, payment_status, pickup_location, return_location, notes,
		       final_mileage, actual_return_at, created_at, updated_at
		FROM rentals
		WHERE id = $1
		FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	rent, err := scanRental(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("rental not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock rental", err)
	}
	return rent, nil
}

func (r *RentalRepository) Update(ctx context.Context, rent *rental.Rental) error {
	const query = `
		UPDATE rentals SET
			status = $2,
			payment_status = $3,
			additional_charges = $4,
			additional_charges_note = $5,
			notes = $6,
			final_mileage = $7,
			actual_return_at = $8,
			updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		rent.ID(),
		rent.Status().String(),
		rent.PaymentStatus().String(),
		rent.AdditionalCharges(),
		rent.AdditionalChargesNote(),
		rent.Notes(),
		rent.FinalMileage(),
		rent.ActualReturnAt(),
		rent.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update rental", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rental not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanRental(row pgx.Row) (*rental.Rental, error) {
	var (
		id, vehicleID, userID                                        uuid.UUID
		startDate, endDate, createdAt, updatedAt                     time.Time
		dailyRate, totalAmount, discount, insuranceFee               decimal.Decimal
		securityDeposit, additionalCharges                           decimal.Decimal
		additionalChargesNote, pickupLocation, returnLocation, notes string
		insuranceTier                                                *string
		status, paymentStatus                                        string
		finalMileage                                                 *int
		actualReturnAt                                               *time.Time
	)

	err := row.Scan(
		&id, &vehicleID, &userID, &startDate, &endDate,
		&dailyRate, &totalAmount, &discount, &insuranceFee, &securityDeposit,
		&additionalCharges, &additionalChargesNote, &insuranceTier,
		&status, &paymentStatus, &pickupLocation, &returnLocation, &notes,
		&finalMileage, &actualReturnAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var tier *rental.InsuranceTier
	if insuranceTier != nil {
		t, err := rental.NewInsuranceTier(*insuranceTier)
		if err != nil {
			return nil, err
		}
		tier = &t
	}
	rentalStatus, err := rental.NewStatus(status)
	if err != nil {
		return nil, err
	}
	rentalPaymentStatus, err := rental.NewPaymentStatus(paymentStatus)
	if err != nil {
		return nil, err
	}

	return rental.ReconstructRental(
		id, vehicleID, userID,
		rental.ReconstructPeriod(startDate, endDate),
		dailyRate, totalAmount, discount, insuranceFee, securityDeposit, additionalCharges,
		additionalChargesNote,
		tier,
		rentalStatus,
		rentalPaymentStatus,
		pickupLocation, returnLocation, notes,
		finalMileage,
		actualReturnAt,
		createdAt, updatedAt,
	), nil
}

func tierToDB(tier *rental.InsuranceTier) *string {
	if tier == nil {
		return nil
	}
	s := tier.String()
	return &s
}
