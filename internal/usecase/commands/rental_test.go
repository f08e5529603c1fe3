//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type rentalFixture struct {
	store *memStore
	clock *clock.MockClock
	uc    commands.RentalCommands
}

func newRentalFixture(t *testing.T) *rentalFixture {
	t.Helper()
	store := newMemStore()
	clk := clock.NewMockClock(bookingNow)
	uc := commands.NewRentalUseCase(
		&fakeUoW{store: store},
		&fakeRentalQueries{store: store},
		clk,
	)
	return &rentalFixture{store: store, clock: clk, uc: uc}
}

func createRequest(vehicleID uuid.UUID) reqdto.CreateRentalRequest {
	return reqdto.CreateRentalRequest{
		VehicleID:      vehicleID,
		StartDate:      "2026-03-10",
		EndDate:        "2026-03-15",
		PickupLocation: "Av. Paulista, 1000",
	}
}

func TestCreateRental(t *testing.T) {
	t.Run("books the vehicle and opens both payments", func(t *testing.T) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)
		userID := uuid.New()

		view, err := f.uc.CreateRental(context.Background(), customerActor(userID), createRequest(veh.ID()))
		require.NoError(t, err)

		assert.Equal(t, rental.StatusReserved.String(), view.Status)
		assert.Equal(t, rental.PaymentStatusPending.String(), view.PaymentStatus)
		assert.Equal(t, userID, view.UserID)
		assert.Equal(t, 6, view.Days)
		assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("600")))

		assert.Equal(t, vehicle.StatusRented, veh.Status())

		charge := f.store.paymentByType(view.ID, payment.TypeRental)
		require.NotNil(t, charge)
		assert.Equal(t, payment.StatusPending, charge.Status())
		assert.Equal(t, payment.MethodUnset, charge.Method())
		assert.True(t, charge.Amount().Equal(view.TotalAmount))

		deposit := f.store.paymentByType(view.ID, payment.TypeDeposit)
		require.NotNil(t, deposit)
		assert.True(t, deposit.Amount().Equal(view.SecurityDeposit))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		f := newRentalFixture(t)

		_, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), createRequest(uuid.New()))
		assert.ErrorIs(t, err, errs.ErrVehicleNotFound)
	})

	t.Run("vehicle pulled out of the fleet", func(t *testing.T) {
		f := newRentalFixture(t)

		for _, status := range []vehicle.Status{vehicle.StatusMaintenance, vehicle.StatusInactive} {
			veh := f.store.addVehicle(t, "100", status)
			_, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), createRequest(veh.ID()))
			assert.ErrorIs(t, err, errs.ErrVehicleUnavailable, "status %s", status)
		}
	})

	t.Run("start date in the past", func(t *testing.T) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)

		req := createRequest(veh.ID())
		req.StartDate = "2026-02-20"
		req.EndDate = "2026-02-25"

		_, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), req)
		assert.ErrorIs(t, err, errs.ErrInvalidPeriod)
	})

	t.Run("malformed date range", func(t *testing.T) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)

		req := createRequest(veh.ID())
		req.EndDate = "2026-03-10"

		_, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), req)
		assert.ErrorIs(t, err, errs.ErrInvalidPeriod)
	})

	t.Run("overlapping booking is rejected", func(t *testing.T) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)

		_, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), createRequest(veh.ID()))
		require.NoError(t, err)

		req := createRequest(veh.ID())
		req.StartDate = "2026-03-15" // inclusive bounds: same-day handover conflicts
		req.EndDate = "2026-03-20"

		_, err = f.uc.CreateRental(context.Background(), customerActor(uuid.New()), req)
		assert.ErrorIs(t, err, errs.ErrRentalConflict)
	})

	t.Run("concurrent bookings for the same range produce one winner", func(t *testing.T) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)

		const attempts = 16
		results := make([]error, attempts)
		var wg sync.WaitGroup
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func(i int) {
				defer wg.Done()
				_, results[i] = f.uc.CreateRental(context.Background(), customerActor(uuid.New()), createRequest(veh.ID()))
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, errs.ErrRentalConflict)
			}
		}
		assert.Equal(t, 1, wins)
	})
}

func TestActivateRental(t *testing.T) {
	setup := func(t *testing.T) (*rentalFixture, uuid.UUID, uuid.UUID) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)
		userID := uuid.New()
		view, err := f.uc.CreateRental(context.Background(), customerActor(userID), createRequest(veh.ID()))
		require.NoError(t, err)
		return f, view.ID, userID
	}

	t.Run("reserved rental activates", func(t *testing.T) {
		f, rentalID, _ := setup(t)

		view, err := f.uc.ActivateRental(context.Background(), adminActor(), rentalID)
		require.NoError(t, err)
		assert.Equal(t, rental.StatusActive.String(), view.Status)
	})

	t.Run("owner cannot be impersonated", func(t *testing.T) {
		f, rentalID, _ := setup(t)

		_, err := f.uc.ActivateRental(context.Background(), customerActor(uuid.New()), rentalID)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("active rental does not activate again", func(t *testing.T) {
		f, rentalID, _ := setup(t)
		_, err := f.uc.ActivateRental(context.Background(), adminActor(), rentalID)
		require.NoError(t, err)

		_, err = f.uc.ActivateRental(context.Background(), adminActor(), rentalID)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("unknown rental", func(t *testing.T) {
		f := newRentalFixture(t)

		_, err := f.uc.ActivateRental(context.Background(), adminActor(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrRentalNotFound)
	})
}

func TestCompleteRental(t *testing.T) {
	setup := func(t *testing.T) (*rentalFixture, uuid.UUID, *vehicle.Vehicle) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)
		view, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), createRequest(veh.ID()))
		require.NoError(t, err)
		_, err = f.uc.ActivateRental(context.Background(), adminActor(), view.ID)
		require.NoError(t, err)
		return f, view.ID, veh
	}

	t.Run("on time return releases the vehicle", func(t *testing.T) {
		f, rentalID, veh := setup(t)
		f.clock.Set(time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC))

		result, err := f.uc.CompleteRental(context.Background(), adminActor(), rentalID, reqdto.CompleteRentalRequest{
			FinalMileage: 2500,
		})
		require.NoError(t, err)

		assert.Equal(t, rental.StatusCompleted.String(), result.Rental.Status)
		assert.Equal(t, 0, result.OverdueDays)
		assert.True(t, result.AdditionalCharges.IsZero())
		assert.Equal(t, vehicle.StatusAvailable, veh.Status())
		assert.Equal(t, 2500, veh.Mileage())

		assert.Nil(t, f.store.paymentByType(rentalID, payment.TypeAdditional))
	})

	t.Run("overdue return opens a follow-up payment", func(t *testing.T) {
		f, rentalID, _ := setup(t)
		f.clock.Set(time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC))

		result, err := f.uc.CompleteRental(context.Background(), adminActor(), rentalID, reqdto.CompleteRentalRequest{
			FinalMileage:       3000,
			AdditionalCharges:  decimal.RequireFromString("50"),
			ChargesDescription: "broken mirror",
		})
		require.NoError(t, err)

		assert.Equal(t, 3, result.OverdueDays)
		assert.True(t, result.OverduePenalty.Equal(decimal.RequireFromString("150")))
		assert.True(t, result.AdditionalCharges.Equal(decimal.RequireFromString("200")))

		extra := f.store.paymentByType(rentalID, payment.TypeAdditional)
		require.NotNil(t, extra)
		assert.Equal(t, payment.StatusPending, extra.Status())
		assert.True(t, extra.Amount().Equal(decimal.RequireFromString("200")))
		assert.Contains(t, extra.Description(), "broken mirror")
		assert.Contains(t, extra.Description(), "overdue penalty (3 days)")
	})

	t.Run("reserved rental cannot complete", func(t *testing.T) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)
		view, err := f.uc.CreateRental(context.Background(), customerActor(uuid.New()), createRequest(veh.ID()))
		require.NoError(t, err)

		_, err = f.uc.CompleteRental(context.Background(), adminActor(), view.ID, reqdto.CompleteRentalRequest{FinalMileage: 2000})
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestCancelRental(t *testing.T) {
	setup := func(t *testing.T) (*rentalFixture, uuid.UUID, uuid.UUID, *vehicle.Vehicle) {
		f := newRentalFixture(t)
		veh := f.store.addVehicle(t, "100", vehicle.StatusAvailable)
		userID := uuid.New()
		view, err := f.uc.CreateRental(context.Background(), customerActor(userID), createRequest(veh.ID()))
		require.NoError(t, err)
		return f, view.ID, userID, veh
	}

	t.Run("early cancellation refunds in full", func(t *testing.T) {
		f, rentalID, userID, veh := setup(t)

		result, err := f.uc.CancelRental(context.Background(), customerActor(userID), rentalID, reqdto.CancelRentalRequest{Reason: "trip called off"})
		require.NoError(t, err)

		assert.Equal(t, rental.StatusCancelled.String(), result.Rental.Status)
		assert.Equal(t, 100, result.RefundPercent)
		assert.True(t, result.RefundAmount.Equal(decimal.RequireFromString("600")))
		assert.True(t, result.Fee.IsZero())
		assert.Equal(t, vehicle.StatusAvailable, veh.Status())

		refund := f.store.paymentByType(rentalID, payment.TypeRefund)
		require.NotNil(t, refund)
		assert.True(t, refund.Amount().Equal(result.RefundAmount))
		assert.Equal(t, payment.StatusPending, refund.Status())
	})

	t.Run("last minute cancellation keeps a fee", func(t *testing.T) {
		f, rentalID, userID, _ := setup(t)
		f.clock.Set(time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)) // 4h before start

		result, err := f.uc.CancelRental(context.Background(), customerActor(userID), rentalID, reqdto.CancelRentalRequest{})
		require.NoError(t, err)

		assert.Equal(t, 70, result.RefundPercent)
		assert.True(t, result.RefundAmount.Equal(decimal.RequireFromString("420")))
		assert.True(t, result.Fee.Equal(decimal.RequireFromString("180")))
	})

	t.Run("other customers cannot cancel", func(t *testing.T) {
		f, rentalID, _, _ := setup(t)

		_, err := f.uc.CancelRental(context.Background(), customerActor(uuid.New()), rentalID, reqdto.CancelRentalRequest{})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("active rental cannot cancel", func(t *testing.T) {
		f, rentalID, userID, _ := setup(t)
		_, err := f.uc.ActivateRental(context.Background(), adminActor(), rentalID)
		require.NoError(t, err)

		_, err = f.uc.CancelRental(context.Background(), customerActor(userID), rentalID, reqdto.CancelRentalRequest{})
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}
