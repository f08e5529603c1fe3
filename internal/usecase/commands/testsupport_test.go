//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/user"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	errNotFound = errors.New("row not found")
	errOverlap  = errors.New("exclusion constraint violated")
)

// memStore is an in-memory stand-in for the database. Transactions are
// serialized by one mutex, which is also what makes the concurrent booking
// test meaningful: the overlap check inside Create sees every committed
// rental, exactly like the exclusion constraint would.
type memStore struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*vehicle.Vehicle
	rentals  map[uuid.UUID]*rental.Rental
	payments map[uuid.UUID]*payment.Payment
}

func newMemStore() *memStore {
	return &memStore{
		vehicles: make(map[uuid.UUID]*vehicle.Vehicle),
		rentals:  make(map[uuid.UUID]*rental.Rental),
		payments: make(map[uuid.UUID]*payment.Payment),
	}
}

func (s *memStore) addVehicle(t *testing.T, rate string, status vehicle.Status) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(
		uuid.Nil, "Honda", "CB 500F", 2024, "ABC1D"+uuid.NewString()[:3], "red",
		500, 1000, decimal.RequireFromString(rate), "",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	v.ChangeStatus(status, v.CreatedAt())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID()] = v
	return v
}

func (s *memStore) paymentByType(rentalID uuid.UUID, pt payment.Type) *payment.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.RentalID() == rentalID && p.Type() == pt {
			return p
		}
	}
	return nil
}

type fakeUoW struct {
	store *memStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store, lock: true}
}

type fakeTx struct {
	store *memStore
}

func (t *fakeTx) Rentals() shared.RentalRepository   { return &fakeRentalRepo{store: t.store} }
func (t *fakeTx) Payments() shared.PaymentRepository { return &fakePaymentRepo{store: t.store} }
func (t *fakeTx) Vehicles() shared.VehicleRepository { return &fakeVehicleRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads         { return &fakeReads{store: t.store} }

type fakeReads struct {
	store *memStore
	lock  bool
}

func (r *fakeReads) VehicleByID(_ context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	v, ok := r.store.vehicles[id]
	if !ok {
		return nil, infra.WrapRepoErr("vehicle not found", errNotFound, infra.KindNotFound)
	}
	return &shared.VehicleSnapshot{
		ID:        v.ID(),
		DailyRate: v.DailyRate(),
		Status:    v.Status(),
		Mileage:   v.Mileage(),
	}, nil
}

func (r *fakeReads) RentalByID(_ context.Context, id uuid.UUID) (*shared.RentalSnapshot, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	rent, ok := r.store.rentals[id]
	if !ok {
		return nil, infra.WrapRepoErr("rental not found", errNotFound, infra.KindNotFound)
	}
	return &shared.RentalSnapshot{
		ID:            rent.ID(),
		VehicleID:     rent.VehicleID(),
		UserID:        rent.UserID(),
		Status:        rent.Status(),
		PaymentStatus: rent.PaymentStatus(),
		StartDate:     rent.Period().Start(),
		EndDate:       rent.Period().End(),
		TotalAmount:   rent.TotalAmount(),
	}, nil
}

func (r *fakeReads) PaymentByID(_ context.Context, id uuid.UUID) (*shared.PaymentSnapshot, error) {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	p, ok := r.store.payments[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment not found", errNotFound, infra.KindNotFound)
	}
	return &shared.PaymentSnapshot{
		ID:        p.ID(),
		RentalID:  p.RentalID(),
		UserID:    p.UserID(),
		Amount:    p.Amount(),
		Type:      p.Type(),
		Method:    p.Method(),
		Status:    p.Status(),
		CreatedAt: p.CreatedAt(),
	}, nil
}

type fakeRentalRepo struct {
	store *memStore
}

func (r *fakeRentalRepo) Create(_ context.Context, rent *rental.Rental) error {
	for _, existing := range r.store.rentals {
		if existing.VehicleID() == rent.VehicleID() &&
			existing.Status().Occupies() &&
			existing.Period().Overlaps(rent.Period()) {
			return infra.WrapRepoErr("rental period overlaps an existing booking", errOverlap, infra.KindConflict)
		}
	}
	r.store.rentals[rent.ID()] = rent
	return nil
}

func (r *fakeRentalRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*rental.Rental, error) {
	rent, ok := r.store.rentals[id]
	if !ok {
		return nil, infra.WrapRepoErr("rental not found", errNotFound, infra.KindNotFound)
	}
	return rent, nil
}

func (r *fakeRentalRepo) Update(_ context.Context, rent *rental.Rental) error {
	if _, ok := r.store.rentals[rent.ID()]; !ok {
		return infra.WrapRepoErr("rental not found", errNotFound, infra.KindNotFound)
	}
	r.store.rentals[rent.ID()] = rent
	return nil
}

type fakePaymentRepo struct {
	store *memStore
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	r.store.payments[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, ok := r.store.payments[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment not found", errNotFound, infra.KindNotFound)
	}
	return p, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *payment.Payment) error {
	if _, ok := r.store.payments[p.ID()]; !ok {
		return infra.WrapRepoErr("payment not found", errNotFound, infra.KindNotFound)
	}
	r.store.payments[p.ID()] = p
	return nil
}

type fakeVehicleRepo struct {
	store *memStore
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	for _, existing := range r.store.vehicles {
		if existing.Plate() == v.Plate() {
			return infra.WrapRepoErr("vehicle plate already registered", errOverlap, infra.KindDuplicateKey)
		}
	}
	r.store.vehicles[v.ID()] = v
	return nil
}

func (r *fakeVehicleRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, ok := r.store.vehicles[id]
	if !ok {
		return nil, infra.WrapRepoErr("vehicle not found", errNotFound, infra.KindNotFound)
	}
	return v, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicle.Vehicle) error {
	if _, ok := r.store.vehicles[v.ID()]; !ok {
		return infra.WrapRepoErr("vehicle not found", errNotFound, infra.KindNotFound)
	}
	r.store.vehicles[v.ID()] = v
	return nil
}

func (r *fakeVehicleRepo) SetStatus(_ context.Context, id uuid.UUID, status vehicle.Status) error {
	v, ok := r.store.vehicles[id]
	if !ok {
		return infra.WrapRepoErr("vehicle not found", errNotFound, infra.KindNotFound)
	}
	v.ChangeStatus(status, time.Now())
	return nil
}

func (r *fakeVehicleRepo) SetMileage(_ context.Context, id uuid.UUID, mileage int) error {
	v, ok := r.store.vehicles[id]
	if !ok {
		return infra.WrapRepoErr("vehicle not found", errNotFound, infra.KindNotFound)
	}
	return v.Apply(vehicle.Changes{Mileage: &mileage}, time.Now())
}

// fakeRentalQueries serves the read-after-write lookups commands issue once
// the transaction committed.
type fakeRentalQueries struct {
	store *memStore
}

func (q *fakeRentalQueries) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.RentalView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, errors.New("forbidden")
	}
	return view, nil
}

func (q *fakeRentalQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.RentalView, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	rent, ok := q.store.rentals[id]
	if !ok {
		return nil, errNotFound
	}
	return rentalToView(rent), nil
}

func (q *fakeRentalQueries) ListByUser(_ context.Context, userID uuid.UUID, _ *queries.Cursor, _ int) ([]*queries.RentalListItem, *queries.Cursor, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	var items []*queries.RentalListItem
	for _, rent := range q.store.rentals {
		if rent.UserID() == userID {
			items = append(items, &queries.RentalListItem{
				ID:          rent.ID(),
				VehicleID:   rent.VehicleID(),
				Status:      rent.Status().String(),
				TotalAmount: rent.TotalAmount(),
			})
		}
	}
	return items, nil, nil
}

func rentalToView(rent *rental.Rental) *queries.RentalView {
	view := &queries.RentalView{
		ID:                rent.ID(),
		VehicleID:         rent.VehicleID(),
		UserID:            rent.UserID(),
		StartDate:         rent.Period().Start(),
		EndDate:           rent.Period().End(),
		Days:              rent.Period().Days(),
		DailyRate:         rent.DailyRate(),
		TotalAmount:       rent.TotalAmount(),
		Discount:          rent.Discount(),
		InsuranceFee:      rent.InsuranceFee(),
		SecurityDeposit:   rent.SecurityDeposit(),
		AdditionalCharges: rent.AdditionalCharges(),
		Status:            rent.Status().String(),
		PaymentStatus:     rent.PaymentStatus().String(),
		PickupLocation:    rent.PickupLocation(),
		ReturnLocation:    rent.ReturnLocation(),
		FinalMileage:      rent.FinalMileage(),
		ActualReturnAt:    rent.ActualReturnAt(),
		CreatedAt:         rent.CreatedAt(),
		UpdatedAt:         rent.UpdatedAt(),
	}
	if note := rent.AdditionalChargesNote(); note != "" {
		view.AdditionalChargesNote = &note
	}
	return view
}

type fakePaymentQueries struct {
	store *memStore
}

func (q *fakePaymentQueries) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.PaymentView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, errors.New("forbidden")
	}
	return view, nil
}

func (q *fakePaymentQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	p, ok := q.store.payments[id]
	if !ok {
		return nil, errNotFound
	}
	return paymentToView(p), nil
}

func (q *fakePaymentQueries) ListByRental(_ context.Context, _ shared.Actor, rentalID uuid.UUID) ([]*queries.PaymentView, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	var views []*queries.PaymentView
	for _, p := range q.store.payments {
		if p.RentalID() == rentalID {
			views = append(views, paymentToView(p))
		}
	}
	return views, nil
}

func paymentToView(p *payment.Payment) *queries.PaymentView {
	view := &queries.PaymentView{
		ID:              p.ID(),
		RentalID:        p.RentalID(),
		UserID:          p.UserID(),
		TransactionID:   p.TransactionID(),
		Amount:          p.Amount(),
		Type:            p.Type().String(),
		Method:          p.Method().String(),
		Status:          p.Status().String(),
		GatewayResponse: p.GatewayResponse(),
		PaidAt:          p.PaidAt(),
		RefundedAt:      p.RefundedAt(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
	if desc := p.Description(); desc != "" {
		view.Description = &desc
	}
	return view
}

func customerActor(id uuid.UUID) shared.Actor {
	return shared.Actor{ID: id, Role: user.RoleCustomer}
}

func adminActor() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}
}
