package commands

import (
	"context"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/vehicle"
	reqdto "github.com/gabrielmaialva33/moto-rental-platform/internal/handler/dto/request"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/clock"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/queries"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/shared"

	"github.com/google/uuid"
)

// Fleet management, admin only. Authorization is enforced at the router.
type VehicleCommands interface {
	CreateVehicle(ctx context.Context, req reqdto.CreateVehicleRequest) (*queries.VehicleView, error)
	UpdateVehicle(ctx context.Context, vehicleID uuid.UUID, req reqdto.UpdateVehicleRequest) (*queries.VehicleView, error)
	SetVehicleStatus(ctx context.Context, vehicleID uuid.UUID, req reqdto.SetVehicleStatusRequest) (*queries.VehicleView, error)
}

type vehicleUseCaseImpl struct {
	uow            shared.UnitOfWork
	vehicleQueries queries.VehicleQueries
	clock          clock.Clock
}

func NewVehicleUseCase(
	uow shared.UnitOfWork,
	vehicleQueries queries.VehicleQueries,
	clk clock.Clock,
) VehicleCommands {
	return &vehicleUseCaseImpl{
		uow:            uow,
		vehicleQueries: vehicleQueries,
		clock:          clk,
	}
}

func (u *vehicleUseCaseImpl) CreateVehicle(ctx context.Context, req reqdto.CreateVehicleRequest) (*queries.VehicleView, error) {
	domainData, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	vehicleEntity, err := vehicle.NewVehicle(
		uuid.Nil,
		domainData.Brand,
		domainData.Model,
		domainData.Year,
		domainData.Plate,
		domainData.Color,
		domainData.EngineCapacity,
		domainData.Mileage,
		domainData.DailyRate,
		domainData.Description,
		u.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Vehicles().Create(ctx, vehicleEntity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicatePlate)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.vehicleQueries.GetByID(ctx, vehicleEntity.ID())
}

func (u *vehicleUseCaseImpl) UpdateVehicle(ctx context.Context, vehicleID uuid.UUID, req reqdto.UpdateVehicleRequest) (*queries.VehicleView, error) {
	changes, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		vehicleEntity, err := findVehicleForUpdate(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		if err := vehicleEntity.Apply(changes, u.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := tx.Vehicles().Update(ctx, vehicleEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.vehicleQueries.GetByID(ctx, vehicleID)
}

// SetVehicleStatus is the maintenance switch. Marking a vehicle under
// maintenance or inactive does not touch existing reservations; it only
// blocks new ones.
func (u *vehicleUseCaseImpl) SetVehicleStatus(ctx context.Context, vehicleID uuid.UUID, req reqdto.SetVehicleStatusRequest) (*queries.VehicleView, error) {
	status, err := vehicle.NewStatus(req.Status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		vehicleEntity, err := findVehicleForUpdate(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		vehicleEntity.ChangeStatus(status, u.clock.Now())
		if err := tx.Vehicles().Update(ctx, vehicleEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.vehicleQueries.GetByID(ctx, vehicleID)
}

func findVehicleForUpdate(ctx context.Context, tx shared.Tx, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	vehicleEntity, err := tx.Vehicles().FindForUpdate(ctx, vehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return vehicleEntity, nil
}
