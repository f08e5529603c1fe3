package components

import (
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/db"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/readstore"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/infra/uow"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork builds its own write repositories per transaction.
		uow.NewPostgresUoW,
		// Read stores query over the pool directly, outside any transaction.
		readstore.NewVehicleReadStore,
		readstore.NewRentalReadStore,
		readstore.NewPaymentReadStore,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
