package components

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"travelid/internal/infra/cache"
	"travelid/internal/infra/db"
	"travelid/internal/infra/readstore"
	"travelid/internal/infra/uow"
	"travelid/internal/pkg/config"
	"travelid/internal/usecase/commands"
	"travelid/internal/usecase/queries"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(queries.CatalogReadStore)),
		),
		fx.Annotate(
			readstore.NewPriceReadStore,
			fx.As(new(queries.PriceReadStore)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		NewAvailabilityCache,
		NewResultCache,
		NewAvailabilityInvalidator,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewAvailabilityCache(client *redis.Client, cfg config.Config, logger *slog.Logger) *cache.AvailabilityCache {
	return cache.NewAvailabilityCache(client, cfg.Redis, logger)
}

// The cache serves two ports: read-through lookups for queries and
// invalidation for commands.
func NewResultCache(c *cache.AvailabilityCache) queries.ResultCache {
	return c
}

func NewAvailabilityInvalidator(c *cache.AvailabilityCache) commands.AvailabilityInvalidator {
	return c
}
