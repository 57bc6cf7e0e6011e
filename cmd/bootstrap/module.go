package bootstrap

import (
	"go.uber.org/fx"

	"travelid/cmd/bootstrap/components"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	AMQPModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
