package bootstrap

import (
	"go.uber.org/fx"

	"travelid/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
