package components

import (
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"

	"travelid/internal/infra/queue"
	"travelid/internal/pkg/clock"
	"travelid/internal/pkg/config"
	"travelid/internal/usecase/commands"
	"travelid/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewEventPublisher,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewPricingQueries,
		queries.NewReservationQueries,
	),
)

func NewEventPublisher(conn *amqp.Connection, cfg config.Config, logger *slog.Logger) (commands.EventPublisher, error) {
	return queue.NewPublisher(conn, cfg.AMQP, logger)
}
