package bootstrap

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"

	"travelid/internal/infra/queue"
	"travelid/internal/pkg/config"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewAMQP,
	),
)

func NewAMQP(lc fx.Lifecycle, cfg config.Config) (*amqp.Connection, error) {
	conn, cleanup, err := queue.Connect(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return conn, nil
}
