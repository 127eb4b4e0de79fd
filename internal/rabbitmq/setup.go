package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ExchangeEvents имя обменника доменных событий сервиса.
const ExchangeEvents = "mining.events"

// RoutingKeyPayoutCompleted ключ маршрутизации событий подтверждённых выплат.
const RoutingKeyPayoutCompleted = "payout.completed"

// SetupChannel открывает канал и объявляет обменник и очередь событий выплат.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		ExchangeEvents,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		"mining.payouts",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.QueueBind("mining.payouts", RoutingKeyPayoutCompleted, ExchangeEvents, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, err
}
