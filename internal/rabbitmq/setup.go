// Package rabbitmq настраивает топологию очередей уведомлений жизненного цикла.
//
// Все сообщения публикуются в direct-exchange "notifications"; каждая очередь
// lifecycle.* привязана к нему своим ключом маршрутизации, совпадающим
// с типом уведомления (deleted, scheduled, reminder, restored).
package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange — имя exchange для всех уведомлений жизненного цикла.
const Exchange = "notifications"

// prefetchCount ограничивает число невостребованных сообщений на канале
// и одновременно обрабатываемых писем у потребителя.
const prefetchCount = 10

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// LifecycleQueues возвращает полный набор очередей уведомлений.
func LifecycleQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "lifecycle.deleted", RoutingKey: "deleted"},
		{QueueName: "lifecycle.scheduled", RoutingKey: "scheduled"},
		{QueueName: "lifecycle.reminder", RoutingKey: "reminder"},
		{QueueName: "lifecycle.restored", RoutingKey: "restored"},
	}
}

func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
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

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
