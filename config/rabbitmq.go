package config

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Check-in events are fanned out to every bound queue; the listener reads
// from CheckInQueue.
const (
	CheckInExchange = "attendance.events"
	CheckInQueue    = "checkins"
)

type topology interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func NewRabbitMQ(cfg *Config) (*amqp.Connection, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	return conn, nil
}

// DeclareCheckInTopology sets up the exchange and queue check-in events flow
// through. Both the publisher and the listener call it, so either may start
// first.
func DeclareCheckInTopology(ch topology) error {
	if err := ch.ExchangeDeclare(CheckInExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(CheckInQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(CheckInQueue, "", CheckInExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}
