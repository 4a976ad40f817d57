package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kazudmb/time-record/config"
	"github.com/kazudmb/time-record/module/checkin/domain"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher"
)

var _ publisher.CheckInClient = (*CheckInPublisher)(nil)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// CheckInPublisher emits one persistent message per check-in.
type CheckInPublisher struct {
	ch  channel
	now func() time.Time
}

func NewCheckInPublisher(conn *amqp.Connection) (*CheckInPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := config.DeclareCheckInTopology(ch); err != nil {
		return nil, err
	}

	return &CheckInPublisher{ch: ch, now: time.Now}, nil
}

func (p *CheckInPublisher) Submit(ctx context.Context, employeeID string) error {
	event := domain.CheckInEvent{
		EmployeeID:  employeeID,
		SubmittedAt: p.now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal check-in: %w", err)
	}

	if err := p.ch.PublishWithContext(ctx, config.CheckInExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.SubmittedAt,
		Type:         "checkin",
		Body:         body,
	}); err != nil {
		return fmt.Errorf("publish check-in: %w", err)
	}
	return nil
}
