package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/kazudmb/time-record/config"
	"github.com/kazudmb/time-record/module/checkin/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := config.DeclareCheckInTopology(ch); err != nil {
		log.Fatal(err)
	}

	msgs, err := ch.Consume(config.CheckInQueue, "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("consuming from queue '%s', waiting for check-ins...", config.CheckInQueue)

	seen := newTally()
	for {
		select {
		case <-ctx.Done():
			log.Println("shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("delivery channel closed")
				return
			}
			line, err := seen.record(msg.Body)
			if err != nil {
				log.Printf("invalid check-in event: %v", err)
				continue
			}
			fmt.Println(line)
		}
	}
}

// tally counts check-ins per employee for the lifetime of the listener.
type tally struct {
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) record(body []byte) (string, error) {
	var event domain.CheckInEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if event.EmployeeID == "" {
		return "", errors.New("missing employeeId")
	}

	t.counts[event.EmployeeID]++
	return fmt.Sprintf("[checkin] %s at %s (#%d)",
		event.EmployeeID,
		event.SubmittedAt.Local().Format(domain.LocalTimestampLayout),
		t.counts[event.EmployeeID],
	), nil
}
