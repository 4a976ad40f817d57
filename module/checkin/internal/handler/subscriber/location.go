package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

const topicFormat = "/attendance/device/%s/location"

// Topic returns the MQTT topic a device publishes its fixes to.
func Topic(deviceID string) string {
	return fmt.Sprintf(topicFormat, deviceID)
}

// locationMessage is a fix published by the device. Timestamp is unix
// milliseconds. A non-zero Error carries a geolocation error code instead of
// a fix.
type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
	Error     int     `json:"error,omitempty"`
}

type fixResult struct {
	pos domain.Position
	err error
}

type waiter struct {
	notBefore time.Time
	ch        chan fixResult
}

// LocationProvider answers position requests with the next fix the device
// publishes over MQTT.
type LocationProvider struct {
	client mqtt.Client
	topic  string
	now    func() time.Time

	mu      sync.Mutex
	waiters map[int]waiter
	nextID  int
}

func NewLocationProvider(client mqtt.Client, deviceID string) *LocationProvider {
	return &LocationProvider{
		client:  client,
		topic:   Topic(deviceID),
		now:     time.Now,
		waiters: map[int]waiter{},
	}
}

func (p *LocationProvider) Start() error {
	token := p.client.Subscribe(p.topic, 1, p.handleMessage)
	token.Wait()
	return token.Error()
}

// CurrentPosition waits for a fix no older than opts.MaximumAge measured
// from the moment of the call. The caller's context bounds the wait.
func (p *LocationProvider) CurrentPosition(ctx context.Context, opts domain.PositionOptions) (domain.Position, error) {
	if p.client != nil && !p.client.IsConnected() {
		return domain.Position{}, &domain.PositionError{Code: domain.PositionUnavailable, Message: "mqtt not connected"}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// Device timestamps carry millisecond precision.
	id, ch := p.register(p.now().Add(-opts.MaximumAge).Truncate(time.Millisecond))
	defer p.unregister(id)

	select {
	case <-ctx.Done():
		return domain.Position{}, &domain.PositionError{Code: domain.PositionTimeout, Message: ctx.Err().Error()}
	case res := <-ch:
		return res.pos, res.err
	}
}

func (p *LocationProvider) register(notBefore time.Time) (int, <-chan fixResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	ch := make(chan fixResult, 1)
	p.waiters[id] = waiter{notBefore: notBefore, ch: ch}
	return id, ch
}

func (p *LocationProvider) unregister(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.waiters, id)
}

func (p *LocationProvider) pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiters)
}

func (p *LocationProvider) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	if raw.Error != 0 {
		p.deliver(time.Time{}, fixResult{err: &domain.PositionError{
			Code:    domain.PositionErrorCode(raw.Error),
			Message: "reported by device",
		}})
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	pos := domain.Position{
		Coordinate: domain.Coordinate{Lat: raw.Latitude, Lon: raw.Longitude},
		Accuracy:   raw.Accuracy,
		Timestamp:  time.UnixMilli(raw.Timestamp),
	}
	p.deliver(pos.Timestamp, fixResult{pos: pos})
}

// deliver hands res to every waiter that accepts a fix taken at ts. A zero
// ts matches all waiters.
func (p *LocationProvider) deliver(ts time.Time, res fixResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, w := range p.waiters {
		if !ts.IsZero() && ts.Before(w.notBefore) {
			continue
		}
		w.ch <- res
		delete(p.waiters, id)
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Accuracy < 0 {
		return fmt.Errorf("accuracy: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
