package config

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type closedChecker interface {
	IsClosed() bool
}

type connectedChecker interface {
	IsConnected() bool
}

// HealthChecker reports on the dependencies the server was started with.
// A nil dependency is reported as disabled and does not affect the status.
type HealthChecker struct {
	db       pinger
	amqpConn closedChecker
	mqtt     connectedChecker
}

func NewHealthChecker(db pinger, amqpConn closedChecker, mqttClient connectedChecker) *HealthChecker {
	return &HealthChecker{db: db, amqpConn: amqpConn, mqtt: mqttClient}
}

func (h *HealthChecker) WithPostgres(db pinger) *HealthChecker {
	h.db = db
	return h
}

func (h *HealthChecker) WithRabbitMQ(conn closedChecker) *HealthChecker {
	h.amqpConn = conn
	return h
}

func (h *HealthChecker) WithMQTT(client connectedChecker) *HealthChecker {
	h.mqtt = client
	return h
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	switch {
	case h.db == nil:
		deps["postgres"] = gin.H{"status": "disabled"}
	case h.db.PingContext(c.Request.Context()) != nil:
		deps["postgres"] = gin.H{"status": "down", "error": "ping failed"}
		status = http.StatusServiceUnavailable
	default:
		deps["postgres"] = gin.H{"status": "up"}
	}

	switch {
	case h.amqpConn == nil:
		deps["rabbitmq"] = gin.H{"status": "disabled"}
	case h.amqpConn.IsClosed():
		deps["rabbitmq"] = gin.H{"status": "down", "error": "connection closed"}
		status = http.StatusServiceUnavailable
	default:
		deps["rabbitmq"] = gin.H{"status": "up"}
	}

	switch {
	case h.mqtt == nil:
		deps["mqtt"] = gin.H{"status": "disabled"}
	case !h.mqtt.IsConnected():
		deps["mqtt"] = gin.H{"status": "down", "error": "not connected"}
		status = http.StatusServiceUnavailable
	default:
		deps["mqtt"] = gin.H{"status": "up"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
