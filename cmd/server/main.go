package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kazudmb/time-record/config"
	"github.com/kazudmb/time-record/module/checkin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var deps checkin.Deps

	if cfg.NeedsPostgres() {
		db, err := config.NewPostgres(cfg)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer func() { _ = db.Close() }()
		deps.DB = db
	}

	if cfg.NeedsRabbitMQ() {
		amqpConn, err := config.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer func() { _ = amqpConn.Close() }()
		deps.AMQPConn = amqpConn
	}

	if cfg.NeedsMQTT() {
		mqttClient, err := config.NewMQTT(cfg)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer mqttClient.Disconnect(250)
		deps.MQTT = mqttClient
	}

	checkinModule, err := checkin.Build(ctx, cfg, deps)
	if err != nil {
		log.Fatalf("checkin module: %v", err)
	}

	if err := checkinModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()
	newHealthChecker(deps).Register(r)
	checkinModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// newHealthChecker registers only the connections that were opened.
func newHealthChecker(deps checkin.Deps) *config.HealthChecker {
	h := config.NewHealthChecker(nil, nil, nil)
	if deps.DB != nil {
		h = h.WithPostgres(deps.DB)
	}
	if deps.AMQPConn != nil {
		h = h.WithRabbitMQ(deps.AMQPConn)
	}
	if deps.MQTT != nil {
		h = h.WithMQTT(deps.MQTT)
	}
	return h
}
