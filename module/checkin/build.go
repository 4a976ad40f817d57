package checkin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kazudmb/time-record/config"
	"github.com/kazudmb/time-record/module/checkin/domain"
	handler "github.com/kazudmb/time-record/module/checkin/internal/handler/http"
	"github.com/kazudmb/time-record/module/checkin/internal/handler/subscriber"
	"github.com/kazudmb/time-record/module/checkin/internal/notifier"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/database"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/database/postgres"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/database/static"
	staticdevice "github.com/kazudmb/time-record/module/checkin/internal/repository/device/static"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher/httpapi"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher/rabbitmq"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher/stub"
	"github.com/kazudmb/time-record/module/checkin/service"
)

// Deps are the connections opened by the caller. Each may be nil when the
// configured backend does not use it.
type Deps struct {
	DB       *sql.DB
	AMQPConn *amqp.Connection
	MQTT     mqtt.Client
}

type Module struct {
	GateSvc      *service.GateService
	SubmitterSvc *service.SubmitterService
	FormSvc      *service.FormService
	handler      *handler.FormHandler
	subscriber   *subscriber.LocationProvider
}

func Build(ctx context.Context, cfg *config.Config, deps Deps) (*Module, error) {
	rosterRepo, err := newRosterRepo(cfg, deps)
	if err != nil {
		return nil, err
	}
	roster, err := rosterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("load roster: no identities")
	}

	client, err := newCheckInClient(cfg, deps)
	if err != nil {
		return nil, err
	}

	m := &Module{}

	var provider service.LocationProvider
	switch cfg.LocationProvider {
	case "mqtt":
		if deps.MQTT != nil {
			m.subscriber = subscriber.NewLocationProvider(deps.MQTT, cfg.DeviceID)
			provider = m.subscriber
		}
	case "static":
		provider = staticdevice.NewProvider(domain.Coordinate{Lat: cfg.StaticLatitude, Lon: cfg.StaticLongitude})
	}

	geofence := domain.GeofenceConfig{
		Target:              domain.Coordinate{Lat: cfg.TargetLatitude, Lon: cfg.TargetLongitude},
		AllowedRadiusMeters: cfg.AllowedRadiusMeters,
		UseMockLocation:     cfg.UseMockLocation,
	}
	if geofence.UseMockLocation {
		log.Println("WARNING: mock location enabled, every location request is allowed")
	}

	notify := notifier.NewLog(nil)

	m.GateSvc = service.NewGateService(geofence, provider, cfg.LocationTimeout)
	m.SubmitterSvc = service.NewSubmitterService(client, notify, cfg.SubmitTimeout)
	m.FormSvc = service.NewFormService(roster, m.GateSvc, m.SubmitterSvc, notify)
	m.handler = handler.NewFormHandler(m.FormSvc)

	return m, nil
}

func newRosterRepo(cfg *config.Config, deps Deps) (database.RosterRepository, error) {
	if cfg.RosterSource != "postgres" {
		return static.NewRosterRepo(nil), nil
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("roster: postgres source requires a database")
	}
	return postgres.NewRosterRepo(deps.DB), nil
}

func newCheckInClient(cfg *config.Config, deps Deps) (publisher.CheckInClient, error) {
	switch cfg.CheckInBackend {
	case "http":
		return httpapi.NewCheckInClient(cfg.CheckInBaseURL, &http.Client{}), nil
	case "rabbitmq":
		if deps.AMQPConn == nil {
			return nil, fmt.Errorf("check-in publisher: rabbitmq backend requires a connection")
		}
		pub, err := rabbitmq.NewCheckInPublisher(deps.AMQPConn)
		if err != nil {
			return nil, fmt.Errorf("check-in publisher: %w", err)
		}
		return pub, nil
	default:
		return stub.NewCheckInClient(cfg.StubDelay), nil
	}
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	if m.subscriber == nil {
		return nil
	}
	return m.subscriber.Start()
}
