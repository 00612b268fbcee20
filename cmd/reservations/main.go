package main

import (
	"hackslot/internal/registry"
	"hackslot/internal/reservations/handler"
	"hackslot/internal/reservations/repository"
	"hackslot/internal/reservations/service"
	"hackslot/internal/reservations/validator"
	"hackslot/pkg/app"
	"hackslot/pkg/config"
	"hackslot/pkg/kafka"
	kafkaconfig "hackslot/pkg/kafka/config"
)

const ServiceName = "reservations"

// @title Hackslot Reservations API
// @version 1.0
// @description API documentation for the Reservations service.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")
	reservationService, producer := initServices(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.ReservationService, *kafka.Producer) {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewSlotLockRepository(cfg)
	auditStore := repository.NewMongoAuditStore(cfg)

	hackathons := registry.NewHackathonProvider(cfg)
	locations := registry.NewLocationProvider(cfg)
	teams := registry.NewTeamProvider(cfg)
	roles := registry.NewRoleProvider(cfg)

	var publisher service.AuditPublisher
	var producer *kafka.Producer
	if cfg.AuditPublishOn && len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(
			kafkaconfig.NewProducerConfig(cfg.KafkaBrokers),
			cfg.AuditTopic,
			cfg.AuditDLQTopic,
		)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize audit producer", "error", err)
		}
		producer = p
		publisher = p
		cfg.Log.Info("Audit event publishing enabled", "topic", cfg.AuditTopic)
	} else {
		cfg.Log.Info("Audit event publishing disabled; audit records persist to Mongo only")
	}

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		auditStore,
		hackathons,
		locations,
		teams,
		roles,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservations service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, producer
}
