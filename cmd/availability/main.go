package main

import (
	"mediq/internal/availability/handler"
	"mediq/internal/availability/repository"
	"mediq/internal/availability/service"
	"mediq/internal/availability/validator"
	"mediq/pkg/app"
	"mediq/pkg/config"
	"mediq/pkg/kafka"
)

const ServiceName = "availability"

// @title Mediq Availability API
// @version 1.0
// @description API documentation for the Availability microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")

	events := kafka.NewPublisher(cfg.KafkaBrokers, ServiceName, cfg.Log)
	defer events.Close()

	availabilityService := initServices(cfg, events)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, events *kafka.Publisher) service.AvailabilityService {
	availabilityValidator := validator.NewAvailabilityValidator(cfg.Log)
	availabilityRepo := repository.NewMongoAvailabilityRepository(cfg)
	availabilityService := service.NewAvailabilityService(
		availabilityRepo,
		availabilityValidator,
		cfg,
		events,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
