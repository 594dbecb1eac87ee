package main

import (
	"mediq/internal/appointments/handler"
	"mediq/internal/appointments/repository"
	"mediq/internal/appointments/service"
	"mediq/internal/appointments/validator"
	"mediq/pkg/app"
	"mediq/pkg/config"
	"mediq/pkg/kafka"
)

const ServiceName = "appointments"

// @title Mediq Appointments API
// @version 1.0
// @description API documentation for the Appointments microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Appointments service")

	events := kafka.NewPublisher(cfg.KafkaBrokers, ServiceName, cfg.Log)
	defer events.Close()

	appointmentService := initServices(cfg, events)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAppointmentHandler(appointmentService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, events *kafka.Publisher) service.AppointmentService {
	appointmentValidator := validator.NewAppointmentValidator(cfg.Log)
	appointmentRepo := repository.NewMongoAppointmentRepository(cfg)
	appointmentService := service.NewAppointmentService(
		appointmentRepo,
		appointmentValidator,
		cfg,
		events,
	)

	cfg.Log.Info("Appointments service initialized", "database", cfg.MongoDatabaseName)
	return appointmentService
}
