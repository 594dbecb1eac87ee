package main

import (
	"mediq/internal/directory/handler"
	"mediq/internal/directory/repository"
	"mediq/internal/directory/service"
	"mediq/internal/directory/validator"
	"mediq/pkg/app"
	"mediq/pkg/config"
)

const ServiceName = "directory"

// @title Mediq Directory API
// @version 1.0
// @description API documentation for the Directory microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Directory service")
	directoryService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewDirectoryHandler(directoryService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.DirectoryService {
	directoryValidator := validator.NewDirectoryValidator(cfg.Log)
	directoryRepo := repository.NewMongoDirectoryRepository(cfg)
	directoryService := service.NewDirectoryService(
		directoryRepo,
		directoryValidator,
		cfg,
	)

	cfg.Log.Info("Directory service initialized", "database", cfg.MongoDatabaseName)
	return directoryService
}
