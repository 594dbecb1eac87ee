package main

import (
	"net/http"
	"os"

	"mediq/internal/gateway/api"
	"mediq/pkg/client"
	"mediq/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.JSON,
		Service: "gateway",
	})

	availabilityURL := envOr("AVAILABILITY_BASE_URL", "http://localhost:8081")
	appointmentsURL := envOr("APPOINTMENTS_BASE_URL", "http://localhost:8082")
	directoryURL := envOr("DIRECTORY_BASE_URL", "http://localhost:8083")

	port := envOr("GATEWAY_PORT", "8090")

	apiClient := client.NewClient()
	apiClient.SetAvailabilityClient(availabilityURL)
	apiClient.SetAppointmentClient(appointmentsURL)
	apiClient.SetDirectoryClient(directoryURL)

	router := api.SetupRouter(apiClient, log)

	addr := ":" + port
	log.Info("Starting Gateway API server",
		"address", addr,
		"availability_url", availabilityURL,
		"appointments_url", appointmentsURL,
		"directory_url", directoryURL,
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
