package api

import (
	"net/http"

	"mediq/internal/gateway/handlers"
	"mediq/internal/gateway/service"
	"mediq/pkg/client"
	"mediq/pkg/logger"
)

func SetupRouter(client *client.Client, log *logger.Logger) *http.ServeMux {
	gatewayService := service.NewGatewayService(client, log)
	flowHandler := handlers.NewFlowHandler(gatewayService, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/gateway/execute", flowHandler.ExecuteFlow)
	mux.HandleFunc("/api/v1/gateway/flows", flowHandler.ListFlows)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}
