package service

import (
	"context"
	"fmt"

	gateway "mediq/internal/gateway/core"
	"mediq/internal/gateway/flows"
	"mediq/pkg/client"
	"mediq/pkg/logger"
)

type GatewayService struct {
	client *client.Client
	Logger *logger.Logger
}

func NewGatewayService(client *client.Client, logger *logger.Logger) *GatewayService {
	return &GatewayService{
		client: client,
		Logger: logger,
	}
}

type FlowHandler func(ctx *gateway.GatewayContext) error

var flowRegistry = map[string]FlowHandler{
	"onboard_doctor":       flows.OnboardDoctor,
	"book_first_available": flows.BookFirstAvailable,
	"doctor_day_overview":  flows.DoctorDayOverview,
	"patient_agenda":       flows.PatientAgenda,
}

func (s *GatewayService) ExecuteFlow(ctx context.Context, flowName string, input map[string]any, headers map[string]string) (map[string]any, error) {
	handler, exists := flowRegistry[flowName]
	if !exists {
		return nil, fmt.Errorf("unknown flow: %s", flowName)
	}
	flowCtx := gateway.NewGatewayContext(ctx, input, headers, s.client, s.Logger)
	err := handler(flowCtx)
	if err != nil {
		return nil, fmt.Errorf("flow execution failed: %v", err)
	}
	return flowCtx.Output, nil
}

func (s *GatewayService) GetAvailableFlows() []string {
	flows := make([]string, 0, len(flowRegistry))
	for flowName := range flowRegistry {
		flows = append(flows, flowName)
	}
	return flows
}
