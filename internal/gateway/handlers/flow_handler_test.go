package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediq/internal/gateway/service"
	"mediq/pkg/logger"
)

func newTestHandler() *FlowHandler {
	log := logger.New(logger.Config{Level: logger.ERROR, Service: "gateway-test"})
	return NewFlowHandler(service.NewGatewayService(nil, log), log)
}

func TestListFlows(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gateway/flows", nil)
	rec := httptest.NewRecorder()
	h.ListFlows(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListFlowsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Flows) == 0 {
		t.Error("expected at least one registered flow")
	}
}

func TestExecuteFlowRejectsUnknownFlow(t *testing.T) {
	h := newTestHandler()

	body := strings.NewReader(`{"flow":"does_not_exist","input":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gateway/execute", body)
	rec := httptest.NewRecorder()
	h.ExecuteFlow(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp ExecuteFlowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if !strings.Contains(resp.Error, "unknown flow") {
		t.Errorf("error %q does not mention unknown flow", resp.Error)
	}
}

func TestExecuteFlowRejectsMissingName(t *testing.T) {
	h := newTestHandler()

	body := strings.NewReader(`{"input":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gateway/execute", body)
	rec := httptest.NewRecorder()
	h.ExecuteFlow(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExecuteFlowRejectsGet(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gateway/execute", nil)
	rec := httptest.NewRecorder()
	h.ExecuteFlow(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
