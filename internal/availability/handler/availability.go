package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mediq/internal/availability/service"
	apperrors "mediq/pkg/errors"
	httputil "mediq/pkg/http"
	"mediq/pkg/logger"
	"mediq/pkg/middleware"
	"mediq/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	var av model.Availability
	if err := json.NewDecoder(r.Body).Decode(&av); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), actor, &av); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, av); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *AvailabilityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	av, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, av); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *AvailabilityHandler) GetByDoctor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetByDoctor", err)
		return
	}

	avs, totalCount, err := h.service.GetByDoctor(r.Context(), ps.ByName("doctorId"), limit, offset)
	if err != nil {
		h.writeError(w, "GetByDoctor", err)
		return
	}

	if err := httputil.WritePaginated(w, avs, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByDoctor", "error", err)
	}
}

func (h *AvailabilityHandler) GetDoctorSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slots, err := h.service.GetDoctorSlots(r.Context(), ps.ByName("doctorId"), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, "GetDoctorSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDoctorSlots", "error", err)
	}
}

func (h *AvailabilityHandler) Reshape(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "Reshape", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	var req model.ReshapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Reshape", apperrors.InvalidInput("Invalid request body"))
		return
	}

	es, err := h.service.Reshape(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Reshape", err)
		return
	}

	if err := httputil.WriteSuccess(w, es); err != nil {
		h.log.Error("failed to write success response", "handler", "Reshape", "error", err)
	}
}

func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "DeleteSlot", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	if err := h.service.DeleteSlot(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteSlot", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availabilities", h.Create)
	router.GET("/api/v1/availabilities/id/:id", h.GetByID)
	router.PATCH("/api/v1/availabilities/id/:id/reshape", h.Reshape)
	router.GET("/api/v1/availabilities/doctor/:doctorId", h.GetByDoctor)
	router.GET("/api/v1/availabilities/doctor/:doctorId/slots", h.GetDoctorSlots)
	router.DELETE("/api/v1/slots/id/:id", h.DeleteSlot)
}
