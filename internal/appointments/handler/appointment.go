package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mediq/internal/appointments/service"
	apperrors "mediq/pkg/errors"
	httputil "mediq/pkg/http"
	"mediq/pkg/logger"
	"mediq/pkg/middleware"
	"mediq/pkg/model"
)

type AppointmentHandler struct {
	service service.AppointmentService
	log     *logger.Logger
}

func NewAppointmentHandler(service service.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "Book", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	var req model.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Book", apperrors.InvalidInput("Invalid request body"))
		return
	}

	appt, err := h.service.Book(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, appt); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "error", err)
	}
}

func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "GetByID", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	appt, err := h.service.GetByID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, appt); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *AppointmentHandler) GetByPatient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "GetByPatient", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetByPatient", err)
		return
	}

	appointments, totalCount, err := h.service.GetByPatient(r.Context(), actor, ps.ByName("patientId"), limit, offset)
	if err != nil {
		h.writeError(w, "GetByPatient", err)
		return
	}

	if err := httputil.WritePaginated(w, appointments, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByPatient", "error", err)
	}
}

func (h *AppointmentHandler) GetByDoctor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "GetByDoctor", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetByDoctor", err)
		return
	}

	appointments, totalCount, err := h.service.GetByDoctor(r.Context(), actor, ps.ByName("doctorId"), limit, offset)
	if err != nil {
		h.writeError(w, "GetByDoctor", err)
		return
	}

	if err := httputil.WritePaginated(w, appointments, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByDoctor", "error", err)
	}
}

func (h *AppointmentHandler) Move(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "Move", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	var req model.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Move", apperrors.InvalidInput("Invalid request body"))
		return
	}

	appt, err := h.service.Move(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Move", err)
		return
	}

	if err := httputil.WriteSuccess(w, appt); err != nil {
		h.log.Error("failed to write success response", "handler", "Move", "error", err)
	}
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Identity headers are required"))
		return
	}

	if err := h.service.Cancel(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AppointmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/appointments", h.Book)
	router.GET("/api/v1/appointments/id/:id", h.GetByID)
	router.PATCH("/api/v1/appointments/id/:id/slot", h.Move)
	router.DELETE("/api/v1/appointments/id/:id", h.Cancel)
	router.GET("/api/v1/appointments/patient/:patientId", h.GetByPatient)
	router.GET("/api/v1/appointments/doctor/:doctorId", h.GetByDoctor)
}
