package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mediq/internal/directory/service"
	apperrors "mediq/pkg/errors"
	httputil "mediq/pkg/http"
	"mediq/pkg/logger"
	"mediq/pkg/model"
)

type DirectoryHandler struct {
	service service.DirectoryService
	log     *logger.Logger
}

func NewDirectoryHandler(service service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		log:     log,
	}
}

func (h *DirectoryHandler) CreateDoctor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var d model.Doctor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		h.writeError(w, "CreateDoctor", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreateDoctor(r.Context(), &d); err != nil {
		h.writeError(w, "CreateDoctor", err)
		return
	}

	if err := httputil.WriteCreated(w, d); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateDoctor", "error", err)
	}
}

func (h *DirectoryHandler) GetDoctor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d, err := h.service.GetDoctor(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetDoctor", err)
		return
	}

	if err := httputil.WriteSuccess(w, d); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDoctor", "error", err)
	}
}

func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListDoctors", err)
		return
	}

	doctors, totalCount, err := h.service.ListDoctors(r.Context(), r.URL.Query().Get("specialization"), limit, offset)
	if err != nil {
		h.writeError(w, "ListDoctors", err)
		return
	}

	if err := httputil.WritePaginated(w, doctors, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListDoctors", "error", err)
	}
}

func (h *DirectoryHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.DoctorUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "UpdateDoctor", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdateDoctor(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateDoctor", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DirectoryHandler) CreatePatient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p model.Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, "CreatePatient", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreatePatient(r.Context(), &p); err != nil {
		h.writeError(w, "CreatePatient", err)
		return
	}

	if err := httputil.WriteCreated(w, p); err != nil {
		h.log.Error("failed to write created response", "handler", "CreatePatient", "error", err)
	}
}

func (h *DirectoryHandler) GetPatient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.service.GetPatient(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetPatient", err)
		return
	}

	if err := httputil.WriteSuccess(w, p); err != nil {
		h.log.Error("failed to write success response", "handler", "GetPatient", "error", err)
	}
}

func (h *DirectoryHandler) UpdatePatient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PatientUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "UpdatePatient", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdatePatient(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdatePatient", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DirectoryHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *DirectoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/doctors", h.CreateDoctor)
	router.GET("/api/v1/doctors", h.ListDoctors)
	router.GET("/api/v1/doctors/id/:id", h.GetDoctor)
	router.PATCH("/api/v1/doctors/id/:id", h.UpdateDoctor)

	router.POST("/api/v1/patients", h.CreatePatient)
	router.GET("/api/v1/patients/id/:id", h.GetPatient)
	router.PATCH("/api/v1/patients/id/:id", h.UpdatePatient)
}
