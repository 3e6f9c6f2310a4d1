package consultants

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/service/consultants"
	"github.com/m04kA/counseling-booking-service/internal/service/consultants/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidConsultantID = "некорректный ID консультанта"
	msgInvalidData         = "некорректные данные консультанта"
	msgConsultantNotFound  = "консультант не найден"
)

type Handler struct {
	service ConsultantService
	logger  Logger
}

func NewHandler(service ConsultantService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/consultants
// Только активные консультанты
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "GET /consultants", true)
}

// HandleAdminList GET /api/v1/admin/consultants
// Query params: includeInactive=true
func (h *Handler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("includeInactive"))
	h.list(w, r, "GET /admin/consultants", !includeInactive)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, route string, activeOnly bool) {
	result, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("%s - Failed to list consultants: %v", route, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleCreate POST /api/v1/admin/consultants
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConsultantRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/consultants - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/consultants", 0, err)
		return
	}

	h.logger.Info("POST /admin/consultants - Consultant created: id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleUpdate PUT /api/v1/admin/consultants/{consultantId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		h.logger.Warn("PUT /admin/consultants/{id} - Invalid consultant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	var req models.UpdateConsultantRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/consultants/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "PUT /admin/consultants/{id}", id, err)
		return
	}

	h.logger.Info("PUT /admin/consultants/{id} - Consultant updated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDeactivate DELETE /api/v1/admin/consultants/{consultantId}
// Консультант не удаляется, а деактивируется: история бронирований сохраняется
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "consultantId")
	if err != nil {
		h.logger.Warn("DELETE /admin/consultants/{id} - Invalid consultant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/consultants/{id}", id, err)
		return
	}

	h.logger.Info("DELETE /admin/consultants/{id} - Consultant deactivated: id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, id int64, err error) {
	switch {
	case errors.Is(err, consultants.ErrConsultantNotFound):
		h.logger.Warn("%s - Consultant not found: id=%d", route, id)
		handlers.RespondNotFound(w, msgConsultantNotFound)

	case errors.Is(err, consultants.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: id=%d, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
