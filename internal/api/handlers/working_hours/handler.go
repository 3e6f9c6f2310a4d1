package working_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRules       = "некорректные правила рабочего времени"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/admin/schedule/working-hours
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListWorkingHours(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/schedule/working-hours - Failed to list working hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandlePut PUT /api/v1/admin/schedule/working-hours
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateWorkingHours(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/schedule/working-hours - Invalid rules: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRules)
			return
		}
		h.logger.Error("PUT /admin/schedule/working-hours - Failed to update working hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/schedule/working-hours - Working hours updated: rules=%d", len(req.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
