package day_override

import (
	"errors"
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidOverride    = "некорректное переопределение дня"
	msgOverrideNotFound   = "переопределение дня не найдено"
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

// HandleGet GET /api/v1/admin/schedule/days/{date}/override
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /admin/schedule/days/{date}/override - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetDayOverride(r.Context(), date)
	if err != nil {
		if errors.Is(err, schedule.ErrDayOverrideNotFound) {
			handlers.RespondNotFound(w, msgOverrideNotFound)
			return
		}
		h.logger.Error("GET /admin/schedule/days/{date}/override - Failed to get override: date=%s, error=%v",
			types.FormatDate(date), err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandlePut PUT /api/v1/admin/schedule/days/{date}/override
// Открытый день без собственных часов снимает переопределение: ответ 204
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("PUT /admin/schedule/days/{date}/override - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req models.SetDayOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule/days/{date}/override - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CreatedBy = staffName(r)

	result, err := h.service.SetDayOverride(r.Context(), date, &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/schedule/days/{date}/override - Invalid override: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOverride)
			return
		}
		h.logger.Error("PUT /admin/schedule/days/{date}/override - Failed to set override: date=%s, error=%v",
			types.FormatDate(date), err)
		handlers.RespondInternalError(w)
		return
	}

	if result == nil {
		h.logger.Info("PUT /admin/schedule/days/{date}/override - Override cleared: date=%s", types.FormatDate(date))
		handlers.RespondJSON(w, http.StatusNoContent, nil)
		return
	}

	h.logger.Info("PUT /admin/schedule/days/{date}/override - Override saved: date=%s, closed=%t",
		types.FormatDate(date), result.IsClosed)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/admin/schedule/days/{date}/override
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("DELETE /admin/schedule/days/{date}/override - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.ClearDayOverride(r.Context(), date); err != nil {
		if errors.Is(err, schedule.ErrDayOverrideNotFound) {
			handlers.RespondNotFound(w, msgOverrideNotFound)
			return
		}
		h.logger.Error("DELETE /admin/schedule/days/{date}/override - Failed to clear override: date=%s, error=%v",
			types.FormatDate(date), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/schedule/days/{date}/override - Override cleared: date=%s", types.FormatDate(date))
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleSetStatus POST /api/v1/admin/schedule/days/{date}/status
// Body: {"status": "OPEN"|"CLOSED", "reason": "..."}
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("POST /admin/schedule/days/{date}/status - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req models.SetDayStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/schedule/days/{date}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CreatedBy = staffName(r)

	result, err := h.service.SetDayStatus(r.Context(), date, &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("POST /admin/schedule/days/{date}/status - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOverride)
			return
		}
		h.logger.Error("POST /admin/schedule/days/{date}/status - Failed to set status: date=%s, error=%v",
			types.FormatDate(date), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/schedule/days/{date}/status - date=%s, status=%s", result.Date, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func staffName(r *http.Request) *string {
	if name := middleware.GetUserName(r.Context()); name != "" {
		return &name
	}
	return nil
}
