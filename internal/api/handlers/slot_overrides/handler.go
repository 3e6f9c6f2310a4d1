package slot_overrides

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
	msgMissingDate        = "параметр date обязателен"
	msgInvalidOverrideID  = "некорректный ID переопределения"
	msgInvalidOverride    = "некорректное переопределение слота"
	msgOverrideNotFound   = "переопределение слота не найдено"
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

// HandleList GET /api/v1/admin/schedule/days/{date}/slot-overrides
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /admin/schedule/days/{date}/slot-overrides - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ListSlotOverrides(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /admin/schedule/days/{date}/slot-overrides - Failed to list overrides: date=%s, error=%v",
			types.FormatDate(date), err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleReplace PUT /api/v1/admin/schedule/days/{date}/slot-overrides
// Заменяет все переопределения слотов дня
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("PUT /admin/schedule/days/{date}/slot-overrides - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req models.ReplaceSlotOverridesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule/days/{date}/slot-overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CreatedBy = staffName(r)

	result, err := h.service.ReplaceSlotOverrides(r.Context(), date, &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/schedule/days/{date}/slot-overrides - Invalid overrides: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOverride)
			return
		}
		h.logger.Error("PUT /admin/schedule/days/{date}/slot-overrides - Failed to replace overrides: date=%s, error=%v",
			types.FormatDate(date), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/schedule/days/{date}/slot-overrides - Overrides replaced: date=%s, count=%d",
		result.Date, len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpsert PUT /api/v1/admin/schedule/slot-overrides
// Создает или обновляет переопределение по (date, startTime, endTime)
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req models.SlotOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule/slot-overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CreatedBy = staffName(r)

	result, err := h.service.UpsertSlotOverride(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/schedule/slot-overrides - Invalid override: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOverride)
			return
		}
		h.logger.Error("PUT /admin/schedule/slot-overrides - Failed to upsert override: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/schedule/slot-overrides - Override saved: id=%d, date=%s, time=%s-%s",
		result.ID, result.Date, result.StartTime, result.EndTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/admin/schedule/slot-overrides/{overrideId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "overrideId")
	if err != nil {
		h.logger.Warn("DELETE /admin/schedule/slot-overrides/{id} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}

	if err := h.service.DeleteSlotOverride(r.Context(), id); err != nil {
		if errors.Is(err, schedule.ErrSlotOverrideNotFound) {
			handlers.RespondNotFound(w, msgOverrideNotFound)
			return
		}
		h.logger.Error("DELETE /admin/schedule/slot-overrides/{id} - Failed to delete override: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/schedule/slot-overrides/{id} - Override deleted: id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleClearMaterialized DELETE /api/v1/admin/slots?date=YYYY-MM-DD
// Сбрасывает кэш слотов даты, следующий запрос построит их заново
func (h *Handler) HandleClearMaterialized(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("DELETE /admin/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if date == nil {
		h.logger.Warn("DELETE /admin/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	if err := h.service.ClearMaterializedSlots(r.Context(), *date); err != nil {
		h.logger.Error("DELETE /admin/slots - Failed to clear slots: date=%s, error=%v", types.FormatDate(*date), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/slots - Slots cleared: date=%s", types.FormatDate(*date))
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func staffName(r *http.Request) *string {
	if name := middleware.GetUserName(r.Context()); name != "" {
		return &name
	}
	return nil
}
