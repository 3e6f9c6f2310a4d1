package get_active_booking

import (
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/active
// Без активного бронирования отвечает {"booking": null}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/active - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetActive(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /bookings/active - Failed to get active booking: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/active - user_id=%s, has_active=%t", userID, result.Booking != nil)
	handlers.RespondJSON(w, http.StatusOK, result)
}
