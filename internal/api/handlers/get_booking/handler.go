package get_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	"github.com/m04kA/counseling-booking-service/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный номер записи на консультацию"
	msgNotFound         = "запись на консультацию не найдена"
	msgMissingUserID    = "не передан LINE ID клиента"
	msgForeignBooking   = "запись на консультацию принадлежит другому клиенту"
)

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

// Handle GET /api/v1/bookings/{bookingId}
// Клиент видит только свои записи; чужая запись отвечает 403
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Request without LINE user")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Bad session number from line_user=%s: %v", lineUserID, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	session, err := h.service.GetByID(r.Context(), bookingID, lineUserID)
	switch {
	case err == nil:
		h.logger.Info("GET /bookings/{id} - Session %d (%s, %s) shown to line_user=%s",
			session.ID, session.SlotID, session.Status, lineUserID)
		handlers.RespondJSON(w, http.StatusOK, session)

	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("GET /bookings/{id} - No session %d", bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("GET /bookings/{id} - line_user=%s asked for session %d of another client", lineUserID, bookingID)
		handlers.RespondForbidden(w, msgForeignBooking)

	default:
		h.logger.Error("GET /bookings/{id} - Session %d lookup failed: %v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}
