package update_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	updateBooking "github.com/m04kA/counseling-booking-service/internal/usecase/update_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBookingNotFound    = "бронирование не найдено"
	msgAccessDenied       = "нет доступа к бронированию"
	msgInvalidTransition  = "действие недопустимо для текущего статуса бронирования"
	msgConsultantNotFound = "консультант не найден"
	msgConsultantInactive = "консультант деактивирован"
	msgDayClosed          = "клиника закрыта в выбранную дату"
	msgSlotFull           = "в выбранном слоте нет свободных мест"
	msgSlotNotFound       = "такого слота нет в расписании"
	msgInvalidBookingDate = "нельзя перенести на прошедшую дату"
	msgDateTooFar         = "дата слишком далеко в будущем"
	msgInvalidData        = "некорректные данные запроса"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleCancel DELETE /api/v1/bookings/{bookingId}
// Тело {"reason": "..."} опционально
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /bookings/{id}"

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.execute(w, r, route, req.ToUseCaseRequest(bookingID, userID))
}

// HandleReschedule PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) HandleReschedule(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /bookings/{id}/reschedule"

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("%s - Failed to parse date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	h.execute(w, r, route, useCaseReq)
}

// HandleAdmin PATCH /api/v1/admin/bookings/{bookingId}
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /admin/bookings/{id}"

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AdminUpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("%s - Failed to parse date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	h.logger.Info("%s - action=%s, booking_id=%d, staff=%s",
		route, req.Action, bookingID, middleware.GetUserName(r.Context()))
	h.execute(w, r, route, useCaseReq)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *updateBooking.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, route, req, err)
		return
	}

	h.logger.Info("%s - Booking updated successfully: booking_id=%d, action=%s, status=%s",
		route, result.Booking.ID, req.Action, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, req *updateBooking.Request, err error) {
	switch {
	case errors.Is(err, updateBooking.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%d", route, req.BookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, updateBooking.ErrConsultantNotFound):
		h.logger.Warn("%s - Consultant not found: booking_id=%d", route, req.BookingID)
		handlers.RespondNotFound(w, msgConsultantNotFound)

	case errors.Is(err, updateBooking.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%s, action=%s",
			route, req.BookingID, req.LineUserID, req.Action)
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, updateBooking.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: booking_id=%d, action=%s", route, req.BookingID, req.Action)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, updateBooking.ErrConsultantInactive):
		h.logger.Warn("%s - Consultant inactive: booking_id=%d", route, req.BookingID)
		handlers.RespondConflict(w, msgConsultantInactive)

	case errors.Is(err, updateBooking.ErrDayClosed):
		h.logger.Warn("%s - Day closed: booking_id=%d", route, req.BookingID)
		handlers.RespondConflict(w, msgDayClosed)

	case errors.Is(err, updateBooking.ErrSlotFull):
		h.logger.Warn("%s - Slot full: booking_id=%d, time=%s-%s", route, req.BookingID, req.StartTime, req.EndTime)
		handlers.RespondConflict(w, msgSlotFull)

	case errors.Is(err, updateBooking.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: booking_id=%d, time=%s-%s", route, req.BookingID, req.StartTime, req.EndTime)
		handlers.RespondBadRequest(w, msgSlotNotFound)

	case errors.Is(err, updateBooking.ErrInvalidDate):
		h.logger.Warn("%s - Date in the past: booking_id=%d", route, req.BookingID)
		handlers.RespondBadRequest(w, msgInvalidBookingDate)

	case errors.Is(err, updateBooking.ErrDateTooFarInFuture):
		h.logger.Warn("%s - Date too far in future: booking_id=%d", route, req.BookingID)
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, updateBooking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: booking_id=%d, error=%v", route, req.BookingID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed to update booking: booking_id=%d, error=%v", route, req.BookingID, err)
		handlers.RespondInternalError(w)
	}
}
