package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	createBooking "github.com/m04kA/counseling-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgActiveExists       = "у пользователя уже есть активное бронирование"
	msgDayClosed          = "клиника закрыта в выбранную дату"
	msgSlotFull           = "в выбранном слоте нет свободных мест"
	msgSlotNotFound       = "такого слота нет в расписании"
	msgInvalidBookingDate = "нельзя забронировать прошедшую дату"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidData        = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, middleware.GetUserName(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrActiveBookingExists):
			h.logger.Warn("POST /bookings - Active booking exists: user_id=%s", userID)
			handlers.RespondConflict(w, msgActiveExists)

		case errors.Is(err, createBooking.ErrDayClosed):
			h.logger.Warn("POST /bookings - Day closed: user_id=%s, date=%s", userID, req.Date)
			handlers.RespondConflict(w, msgDayClosed)

		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: user_id=%s, date=%s, time=%s-%s",
				userID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: date=%s, time=%s-%s", req.Date, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in the past: user_id=%s, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: user_id=%s, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid data: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%s",
		result.Booking.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
