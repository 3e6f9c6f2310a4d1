package update_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	switch req.Action {
	case ActionAssign:
		if req.ConsultantID == nil || *req.ConsultantID <= 0 {
			return fmt.Errorf("%w: consultantId is required", ErrInvalidInput)
		}
	case ActionComplete:
		if req.Note == nil || strings.TrimSpace(*req.Note) == "" {
			return fmt.Errorf("%w: note is required", ErrInvalidInput)
		}
		if len([]rune(*req.Note)) > domain.MaxNoteLength {
			return fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
		}
	case ActionCancel:
		if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancelReasonLength {
			return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
		}
	case ActionReschedule:
		if req.Date.IsZero() {
			return fmt.Errorf("%w: date is required", ErrInvalidInput)
		}
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
		}
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime: %w", ErrInvalidInput, err)
		}
		if !req.StartTime.IsBefore(req.EndTime) {
			return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно бронирования
func validateDate(date time.Time, now time.Time, window domain.BookingWindow) error {
	if date.Before(window.Today(now)) {
		return ErrInvalidDate
	}

	if last, ok := window.LastDay(now); ok && date.After(last) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, window.MaxAdvanceDays)
	}

	return nil
}

// checkOwner пустой lineUserID означает действие персонала
func checkOwner(booking *domain.Booking, lineUserID string) error {
	if lineUserID == "" {
		return nil
	}
	if booking.User == nil || booking.User.ExternalID != lineUserID {
		return ErrAccessDenied
	}
	return nil
}

// checkTransition проверяет конечный автомат статусов
func checkTransition(booking *domain.Booking, next domain.BookingStatus) error {
	if !booking.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}
	return nil
}
