package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.LineUserID) == "" {
		return fmt.Errorf("%w: lineUserId is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
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

	if req.ProblemType != nil && !domain.IsKnownProblemType(*req.ProblemType) {
		return fmt.Errorf("%w: unknown problemType %q", ErrInvalidInput, *req.ProblemType)
	}

	if req.ProblemDescription != nil && len([]rune(*req.ProblemDescription)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: problemDescription is longer than %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
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
