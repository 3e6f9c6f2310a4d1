package get_active_booking

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetActive(ctx context.Context, lineUserID string) (*models.ActiveBookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
