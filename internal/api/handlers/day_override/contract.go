package day_override

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetDayOverride(ctx context.Context, date time.Time) (*models.DayOverrideResponse, error)
	SetDayOverride(ctx context.Context, date time.Time, req *models.SetDayOverrideRequest) (*models.DayOverrideResponse, error)
	ClearDayOverride(ctx context.Context, date time.Time) error
	SetDayStatus(ctx context.Context, date time.Time, req *models.SetDayStatusRequest) (*models.DayStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
