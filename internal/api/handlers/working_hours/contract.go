package working_hours

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	ListWorkingHours(ctx context.Context) (*models.WorkingHoursListResponse, error)
	UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
