package slot_overrides

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	ListSlotOverrides(ctx context.Context, date time.Time) (*models.SlotOverrideListResponse, error)
	ReplaceSlotOverrides(ctx context.Context, date time.Time, req *models.ReplaceSlotOverridesRequest) (*models.SlotOverrideListResponse, error)
	UpsertSlotOverride(ctx context.Context, req *models.SlotOverrideRequest) (*models.SlotOverrideResponse, error)
	DeleteSlotOverride(ctx context.Context, id int64) error
	ClearMaterializedSlots(ctx context.Context, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
