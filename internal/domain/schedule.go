package domain

import (
	"time"

	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// WorkingHoursRule recurring weekday schedule (0 = Sunday .. 6 = Saturday)
type WorkingHoursRule struct {
	ID                  int64
	DayOfWeek           int
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
	DefaultCapacity     int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DayOverride exception for one calendar date
type DayOverride struct {
	ID        int64
	Date      time.Time
	IsClosed  bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
	Capacity  *int
	Reason    *string
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCustomHours returns true if the override carries any field besides isClosed
func (o *DayOverride) HasCustomHours() bool {
	return o.OpenTime != nil || o.CloseTime != nil || o.Capacity != nil
}

// SlotOverride exception for one slot on one date; unique on (date, start, end)
type SlotOverride struct {
	ID          int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	Capacity    *int
	Reason      *string
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key returns the slot the override targets
func (o *SlotOverride) Key() SlotKey {
	return SlotKey{Date: o.Date, StartTime: o.StartTime, EndTime: o.EndTime}
}
