package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// SlotKey identifies a slot: (date, startTime, endTime)
type SlotKey struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ID строковый идентификатор слота вида "2024-01-01-08:00-09:00"
func (k SlotKey) ID() string {
	return fmt.Sprintf("%s-%s-%s", types.FormatDate(k.Date), k.StartTime, k.EndTime)
}

// TimeRange ключ "08:00-09:00" для подсчёта занятости внутри одного дня
func (k SlotKey) TimeRange() string {
	return TimeRange(k.StartTime, k.EndTime)
}

// TimeRange ключ интервала внутри дня
func TimeRange(start, end types.TimeString) string {
	return string(start) + "-" + string(end)
}

// SlotTemplate slot definition before occupancy is applied
type SlotTemplate struct {
	StartTime    types.TimeString `json:"startTime"`
	EndTime      types.TimeString `json:"endTime"`
	Capacity     int              `json:"capacity"`
	IsOverridden bool             `json:"isOverridden"`
	IsCustom     bool             `json:"isCustom"`
}

// Slot bookable interval with live occupancy
type Slot struct {
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	Capacity     int
	BookedCount  int
	IsOverridden bool
	IsCustom     bool
}

// ID identifier of the slot
func (s *Slot) ID() string {
	return SlotKey{Date: s.Date, StartTime: s.StartTime, EndTime: s.EndTime}.ID()
}

// AvailableCount returns max(0, capacity - bookedCount)
func (s *Slot) AvailableCount() int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// IsAvailable returns true if at least one seat is free
func (s *Slot) IsAvailable() bool {
	return s.AvailableCount() > 0
}

// DayStatus explains why a day has (or has no) slots
type DayStatus string

const (
	DayOpen             DayStatus = "OPEN"
	DayOpenNoSlots      DayStatus = "OPEN_NO_SLOTS"
	DayClosedByOverride DayStatus = "CLOSED_BY_OVERRIDE"
	DayNotConfigured    DayStatus = "NOT_CONFIGURED"
)
