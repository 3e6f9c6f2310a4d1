package domain

import (
	"time"

	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// ScheduleDefaults значения, используемые, когда переопределение дня открывает
// день недели без активного правила
type ScheduleDefaults struct {
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
	Capacity            int
}

// DefaultScheduleDefaults значения по умолчанию для будних дней
func DefaultScheduleDefaults() ScheduleDefaults {
	return ScheduleDefaults{
		OpenTime:            DefaultOpenTime,
		CloseTime:           DefaultCloseTime,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		Capacity:            DefaultCapacity,
	}
}

// BookingWindow окно дат, доступных для бронирования.
// "Сегодня" считается в часовом поясе клиники.
type BookingWindow struct {
	Location       *time.Location
	MaxAdvanceDays int // 0 = без ограничения
}

// Today нормализованная дата "сегодня" в часовом поясе клиники
func (w BookingWindow) Today(now time.Time) time.Time {
	if w.Location != nil {
		now = now.In(w.Location)
	}
	return types.NormalizeDate(now)
}

// LastDay последняя доступная дата; ok=false, если ограничения нет
func (w BookingWindow) LastDay(now time.Time) (time.Time, bool) {
	if w.MaxAdvanceDays <= 0 {
		return time.Time{}, false
	}
	return w.Today(now).AddDate(0, 0, w.MaxAdvanceDays), true
}

// Contains проверяет, что дата не в прошлом и не дальше MaxAdvanceDays
func (w BookingWindow) Contains(date, now time.Time) bool {
	date = types.NormalizeDate(date)
	if date.Before(w.Today(now)) {
		return false
	}
	if last, ok := w.LastDay(now); ok && date.After(last) {
		return false
	}
	return true
}
