package slots

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	slotCache "github.com/m04kA/counseling-booking-service/internal/infra/cache/slots"
)

// WorkingHoursRepository источник недельного расписания
type WorkingHoursRepository interface {
	GetByDayOfWeek(ctx context.Context, dayOfWeek int) (*domain.WorkingHoursRule, error)
}

// DayOverrideRepository источник переопределений дня
type DayOverrideRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DayOverride, error)
}

// SlotOverrideRepository источник переопределений слотов
type SlotOverrideRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.SlotOverride, error)
}

// BookingCounter живая занятость слотов
type BookingCounter interface {
	CountsByDate(ctx context.Context, date time.Time) (map[string]int, error)
}

// Cache материализация шаблонов дня
type Cache interface {
	Get(ctx context.Context, date time.Time) (*slotCache.Entry, slotCache.Key, error)
	PutIfAbsent(ctx context.Context, key slotCache.Key, entry *slotCache.Entry) (bool, error)
	Invalidate(ctx context.Context) error
	ClearDate(ctx context.Context, date time.Time) error
}

// Metrics счётчики обращений к кэшу
type Metrics interface {
	IncSlotCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
