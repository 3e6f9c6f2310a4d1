package get_slots

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/service/slots"
)

// SlotGenerator генератор слотов дня
type SlotGenerator interface {
	Generate(ctx context.Context, date time.Time) (*slots.DaySlots, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
