package schedule

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// WorkingHoursRepository интерфейс репозитория недельного расписания
type WorkingHoursRepository interface {
	List(ctx context.Context) ([]*domain.WorkingHoursRule, error)
	Upsert(ctx context.Context, rule *domain.WorkingHoursRule) (*domain.WorkingHoursRule, error)
}

// DayOverrideRepository интерфейс репозитория переопределений дня
type DayOverrideRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DayOverride, error)
	Upsert(ctx context.Context, o *domain.DayOverride) (*domain.DayOverride, error)
	DeleteByDate(ctx context.Context, date time.Time) error
}

// SlotOverrideRepository интерфейс репозитория переопределений слотов
type SlotOverrideRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.SlotOverride, error)
	ReplaceForDate(ctx context.Context, date time.Time, overrides []*domain.SlotOverride) ([]*domain.SlotOverride, error)
	Upsert(ctx context.Context, o *domain.SlotOverride) (*domain.SlotOverride, error)
	Delete(ctx context.Context, id int64) (*domain.SlotOverride, error)
}

// SlotsInvalidator сброс материализованных слотов
type SlotsInvalidator interface {
	Invalidate(ctx context.Context) error
	ClearDate(ctx context.Context, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
