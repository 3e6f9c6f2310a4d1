package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID внутри транзакции блокирует строку
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	LockSlot(ctx context.Context, key domain.SlotKey) error
	CountBySlot(ctx context.Context, key domain.SlotKey) (int, error)
}

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// SlotResolver вычисляет эффективный слот по текущему расписанию (без кэша)
type SlotResolver interface {
	ResolveSlot(ctx context.Context, key domain.SlotKey) (*domain.SlotTemplate, domain.DayStatus, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier фоновая отправка уведомлений
type Notifier interface {
	Notify(kind domain.EventKind, booking *domain.Booking, previous *domain.SlotKey)
}

// Metrics счётчики операций с бронированиями
type Metrics interface {
	IncBookingOperation(operation, result string)
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
