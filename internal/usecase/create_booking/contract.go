package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveByUserID активное (CONFIRMED/ASSIGNED) бронирование пользователя
	GetActiveByUserID(ctx context.Context, userID int64) (*domain.Booking, error)
	// LockSlot блокирует слот до конца транзакции
	LockSlot(ctx context.Context, key domain.SlotKey) error
	// CountBySlot количество неотменённых бронирований слота
	CountBySlot(ctx context.Context, key domain.SlotKey) (int, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	UpsertByExternalID(ctx context.Context, externalID, name string) (*domain.User, error)
}

// SlotResolver вычисляет эффективный слот по текущему расписанию (без кэша)
type SlotResolver interface {
	ResolveSlot(ctx context.Context, key domain.SlotKey) (*domain.SlotTemplate, domain.DayStatus, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
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
