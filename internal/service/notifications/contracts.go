package notifications

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// LineSender отправка push-сообщений в LINE
type LineSender interface {
	PushText(ctx context.Context, to, text string) error
}

// EventPublisher публикация событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.BookingEvent) error
}

// Metrics счётчики доставки уведомлений
type Metrics interface {
	IncNotification(channel, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
