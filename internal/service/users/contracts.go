package users

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	UpsertProfile(ctx context.Context, externalID string, profile *domain.UserProfile) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
