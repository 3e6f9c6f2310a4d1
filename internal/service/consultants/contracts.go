package consultants

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*domain.Consultant, error)
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
	Create(ctx context.Context, c *domain.Consultant) (*domain.Consultant, error)
	Update(ctx context.Context, c *domain.Consultant) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
