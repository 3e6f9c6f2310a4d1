package consultants

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/service/consultants/models"
)

type ConsultantService interface {
	List(ctx context.Context, activeOnly bool) (*models.ConsultantListResponse, error)
	Create(ctx context.Context, req *models.CreateConsultantRequest) (*models.ConsultantResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateConsultantRequest) (*models.ConsultantResponse, error)
	Deactivate(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
