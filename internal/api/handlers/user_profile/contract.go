package user_profile

import (
	"context"

	"github.com/m04kA/counseling-booking-service/internal/service/users/models"
)

type UserService interface {
	GetProfile(ctx context.Context, lineUserID string) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, lineUserID string, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
