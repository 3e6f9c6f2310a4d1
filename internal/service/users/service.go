package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	userRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/user"
	"github.com/m04kA/counseling-booking-service/internal/service/users/models"
)

const (
	maxNameLength   = 200
	maxFieldLength  = 100
	maxPhoneLength  = 32
	maxPictureBytes = 2048
)

// Service сервис профилей клиентов
type Service struct {
	repo   UserRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(repo UserRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetProfile возвращает профиль клиента по LINE user id
func (s *Service) GetProfile(ctx context.Context, lineUserID string) (*models.ProfileResponse, error) {
	user, err := s.repo.GetByExternalID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetProfile: repository error for user=%s: %v", lineUserID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainUser(user), nil
}

// UpdateProfile сохраняет контактные данные клиента; пользователь создается при первом обращении.
// Поля обрезаются по краям, пустая строка не меняет сохранённое значение.
func (s *Service) UpdateProfile(ctx context.Context, lineUserID string, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("UpdateProfile: updating profile for user=%s", lineUserID)

	profile := req.ToDomain()
	profile.Name = normalize(profile.Name)
	profile.PictureURL = normalize(profile.PictureURL)
	profile.StudentID = normalize(profile.StudentID)
	profile.Faculty = normalize(profile.Faculty)
	profile.Phone = normalize(profile.Phone)
	profile.Email = normalize(profile.Email)

	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	user, err := s.repo.UpsertProfile(ctx, lineUserID, profile)
	if err != nil {
		s.logger.Error("UpdateProfile: repository error for user=%s: %v", lineUserID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateProfile: profile saved for user=%s, id=%d", lineUserID, user.ID)
	return models.FromDomainUser(user), nil
}

func normalize(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateProfile(p *domain.UserProfile) error {
	if err := validateLength("name", p.Name, maxNameLength); err != nil {
		return err
	}
	if err := validateLength("studentId", p.StudentID, maxFieldLength); err != nil {
		return err
	}
	if err := validateLength("faculty", p.Faculty, maxFieldLength); err != nil {
		return err
	}
	if err := validateLength("phone", p.Phone, maxPhoneLength); err != nil {
		return err
	}
	if p.PictureURL != nil {
		if len(*p.PictureURL) > maxPictureBytes || !strings.HasPrefix(*p.PictureURL, "https://") {
			return fmt.Errorf("%w: pictureUrl must be an https URL", ErrInvalidInput)
		}
	}
	if p.Email != nil {
		if err := validateLength("email", p.Email, maxFieldLength); err != nil {
			return err
		}
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return fmt.Errorf("%w: email is malformed", ErrInvalidInput)
		}
	}
	return nil
}

func validateLength(field string, value *string, limit int) error {
	if value != nil && utf8.RuneCountInString(*value) > limit {
		return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidInput, field, limit)
	}
	return nil
}
