package consultants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	consultantRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/consultant"
	"github.com/m04kA/counseling-booking-service/internal/service/consultants/models"
)

const maxNameLength = 200

// Service сервис консультантов
type Service struct {
	repo   ConsultantRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса консультантов
func NewService(repo ConsultantRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List возвращает консультантов; по умолчанию только активных
func (s *Service) List(ctx context.Context, activeOnly bool) (*models.ConsultantListResponse, error) {
	list, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.ConsultantListResponse{Consultants: make([]models.ConsultantResponse, 0, len(list))}
	for _, c := range list {
		resp.Consultants = append(resp.Consultants, models.FromDomainConsultant(c))
	}
	return resp, nil
}

// Create создает активного консультанта
func (s *Service) Create(ctx context.Context, req *models.CreateConsultantRequest) (*models.ConsultantResponse, error) {
	s.logger.Info("Create: creating consultant name=%s", req.Name)

	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Consultant{
		Name:      name,
		Email:     req.Email,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		Specialty: req.Specialty,
		IsActive:  true,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created consultant id=%d", created.ID)
	resp := models.FromDomainConsultant(created)
	return &resp, nil
}

// Update частично обновляет консультанта
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateConsultantRequest) (*models.ConsultantResponse, error) {
	s.logger.Info("Update: updating consultant id=%d", id)

	consultant, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(consultant)
	consultant.Name = strings.TrimSpace(consultant.Name)
	if err := validateName(consultant.Name); err != nil {
		return nil, err
	}

	if err := s.save(ctx, "Update", consultant); err != nil {
		return nil, err
	}

	resp := models.FromDomainConsultant(consultant)
	return &resp, nil
}

// Deactivate снимает консультанта с работы; назначенные бронирования не меняются
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	s.logger.Info("Deactivate: deactivating consultant id=%d", id)

	consultant, err := s.get(ctx, "Deactivate", id)
	if err != nil {
		return err
	}

	consultant.IsActive = false
	return s.save(ctx, "Deactivate", consultant)
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Consultant, error) {
	consultant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			s.logger.Warn("%s: consultant id=%d not found", op, id)
			return nil, ErrConsultantNotFound
		}
		s.logger.Error("%s: repository error for consultant id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return consultant, nil
}

func (s *Service) save(ctx context.Context, op string, c *domain.Consultant) error {
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			return ErrConsultantNotFound
		}
		s.logger.Error("%s: repository error for consultant id=%d: %v", op, c.ID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > maxNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}
