package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/booking"
	userRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/user"
	"github.com/m04kA/counseling-booking-service/internal/service/bookings/models"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь может видеть только своё бронирование.
func (s *Service) GetByID(ctx context.Context, id int64, lineUserID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%s", id, lineUserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.User == nil || booking.User.ExternalID != lineUserID {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%d", lineUserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetActive возвращает активное бронирование пользователя или nil
func (s *Service) GetActive(ctx context.Context, lineUserID string) (*models.ActiveBookingResponse, error) {
	user, err := s.findUser(ctx, "GetActive", lineUserID)
	if err != nil || user == nil {
		return &models.ActiveBookingResponse{}, err
	}

	booking, err := s.bookingRepo.GetActiveByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return &models.ActiveBookingResponse{}, nil
		}
		s.logger.Error("GetActive: repository error for user=%s: %v", lineUserID, err)
		return nil, fmt.Errorf("%w: GetActive - repository error: %v", ErrInternal, err)
	}

	return &models.ActiveBookingResponse{Booking: models.FromDomainBooking(booking)}, nil
}

// GetUserBookings история бронирований пользователя, опционально по статусу
func (s *Service) GetUserBookings(ctx context.Context, lineUserID string, status *string) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", lineUserID, status)

	filter := domain.BookingsFilter{}
	if status != nil {
		domainStatus, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *status, lineUserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &domainStatus
	}

	user, err := s.findUser(ctx, "GetUserBookings", lineUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return models.FromDomainBookingList(nil), nil
	}
	filter.UserID = &user.ID

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", lineUserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), lineUserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings список бронирований для персонала.
// Фильтры комбинируются; результат упорядочен по дате и времени начала.
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := "ListBookings: fetching bookings"
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", types.FormatDate(*req.Date))
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", types.FormatDate(*req.StartDate), types.FormatDate(*req.EndDate))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.ConsultantID != nil {
		logMsg += fmt.Sprintf(", consultant=%d", *req.ConsultantID)
	}
	s.logger.Info(logMsg)

	if (req.StartDate == nil) != (req.EndDate == nil) {
		return nil, fmt.Errorf("%w: startDate and endDate must be set together", ErrInvalidInput)
	}
	if req.StartDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, fmt.Errorf("%w: startDate is after endDate", ErrInvalidInput)
	}

	filter := domain.BookingsFilter{
		Date:         req.Date,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ConsultantID: req.ConsultantID,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	if req.LineUserID != nil {
		user, err := s.findUser(ctx, "ListBookings", *req.LineUserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return models.FromDomainBookingList(nil), nil
		}
		filter.UserID = &user.ID
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// findUser возвращает nil без ошибки, если пользователь ещё не бронировал
func (s *Service) findUser(ctx context.Context, op, lineUserID string) (*domain.User, error) {
	user, err := s.userRepo.GetByExternalID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, nil
		}
		s.logger.Error("%s: failed to get user=%s: %v", op, lineUserID, err)
		return nil, fmt.Errorf("%w: %s - user repository error: %v", ErrInternal, op, err)
	}
	return user, nil
}
