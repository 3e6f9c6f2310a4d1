package models

import (
	"errors"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest фильтр списка бронирований для персонала.
// Все поля опциональны; startDate и endDate задают период.
type ListBookingsRequest struct {
	Date         *time.Time
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *string
	LineUserID   *string
	ConsultantID *int64
}

// Response модели

// UserResponse данные клиента с контактами для персонала
type UserResponse struct {
	ID         int64   `json:"id"`
	LineUserID string  `json:"lineUserId"`
	Name       string  `json:"name"`
	PictureURL *string `json:"pictureUrl,omitempty"`
	StudentID  *string `json:"studentId,omitempty"`
	Faculty    *string `json:"faculty,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}

// ConsultantResponse краткие данные консультанта
type ConsultantResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64               `json:"id"`
	SlotID             string              `json:"slotId"` // "2024-01-01-08:00-09:00"
	Date               string              `json:"date"`
	StartTime          string              `json:"startTime"`
	EndTime            string              `json:"endTime"`
	Status             string              `json:"status"`
	ProblemType        *string             `json:"problemType,omitempty"`
	ProblemDescription *string             `json:"problemDescription,omitempty"`
	ConsultantNote     *string             `json:"consultantNote,omitempty"`
	CancelReason       *string             `json:"cancelReason,omitempty"`
	CompletedAt        *string             `json:"completedAt,omitempty"` // ISO 8601 format
	User               *UserResponse       `json:"user,omitempty"`
	Consultant         *ConsultantResponse `json:"consultant,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ActiveBookingResponse активное бронирование пользователя или null
type ActiveBookingResponse struct {
	Booking *BookingResponse `json:"booking"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		SlotID:             b.Key().ID(),
		Date:               types.FormatDate(b.Date),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		ProblemType:        b.ProblemType,
		ProblemDescription: b.ProblemDescription,
		ConsultantNote:     b.ConsultantNote,
		CancelReason:       b.CancelReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CompletedAt != nil {
		completedStr := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedStr
	}
	if b.User != nil {
		resp.User = &UserResponse{
			ID:         b.User.ID,
			LineUserID: b.User.ExternalID,
			Name:       b.User.Name,
			PictureURL: b.User.PictureURL,
			StudentID:  b.User.StudentID,
			Faculty:    b.User.Faculty,
			Phone:      b.User.Phone,
			Email:      b.User.Email,
		}
	}
	if b.Consultant != nil {
		resp.Consultant = &ConsultantResponse{ID: b.Consultant.ID, Name: b.Consultant.Name}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
