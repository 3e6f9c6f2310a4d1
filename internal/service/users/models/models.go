package models

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// UpdateProfileRequest частичное обновление профиля клиента
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	PictureURL *string `json:"pictureUrl,omitempty"`
	StudentID  *string `json:"studentId,omitempty"`
	Faculty    *string `json:"faculty,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}

// ProfileResponse профиль клиента
type ProfileResponse struct {
	ID         int64     `json:"id"`
	LineUserID string    `json:"lineUserId"`
	Name       string    `json:"name"`
	PictureURL *string   `json:"pictureUrl,omitempty"`
	StudentID  *string   `json:"studentId,omitempty"`
	Faculty    *string   `json:"faculty,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToDomain конвертирует запрос в профиль
func (r *UpdateProfileRequest) ToDomain() *domain.UserProfile {
	return &domain.UserProfile{
		Name:       r.Name,
		PictureURL: r.PictureURL,
		StudentID:  r.StudentID,
		Faculty:    r.Faculty,
		Phone:      r.Phone,
		Email:      r.Email,
	}
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *ProfileResponse {
	return &ProfileResponse{
		ID:         u.ID,
		LineUserID: u.ExternalID,
		Name:       u.Name,
		PictureURL: u.PictureURL,
		StudentID:  u.StudentID,
		Faculty:    u.Faculty,
		Phone:      u.Phone,
		Email:      u.Email,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
