package models

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// CreateConsultantRequest запрос на создание консультанта
type CreateConsultantRequest struct {
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
}

// UpdateConsultantRequest частичное обновление консультанта
type UpdateConsultantRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ConsultantResponse данные консультанта
type ConsultantResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Specialty *string   `json:"specialty,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConsultantListResponse список консультантов
type ConsultantListResponse struct {
	Consultants []ConsultantResponse `json:"consultants"`
}

// FromDomainConsultant конвертирует domain модель в DTO
func FromDomainConsultant(c *domain.Consultant) ConsultantResponse {
	return ConsultantResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Avatar:    c.Avatar,
		Specialty: c.Specialty,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ApplyTo применяет непустые поля запроса
func (r *UpdateConsultantRequest) ApplyTo(c *domain.Consultant) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Avatar != nil {
		c.Avatar = r.Avatar
	}
	if r.Specialty != nil {
		c.Specialty = r.Specialty
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}
