package models

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Статусы дня для переключателя
const (
	DayStatusOpen   = "OPEN"
	DayStatusClosed = "CLOSED"
)

// Request модели

// WorkingHoursRuleRequest правило одного дня недели
type WorkingHoursRuleRequest struct {
	DayOfWeek           int    `json:"dayOfWeek"` // 0 = воскресенье
	OpenTime            string `json:"openTime"`
	CloseTime           string `json:"closeTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	DefaultCapacity     int    `json:"defaultCapacity"`
	IsActive            *bool  `json:"isActive,omitempty"` // по умолчанию true
}

// UpdateWorkingHoursRequest пакетное обновление правил
type UpdateWorkingHoursRequest struct {
	Rules []WorkingHoursRuleRequest `json:"rules"`
}

// SetDayOverrideRequest запрос на установку переопределения дня
type SetDayOverrideRequest struct {
	IsClosed  bool    `json:"isClosed"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	Capacity  *int    `json:"capacity,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	CreatedBy *string `json:"-"`
}

// SetDayStatusRequest переключение дня OPEN/CLOSED
type SetDayStatusRequest struct {
	Status    string  `json:"status"`
	Reason    *string `json:"reason,omitempty"`
	CreatedBy *string `json:"-"`
}

// SlotOverrideRequest переопределение одного слота
type SlotOverrideRequest struct {
	Date        string  `json:"date,omitempty"` // только для одиночного upsert
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	IsAvailable bool    `json:"isAvailable"`
	Capacity    *int    `json:"capacity,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	CreatedBy   *string `json:"-"`
}

// ReplaceSlotOverridesRequest замена всех переопределений слотов дня
type ReplaceSlotOverridesRequest struct {
	Overrides []SlotOverrideRequest `json:"overrides"`
	CreatedBy *string               `json:"-"`
}

// Response модели

// WorkingHoursResponse правило дня недели
type WorkingHoursResponse struct {
	DayOfWeek           int    `json:"dayOfWeek"`
	OpenTime            string `json:"openTime"`
	CloseTime           string `json:"closeTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	DefaultCapacity     int    `json:"defaultCapacity"`
	IsActive            bool   `json:"isActive"`
	Configured          bool   `json:"configured"`
}

// WorkingHoursListResponse все 7 дней недели
type WorkingHoursListResponse struct {
	Rules []WorkingHoursResponse `json:"rules"`
}

// DayOverrideResponse переопределение дня
type DayOverrideResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	IsClosed  bool      `json:"isClosed"`
	OpenTime  *string   `json:"openTime,omitempty"`
	CloseTime *string   `json:"closeTime,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DayStatusResponse результат переключения дня
type DayStatusResponse struct {
	Date     string               `json:"date"`
	Status   string               `json:"status"`
	Override *DayOverrideResponse `json:"override"`
}

// SlotOverrideResponse переопределение слота
type SlotOverrideResponse struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	IsAvailable bool      `json:"isAvailable"`
	Capacity    *int      `json:"capacity,omitempty"`
	Reason      *string   `json:"reason,omitempty"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SlotOverrideListResponse переопределения слотов дня
type SlotOverrideListResponse struct {
	Date      string                 `json:"date"`
	Overrides []SlotOverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainRule конвертирует правило в DTO
func FromDomainRule(r *domain.WorkingHoursRule) WorkingHoursResponse {
	return WorkingHoursResponse{
		DayOfWeek:           r.DayOfWeek,
		OpenTime:            r.OpenTime.String(),
		CloseTime:           r.CloseTime.String(),
		SlotDurationMinutes: r.SlotDurationMinutes,
		DefaultCapacity:     r.DefaultCapacity,
		IsActive:            r.IsActive,
		Configured:          r.ID != 0,
	}
}

// FromDomainDayOverride конвертирует переопределение дня в DTO
func FromDomainDayOverride(o *domain.DayOverride) *DayOverrideResponse {
	if o == nil {
		return nil
	}

	return &DayOverrideResponse{
		ID:        o.ID,
		Date:      types.FormatDate(o.Date),
		IsClosed:  o.IsClosed,
		OpenTime:  timePtrString(o.OpenTime),
		CloseTime: timePtrString(o.CloseTime),
		Capacity:  o.Capacity,
		Reason:    o.Reason,
		CreatedBy: o.CreatedBy,
		UpdatedAt: o.UpdatedAt,
	}
}

// FromDomainSlotOverride конвертирует переопределение слота в DTO
func FromDomainSlotOverride(o *domain.SlotOverride) SlotOverrideResponse {
	return SlotOverrideResponse{
		ID:          o.ID,
		Date:        types.FormatDate(o.Date),
		StartTime:   o.StartTime.String(),
		EndTime:     o.EndTime.String(),
		IsAvailable: o.IsAvailable,
		Capacity:    o.Capacity,
		Reason:      o.Reason,
		CreatedBy:   o.CreatedBy,
		UpdatedAt:   o.UpdatedAt,
	}
}

// FromDomainSlotOverrideList конвертирует список переопределений слотов в DTO
func FromDomainSlotOverrideList(date time.Time, overrides []*domain.SlotOverride) *SlotOverrideListResponse {
	resp := &SlotOverrideListResponse{
		Date:      types.FormatDate(date),
		Overrides: make([]SlotOverrideResponse, 0, len(overrides)),
	}
	for _, o := range overrides {
		resp.Overrides = append(resp.Overrides, FromDomainSlotOverride(o))
	}
	return resp
}

func timePtrString(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
