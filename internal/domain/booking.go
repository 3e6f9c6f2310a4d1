package domain

import (
	"time"

	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusAssigned  BookingStatus = "ASSIGNED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// transitions допустимые переходы статусов. COMPLETED и CANCELLED терминальные.
var transitions = map[BookingStatus][]BookingStatus{
	StatusConfirmed: {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusCompleted, StatusCancelled},
}

// Booking represents a counseling session booking
type Booking struct {
	ID           int64
	UserID       int64
	ConsultantID *int64
	Date         time.Time // нормализованная дата (types.NormalizeDate)
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       BookingStatus

	ProblemType        *string
	ProblemDescription *string
	ConsultantNote     *string
	CancelReason       *string
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Заполняются при чтении со связями
	User       *User
	Consultant *Consultant
}

// Key returns the slot the booking occupies
func (b *Booking) Key() SlotKey {
	return SlotKey{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
}

// IsActive returns true for CONFIRMED and ASSIGNED bookings
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// OccupiesSlot returns true if the booking counts toward slot occupancy
func (b *Booking) OccupiesSlot() bool {
	return b.Status != StatusCancelled
}

// CanTransitionTo checks the lifecycle state machine
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range transitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// IsActive returns true for non-terminal statuses
func (s BookingStatus) IsActive() bool {
	return s == StatusConfirmed || s == StatusAssigned
}

// IsValid checks the status is one of the known values
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusAssigned, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BookingsFilter фильтр списка бронирований. Все поля опциональны и комбинируются через AND.
type BookingsFilter struct {
	Date         *time.Time
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *BookingStatus
	UserID       *int64
	ConsultantID *int64
}
