package domain

import "time"

// EventKind тип события жизненного цикла бронирования
type EventKind string

const (
	EventBookingCreated     EventKind = "booking.created"
	EventBookingAssigned    EventKind = "booking.assigned"
	EventBookingCompleted   EventKind = "booking.completed"
	EventBookingCancelled   EventKind = "booking.cancelled"
	EventBookingRescheduled EventKind = "booking.rescheduled"
)

// BookingEvent событие для внешних получателей (LINE, поток событий)
type BookingEvent struct {
	Kind       EventKind
	Booking    Booking
	Previous   *SlotKey // слот до переноса
	OccurredAt time.Time
}

// LineUserID внешний идентификатор клиента, если он загружен
func (e *BookingEvent) LineUserID() string {
	if e.Booking.User == nil {
		return ""
	}
	return e.Booking.User.ExternalID
}
