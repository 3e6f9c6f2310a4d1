package notifications

import (
	"fmt"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// messageText текст push-сообщения клиенту. Пустая строка: клиенту не пишем.
func messageText(event *domain.BookingEvent) string {
	b := event.Booking
	when := fmt.Sprintf("%s %s-%s", types.FormatDate(b.Date), b.StartTime, b.EndTime)

	switch event.Kind {
	case domain.EventBookingCreated:
		return fmt.Sprintf("Your counseling session is booked for %s. Booking #%d.", when, b.ID)
	case domain.EventBookingAssigned:
		consultant := "a consultant"
		if b.Consultant != nil {
			consultant = b.Consultant.Name
		}
		return fmt.Sprintf("%s will meet you on %s.", consultant, when)
	case domain.EventBookingCancelled:
		msg := fmt.Sprintf("Your counseling session on %s has been cancelled.", when)
		if b.CancelReason != nil && *b.CancelReason != "" {
			msg += " Reason: " + *b.CancelReason
		}
		return msg
	case domain.EventBookingRescheduled:
		if event.Previous != nil {
			return fmt.Sprintf("Your counseling session was moved from %s %s-%s to %s.",
				types.FormatDate(event.Previous.Date), event.Previous.StartTime, event.Previous.EndTime, when)
		}
		return fmt.Sprintf("Your counseling session was moved to %s.", when)
	}
	return ""
}
