package update_booking

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Action действие над бронированием
type Action string

const (
	ActionAssign     Action = "assign"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
)

// Request модель запроса на изменение бронирования.
// Используемые поля зависят от Action.
type Request struct {
	BookingID int64
	Action    Action

	// Если задан, бронирование должно принадлежать этому пользователю
	LineUserID string

	ConsultantID *int64  // assign
	Note         *string // complete
	Reason       *string // cancel

	// reschedule
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response модель ответа с изменённым бронированием
type Response struct {
	Booking *domain.Booking
}
