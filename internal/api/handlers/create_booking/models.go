package create_booking

import (
	"github.com/m04kA/counseling-booking-service/internal/service/bookings/models"
	createBooking "github.com/m04kA/counseling-booking-service/internal/usecase/create_booking"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date               string  `json:"date"`      // "2024-01-01"
	StartTime          string  `json:"startTime"` // "09:00"
	EndTime            string  `json:"endTime"`   // "10:00"
	ProblemType        *string `json:"problemType,omitempty"`
	ProblemDescription *string `json:"problemDescription,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Формат времени проверяет use case.
func (r *CreateBookingRequest) ToUseCaseRequest(lineUserID, userName string) (*createBooking.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		LineUserID:         lineUserID,
		UserName:           userName,
		Date:               date,
		StartTime:          types.TimeString(r.StartTime),
		EndTime:            types.TimeString(r.EndTime),
		ProblemType:        r.ProblemType,
		ProblemDescription: r.ProblemDescription,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking)
}
