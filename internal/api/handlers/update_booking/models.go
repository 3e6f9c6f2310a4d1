package update_booking

import (
	"github.com/m04kA/counseling-booking-service/internal/service/bookings/models"
	updateBooking "github.com/m04kA/counseling-booking-service/internal/usecase/update_booking"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// CancelBookingRequest тело DELETE /bookings/{id}, может отсутствовать
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// RescheduleBookingRequest перенос в другой слот
type RescheduleBookingRequest struct {
	Date      string `json:"date"`      // "2024-01-01"
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "10:00"
}

// AdminUpdateBookingRequest действие персонала над бронированием
type AdminUpdateBookingRequest struct {
	Action       string  `json:"action"` // assign | complete | cancel | reschedule
	ConsultantID *int64  `json:"consultantId,omitempty"`
	Note         *string `json:"note,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	Date         string  `json:"date,omitempty"`
	StartTime    string  `json:"startTime,omitempty"`
	EndTime      string  `json:"endTime,omitempty"`
}

// ToUseCaseRequest конвертирует запрос отмены
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID int64, lineUserID string) *updateBooking.Request {
	return &updateBooking.Request{
		BookingID:  bookingID,
		Action:     updateBooking.ActionCancel,
		LineUserID: lineUserID,
		Reason:     r.Reason,
	}
}

// ToUseCaseRequest конвертирует запрос переноса
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64, lineUserID string) (*updateBooking.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &updateBooking.Request{
		BookingID:  bookingID,
		Action:     updateBooking.ActionReschedule,
		LineUserID: lineUserID,
		Date:       date,
		StartTime:  types.TimeString(r.StartTime),
		EndTime:    types.TimeString(r.EndTime),
	}, nil
}

// ToUseCaseRequest конвертирует запрос персонала.
// Дата разбирается только для переноса.
func (r *AdminUpdateBookingRequest) ToUseCaseRequest(bookingID int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID:    bookingID,
		Action:       updateBooking.Action(r.Action),
		ConsultantID: r.ConsultantID,
		Note:         r.Note,
		Reason:       r.Reason,
	}

	if req.Action == updateBooking.ActionReschedule {
		date, err := types.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = date
		req.StartTime = types.TimeString(r.StartTime)
		req.EndTime = types.TimeString(r.EndTime)
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking)
}
