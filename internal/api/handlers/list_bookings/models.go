package list_bookings

import (
	"net/http"
	"strconv"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	query := r.URL.Query()
	req := &models.ListBookingsRequest{}

	var err error
	if req.Date, err = handlers.QueryDate(r, "date"); err != nil {
		return nil, err
	}
	if req.StartDate, err = handlers.QueryDate(r, "startDate"); err != nil {
		return nil, err
	}
	if req.EndDate, err = handlers.QueryDate(r, "endDate"); err != nil {
		return nil, err
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if lineUserID := query.Get("lineUserId"); lineUserID != "" {
		req.LineUserID = &lineUserID
	}
	if consultantIDStr := query.Get("consultantId"); consultantIDStr != "" {
		consultantID, err := strconv.ParseInt(consultantIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ConsultantID = &consultantID
	}

	return req, nil
}
