package update_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	"github.com/m04kA/counseling-booking-service/internal/domain"
	updateBooking "github.com/m04kA/counseling-booking-service/internal/usecase/update_booking"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateBooking.Request) (*updateBooking.Response, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*updateBooking.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func booking(status domain.BookingStatus) *updateBooking.Response {
	return &updateBooking.Response{Booking: &domain.Booking{
		ID:        7,
		Date:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		Status:    status,
	}}
}

func userRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": "7"})
	return r.WithContext(middleware.WithUserID(r.Context(), "U1"))
}

func TestHandler_HandleCancel(t *testing.T) {
	t.Run("without body", func(t *testing.T) {
		uc := &mockUseCase{}
		uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateBooking.Request) bool {
			return req.BookingID == 7 && req.Action == updateBooking.ActionCancel &&
				req.LineUserID == "U1" && req.Reason == nil
		})).Return(booking(domain.StatusCancelled), nil).Once()

		rec := httptest.NewRecorder()
		NewHandler(uc, logger.Nop()).HandleCancel(rec, userRequest(http.MethodDelete, "/api/v1/bookings/7", ""))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"CANCELLED"`)
		uc.AssertExpectations(t)
	})

	t.Run("with reason", func(t *testing.T) {
		uc := &mockUseCase{}
		uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateBooking.Request) bool {
			return req.Reason != nil && *req.Reason == "заболел"
		})).Return(booking(domain.StatusCancelled), nil).Once()

		rec := httptest.NewRecorder()
		NewHandler(uc, logger.Nop()).HandleCancel(rec,
			userRequest(http.MethodDelete, "/api/v1/bookings/7", `{"reason":"заболел"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/7", nil)
		rec := httptest.NewRecorder()
		NewHandler(&mockUseCase{}, logger.Nop()).HandleCancel(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_HandleReschedule(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateBooking.Request) bool {
		return req.Action == updateBooking.ActionReschedule &&
			req.Date.Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)) &&
			req.StartTime == types.TimeString("10:00") && req.EndTime == types.TimeString("11:00")
	})).Return(booking(domain.StatusConfirmed), nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).HandleReschedule(rec, userRequest(http.MethodPatch,
		"/api/v1/bookings/7/reschedule", `{"date":"2024-01-11","startTime":"10:00","endTime":"11:00"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)

	rec = httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).HandleReschedule(rec, userRequest(http.MethodPatch,
		"/api/v1/bookings/7/reschedule", `{"date":"11.01.2024","startTime":"10:00","endTime":"11:00"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleAdmin(t *testing.T) {
	consultantID := int64(2)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateBooking.Request) bool {
		return req.Action == updateBooking.ActionAssign && req.ConsultantID != nil &&
			*req.ConsultantID == consultantID && req.LineUserID == ""
	})).Return(booking(domain.StatusAssigned), nil).Once()

	r := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/7",
		strings.NewReader(`{"action":"assign","consultantId":2}`))
	r = mux.SetURLVars(r, map[string]string{"bookingId": "7"})

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).HandleAdmin(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ASSIGNED"`)
	uc.AssertExpectations(t)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: updateBooking.ErrBookingNotFound, want: http.StatusNotFound},
		{err: updateBooking.ErrConsultantNotFound, want: http.StatusNotFound},
		{err: updateBooking.ErrAccessDenied, want: http.StatusForbidden},
		{err: updateBooking.ErrInvalidTransition, want: http.StatusConflict},
		{err: updateBooking.ErrConsultantInactive, want: http.StatusConflict},
		{err: updateBooking.ErrDayClosed, want: http.StatusConflict},
		{err: updateBooking.ErrSlotFull, want: http.StatusConflict},
		{err: updateBooking.ErrSlotNotFound, want: http.StatusBadRequest},
		{err: updateBooking.ErrInvalidDate, want: http.StatusBadRequest},
		{err: updateBooking.ErrDateTooFarInFuture, want: http.StatusBadRequest},
		{err: updateBooking.ErrInvalidInput, want: http.StatusBadRequest},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).HandleCancel(rec, userRequest(http.MethodDelete, "/api/v1/bookings/7", ""))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
