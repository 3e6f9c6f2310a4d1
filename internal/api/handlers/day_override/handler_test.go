package day_override

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

	"github.com/m04kA/counseling-booking-service/internal/service/schedule"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetDayOverride(ctx context.Context, date time.Time) (*models.DayOverrideResponse, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.(*models.DayOverrideResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) SetDayOverride(ctx context.Context, date time.Time, req *models.SetDayOverrideRequest) (*models.DayOverrideResponse, error) {
	args := m.Called(ctx, date, req)
	if v := args.Get(0); v != nil {
		return v.(*models.DayOverrideResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) ClearDayOverride(ctx context.Context, date time.Time) error {
	return m.Called(ctx, date).Error(0)
}

func (m *mockService) SetDayStatus(ctx context.Context, date time.Time, req *models.SetDayStatusRequest) (*models.DayStatusResponse, error) {
	args := m.Called(ctx, date, req)
	if v := args.Get(0); v != nil {
		return v.(*models.DayStatusResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

var day = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func request(method, date, body string) *http.Request {
	r := httptest.NewRequest(method, "/api/v1/admin/schedule/days/"+date+"/override", strings.NewReader(body))
	r.Header.Set("X-User-Name", "staff")
	return mux.SetURLVars(r, map[string]string{"date": date})
}

func TestHandler_HandleGet(t *testing.T) {
	svc := &mockService{}
	svc.On("GetDayOverride", mock.Anything, day).Return(&models.DayOverrideResponse{ID: 1, Date: "2024-01-10", IsClosed: true}, nil).Once()
	svc.On("GetDayOverride", mock.Anything, day).Return(nil, schedule.ErrDayOverrideNotFound).Once()
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.HandleGet(rec, request(http.MethodGet, "2024-01-10", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isClosed":true`)

	rec = httptest.NewRecorder()
	h.HandleGet(rec, request(http.MethodGet, "2024-01-10", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGet(rec, request(http.MethodGet, "10-01-2024", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_HandlePut(t *testing.T) {
	t.Run("saved", func(t *testing.T) {
		svc := &mockService{}
		svc.On("SetDayOverride", mock.Anything, day, mock.MatchedBy(func(req *models.SetDayOverrideRequest) bool {
			return req.IsClosed && req.Reason != nil && *req.Reason == "holiday"
		})).Return(&models.DayOverrideResponse{ID: 1, Date: "2024-01-10", IsClosed: true}, nil).Once()

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).HandlePut(rec, request(http.MethodPut, "2024-01-10", `{"isClosed":true,"reason":"holiday"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("plain open day clears override", func(t *testing.T) {
		svc := &mockService{}
		svc.On("SetDayOverride", mock.Anything, day, mock.Anything).Return(nil, nil).Once()

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).HandlePut(rec, request(http.MethodPut, "2024-01-10", `{"isClosed":false}`))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("invalid override", func(t *testing.T) {
		svc := &mockService{}
		svc.On("SetDayOverride", mock.Anything, day, mock.Anything).Return(nil, schedule.ErrInvalidInput).Once()

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).HandlePut(rec, request(http.MethodPut, "2024-01-10", `{"isClosed":false,"openTime":"25:00"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(&mockService{}, logger.Nop()).HandlePut(rec, request(http.MethodPut, "2024-01-10", `{"closed":true}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_HandleSetStatus(t *testing.T) {
	svc := &mockService{}
	svc.On("SetDayStatus", mock.Anything, day, mock.MatchedBy(func(req *models.SetDayStatusRequest) bool {
		return req.Status == models.DayStatusClosed
	})).Return(&models.DayStatusResponse{Date: "2024-01-10", Status: models.DayStatusClosed}, nil).Once()
	svc.On("SetDayStatus", mock.Anything, day, mock.Anything).Return(nil, errors.New("boom")).Once()
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.HandleSetStatus(rec, request(http.MethodPost, "2024-01-10", `{"status":"CLOSED"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CLOSED"`)

	rec = httptest.NewRecorder()
	h.HandleSetStatus(rec, request(http.MethodPost, "2024-01-10", `{"status":"OPEN"}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_HandleDelete(t *testing.T) {
	svc := &mockService{}
	svc.On("ClearDayOverride", mock.Anything, day).Return(nil).Once()
	svc.On("ClearDayOverride", mock.Anything, day).Return(schedule.ErrDayOverrideNotFound).Once()
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, request(http.MethodDelete, "2024-01-10", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, request(http.MethodDelete, "2024-01-10", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
