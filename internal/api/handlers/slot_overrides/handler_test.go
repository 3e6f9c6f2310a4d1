package slot_overrides

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
	"github.com/m04kA/counseling-booking-service/internal/service/schedule"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListSlotOverrides(ctx context.Context, date time.Time) (*models.SlotOverrideListResponse, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.(*models.SlotOverrideListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) ReplaceSlotOverrides(ctx context.Context, date time.Time, req *models.ReplaceSlotOverridesRequest) (*models.SlotOverrideListResponse, error) {
	args := m.Called(ctx, date, req)
	if v := args.Get(0); v != nil {
		return v.(*models.SlotOverrideListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpsertSlotOverride(ctx context.Context, req *models.SlotOverrideRequest) (*models.SlotOverrideResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.SlotOverrideResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) DeleteSlotOverride(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) ClearMaterializedSlots(ctx context.Context, date time.Time) error {
	return m.Called(ctx, date).Error(0)
}

var testDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func withDate(r *http.Request, date string) *http.Request {
	return mux.SetURLVars(r, map[string]string{"date": date})
}

func TestHandler_HandleList(t *testing.T) {
	svc := &mockService{}
	svc.On("ListSlotOverrides", mock.Anything, testDate).
		Return(&models.SlotOverrideListResponse{Date: "2024-01-01", Overrides: []models.SlotOverrideResponse{}}, nil).Once()
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.HandleList(rec, withDate(httptest.NewRequest(http.MethodGet, "/api/v1/admin/schedule/days/2024-01-01/slot-overrides", nil), "2024-01-01"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2024-01-01"`)

	rec = httptest.NewRecorder()
	h.HandleList(rec, withDate(httptest.NewRequest(http.MethodGet, "/api/v1/admin/schedule/days/01-01-2024/slot-overrides", nil), "01-01-2024"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_HandleReplace(t *testing.T) {
	svc := &mockService{}
	svc.On("ReplaceSlotOverrides", mock.Anything, testDate, mock.MatchedBy(func(req *models.ReplaceSlotOverridesRequest) bool {
		return len(req.Overrides) == 1 && req.CreatedBy != nil && *req.CreatedBy == "Khun Nok"
	})).Return(&models.SlotOverrideListResponse{Date: "2024-01-01", Overrides: []models.SlotOverrideResponse{{ID: 1}}}, nil).Once()
	svc.On("ReplaceSlotOverrides", mock.Anything, testDate, mock.Anything).Return(nil, schedule.ErrInvalidInput).Once()

	h := middleware.AdminAuth("secret")(http.HandlerFunc(NewHandler(svc, logger.Nop()).HandleReplace))
	newRequest := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPut, "/api/v1/admin/schedule/days/2024-01-01/slot-overrides", strings.NewReader(body))
		r.Header.Set(middleware.HeaderAdminKey, "secret")
		r.Header.Set(middleware.HeaderUserName, "Khun Nok")
		return withDate(r, "2024-01-01")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(`{"overrides":[{"startTime":"09:00","endTime":"10:00","isAvailable":false}]}`))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(`{"overrides":[{"startTime":"10:00","endTime":"09:00","isAvailable":true}]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(`{"overrides":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_HandleUpsert(t *testing.T) {
	tests := []struct {
		name string
		body string
		resp *models.SlotOverrideResponse
		err  error
		want int
	}{
		{
			name: "saved",
			body: `{"date":"2024-01-01","startTime":"09:00","endTime":"10:00","isAvailable":false}`,
			resp: &models.SlotOverrideResponse{ID: 3, Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00"},
			want: http.StatusOK,
		},
		{
			name: "invalid override",
			body: `{"date":"2024-01-01","startTime":"09:00","endTime":"09:00","isAvailable":true}`,
			err:  schedule.ErrInvalidInput,
			want: http.StatusBadRequest,
		},
		{
			name: "store failure",
			body: `{"date":"2024-01-01","startTime":"09:00","endTime":"10:00","isAvailable":true}`,
			err:  errors.New("connection reset"),
			want: http.StatusInternalServerError,
		},
		{name: "broken body", body: `{"date":`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.resp != nil || tt.err != nil {
				svc.On("UpsertSlotOverride", mock.Anything, mock.AnythingOfType("*models.SlotOverrideRequest")).Return(tt.resp, tt.err).Once()
			}

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.Nop()).HandleUpsert(rec,
				httptest.NewRequest(http.MethodPut, "/api/v1/admin/schedule/slot-overrides", strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_HandleDelete(t *testing.T) {
	svc := &mockService{}
	svc.On("DeleteSlotOverride", mock.Anything, int64(7)).Return(nil).Once()
	svc.On("DeleteSlotOverride", mock.Anything, int64(8)).Return(schedule.ErrSlotOverrideNotFound).Once()
	h := NewHandler(svc, logger.Nop())

	for id, want := range map[string]int{"7": http.StatusNoContent, "8": http.StatusNotFound, "x": http.StatusBadRequest} {
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/schedule/slot-overrides/"+id, nil)
		r = mux.SetURLVars(r, map[string]string{"overrideId": id})

		rec := httptest.NewRecorder()
		h.HandleDelete(rec, r)
		assert.Equal(t, want, rec.Code, id)
	}
	svc.AssertExpectations(t)
}

func TestHandler_HandleClearMaterialized(t *testing.T) {
	svc := &mockService{}
	svc.On("ClearMaterializedSlots", mock.Anything, testDate).Return(nil).Once()
	h := NewHandler(svc, logger.Nop())

	tests := map[string]int{
		"/api/v1/admin/slots?date=2024-01-01": http.StatusNoContent,
		"/api/v1/admin/slots":                 http.StatusBadRequest,
		"/api/v1/admin/slots?date=tomorrow":   http.StatusBadRequest,
	}
	for target, want := range tests {
		rec := httptest.NewRecorder()
		h.HandleClearMaterialized(rec, httptest.NewRequest(http.MethodDelete, target, nil))
		assert.Equal(t, want, rec.Code, target)
	}
	svc.AssertExpectations(t)
}
