package working_hours

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/internal/infra/storage/memory"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
)

type noopSlots struct{}

func (noopSlots) Invalidate(context.Context) error           { return nil }
func (noopSlots) ClearDate(context.Context, time.Time) error { return nil }

type mockService struct {
	mock.Mock
}

func (m *mockService) ListWorkingHours(ctx context.Context) (*models.WorkingHoursListResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*models.WorkingHoursListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursListResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.WorkingHoursListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newScheduleHandler() *Handler {
	store := memory.NewStore()
	svc := schedule.NewService(
		store.WorkingHours(),
		store.DayOverrides(),
		store.SlotOverrides(),
		noopSlots{},
		store.TxManager(),
		domain.DefaultScheduleDefaults(),
		logger.Nop(),
	)
	return NewHandler(svc, logger.Nop())
}

func TestHandler_PutThenGet(t *testing.T) {
	h := newScheduleHandler()

	rec := httptest.NewRecorder()
	h.HandlePut(rec, httptest.NewRequest(http.MethodPut, "/api/v1/admin/schedule/working-hours", strings.NewReader(
		`{"rules":[{"dayOfWeek":1,"openTime":"09:00","closeTime":"16:00","slotDurationMinutes":60,"defaultCapacity":2}]}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/schedule/working-hours", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.WorkingHoursListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Rules, 7)
	assert.True(t, list.Rules[1].Configured)
	assert.Equal(t, "16:00", list.Rules[1].CloseTime)
	assert.Equal(t, 2, list.Rules[1].DefaultCapacity)
	assert.False(t, list.Rules[2].Configured)
}

func TestHandler_HandlePutRejects(t *testing.T) {
	h := newScheduleHandler()

	bodies := map[string]string{
		"close before open": `{"rules":[{"dayOfWeek":1,"openTime":"16:00","closeTime":"09:00","slotDurationMinutes":60,"defaultCapacity":1}]}`,
		"no rules":          `{"rules":[]}`,
		"broken json":       `{"rules":[`,
		"empty body":        ``,
	}
	for name, body := range bodies {
		rec := httptest.NewRecorder()
		h.HandlePut(rec, httptest.NewRequest(http.MethodPut, "/api/v1/admin/schedule/working-hours", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestHandler_StoreFailure(t *testing.T) {
	svc := &mockService{}
	svc.On("ListWorkingHours", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	svc.On("UpdateWorkingHours", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/schedule/working-hours", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.HandlePut(rec, httptest.NewRequest(http.MethodPut, "/api/v1/admin/schedule/working-hours", strings.NewReader(
		`{"rules":[{"dayOfWeek":1,"openTime":"09:00","closeTime":"16:00","slotDurationMinutes":60,"defaultCapacity":2}]}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svc.AssertExpectations(t)
}
