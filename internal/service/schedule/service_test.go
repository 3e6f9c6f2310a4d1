package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/internal/infra/storage/memory"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockInvalidator) ClearDate(ctx context.Context, date time.Time) error {
	return m.Called(ctx, date).Error(0)
}

var testDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Store, *mockInvalidator) {
	t.Helper()

	store := memory.NewStore()
	inv := &mockInvalidator{}
	inv.On("Invalidate", mock.Anything).Return(nil).Maybe()

	svc := NewService(
		store.WorkingHours(),
		store.DayOverrides(),
		store.SlotOverrides(),
		inv,
		store.TxManager(),
		domain.DefaultScheduleDefaults(),
		logger.Nop(),
	)
	return svc, store, inv
}

func TestService_WorkingHours(t *testing.T) {
	ctx := context.Background()
	svc, _, inv := newTestService(t)

	list, err := svc.ListWorkingHours(ctx)
	require.NoError(t, err)
	require.Len(t, list.Rules, 7)
	for _, r := range list.Rules {
		assert.False(t, r.Configured)
		assert.False(t, r.IsActive)
	}

	list, err = svc.UpdateWorkingHours(ctx, &models.UpdateWorkingHoursRequest{
		Rules: []models.WorkingHoursRuleRequest{
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "17:00", SlotDurationMinutes: 30, DefaultCapacity: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, list.Rules[1].Configured)
	assert.True(t, list.Rules[1].IsActive)
	assert.Equal(t, "09:00", list.Rules[1].OpenTime)
	inv.AssertCalled(t, "Invalidate", mock.Anything)
}

func TestService_UpdateWorkingHoursValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tests := []struct {
		name string
		rule models.WorkingHoursRuleRequest
	}{
		{name: "bad weekday", rule: models.WorkingHoursRuleRequest{DayOfWeek: 7, OpenTime: "08:00", CloseTime: "12:00", SlotDurationMinutes: 60, DefaultCapacity: 1}},
		{name: "open after close", rule: models.WorkingHoursRuleRequest{DayOfWeek: 1, OpenTime: "12:00", CloseTime: "08:00", SlotDurationMinutes: 60, DefaultCapacity: 1}},
		{name: "malformed time", rule: models.WorkingHoursRuleRequest{DayOfWeek: 1, OpenTime: "8am", CloseTime: "12:00", SlotDurationMinutes: 60, DefaultCapacity: 1}},
		{name: "zero duration", rule: models.WorkingHoursRuleRequest{DayOfWeek: 1, OpenTime: "08:00", CloseTime: "12:00", SlotDurationMinutes: 0, DefaultCapacity: 1}},
		{name: "zero capacity", rule: models.WorkingHoursRuleRequest{DayOfWeek: 1, OpenTime: "08:00", CloseTime: "12:00", SlotDurationMinutes: 60, DefaultCapacity: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateWorkingHours(ctx, &models.UpdateWorkingHoursRequest{
				Rules: []models.WorkingHoursRuleRequest{tt.rule},
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_SetDayOverride(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	resp, err := svc.SetDayOverride(ctx, testDate, &models.SetDayOverrideRequest{
		IsClosed: false,
		OpenTime: ptr.Ptr("10:00"),
		Capacity: ptr.Ptr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "2024-01-01", resp.Date)
	assert.Equal(t, "10:00", *resp.OpenTime)

	// открытый день без собственных полей удаляет переопределение
	resp, err = svc.SetDayOverride(ctx, testDate, &models.SetDayOverrideRequest{IsClosed: false})
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = svc.GetDayOverride(ctx, testDate)
	assert.ErrorIs(t, err, ErrDayOverrideNotFound)

	_, err = svc.SetDayOverride(ctx, testDate, &models.SetDayOverrideRequest{
		OpenTime:  ptr.Ptr("18:00"),
		CloseTime: ptr.Ptr("09:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, svc.ClearDayOverride(ctx, testDate), ErrDayOverrideNotFound)
}

func TestService_SetDayStatus(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	// закрытие и открытие дня без собственных часов
	resp, err := svc.SetDayStatus(ctx, testDate, &models.SetDayStatusRequest{Status: models.DayStatusClosed, Reason: ptr.Ptr("holiday")})
	require.NoError(t, err)
	require.NotNil(t, resp.Override)
	assert.True(t, resp.Override.IsClosed)

	resp, err = svc.SetDayStatus(ctx, testDate, &models.SetDayStatusRequest{Status: models.DayStatusOpen})
	require.NoError(t, err)
	assert.Nil(t, resp.Override)

	_, err = store.DayOverrides().GetByDate(ctx, testDate)
	assert.Error(t, err)

	// закрытие дня с собственными часами сохраняет их при открытии
	_, err = svc.SetDayOverride(ctx, testDate, &models.SetDayOverrideRequest{CloseTime: ptr.Ptr("12:00")})
	require.NoError(t, err)

	_, err = svc.SetDayStatus(ctx, testDate, &models.SetDayStatusRequest{Status: models.DayStatusClosed})
	require.NoError(t, err)

	resp, err = svc.SetDayStatus(ctx, testDate, &models.SetDayStatusRequest{Status: models.DayStatusOpen})
	require.NoError(t, err)
	require.NotNil(t, resp.Override)
	assert.False(t, resp.Override.IsClosed)
	assert.Equal(t, "12:00", *resp.Override.CloseTime)

	_, err = svc.SetDayStatus(ctx, testDate, &models.SetDayStatusRequest{Status: "MAYBE"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ReplaceSlotOverrides(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.UpsertSlotOverride(ctx, &models.SlotOverrideRequest{Date: "2024-01-01", StartTime: "08:00", EndTime: "09:00"})
	require.NoError(t, err)

	list, err := svc.ReplaceSlotOverrides(ctx, testDate, &models.ReplaceSlotOverridesRequest{
		Overrides: []models.SlotOverrideRequest{
			{StartTime: "18:30", EndTime: "19:15", IsAvailable: true},
			{StartTime: "09:00", EndTime: "10:00", IsAvailable: false},
		},
		CreatedBy: ptr.Ptr("admin"),
	})
	require.NoError(t, err)
	require.Len(t, list.Overrides, 2)
	assert.Equal(t, "09:00", list.Overrides[0].StartTime)
	assert.Equal(t, "admin", *list.Overrides[0].CreatedBy)

	_, err = svc.ReplaceSlotOverrides(ctx, testDate, &models.ReplaceSlotOverridesRequest{
		Overrides: []models.SlotOverrideRequest{
			{StartTime: "09:00", EndTime: "10:00"},
			{StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteSlotOverride(ctx, list.Overrides[0].ID))
	assert.ErrorIs(t, svc.DeleteSlotOverride(ctx, list.Overrides[0].ID), ErrSlotOverrideNotFound)
}

func TestService_CacheFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	inv := &mockInvalidator{}
	inv.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
	inv.On("ClearDate", mock.Anything, testDate).Return(errors.New("redis down"))

	svc := NewService(store.WorkingHours(), store.DayOverrides(), store.SlotOverrides(), inv,
		store.TxManager(), domain.DefaultScheduleDefaults(), logger.Nop())

	_, err := svc.SetDayStatus(ctx, testDate, &models.SetDayStatusRequest{Status: models.DayStatusClosed})
	require.NoError(t, err)
	inv.AssertNumberOfCalls(t, "Invalidate", 1)

	assert.ErrorIs(t, svc.ClearMaterializedSlots(ctx, testDate), ErrInternal)
}

func TestService_ReasonLengthCountsCharacters(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// тайская причина укладывается в лимит символов, но втрое длиннее в байтах
	thai := strings.Repeat("ห", domain.MaxOverrideReasonLength)

	resp, err := svc.SetDayOverride(ctx, testDate, &models.SetDayOverrideRequest{IsClosed: true, Reason: ptr.Ptr(thai)})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, thai, *resp.Reason)

	_, err = svc.SetDayOverride(ctx, testDate, &models.SetDayOverrideRequest{IsClosed: true, Reason: ptr.Ptr(thai + "ห")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
