package get_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/internal/infra/storage/memory"
	"github.com/m04kA/counseling-booking-service/internal/service/slots"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
)

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, date time.Time) (*slots.DaySlots, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.(*slots.DaySlots), args.Error(1)
	}
	return nil, args.Error(1)
}

func bangkok(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	return loc
}

func newSeededUseCase(t *testing.T, now time.Time) (*UseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Seed(ctx))

	gen := slots.NewGenerator(
		store.WorkingHours(),
		store.DayOverrides(),
		store.SlotOverrides(),
		store.Bookings(),
		domain.DefaultScheduleDefaults(),
		logger.Nop(),
	)
	window := domain.BookingWindow{Location: bangkok(t), MaxAdvanceDays: 60}
	uc := NewUseCase(gen, window, logger.Nop()).WithTimeProvider(fixedTime{now: now})
	return uc, store
}

func TestUseCase_Execute_OpenDay(t *testing.T) {
	ctx := context.Background()
	uc, store := newSeededUseCase(t, monday.Add(2*time.Hour))

	u, err := store.Users().UpsertByExternalID(ctx, "U1", "Alice")
	require.NoError(t, err)
	_, err = store.Bookings().Create(ctx, &domain.Booking{
		UserID: u.ID, Date: monday, StartTime: "09:00", EndTime: "10:00", Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{Date: monday})
	require.NoError(t, err)

	assert.Equal(t, domain.DayOpen, resp.DayStatus)
	assert.True(t, resp.Bookable)
	require.Len(t, resp.Slots, 12)
	assert.Equal(t, "2024-01-01-08:00-09:00", resp.Slots[0].ID)
	assert.True(t, resp.Slots[0].IsAvailable)

	booked := resp.Slots[1]
	assert.Equal(t, 1, booked.BookedCount)
	assert.Equal(t, 0, booked.AvailableCount)
	assert.False(t, booked.IsAvailable)
}

func TestUseCase_Execute_ClosedDay(t *testing.T) {
	ctx := context.Background()
	uc, store := newSeededUseCase(t, monday)

	_, err := store.DayOverrides().Upsert(ctx, &domain.DayOverride{
		Date: monday, IsClosed: true, Reason: ptr.Ptr("holiday"),
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{Date: monday})
	require.NoError(t, err)
	assert.Equal(t, domain.DayClosedByOverride, resp.DayStatus)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_OutsideWindow(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{name: "past date", date: monday.AddDate(0, 0, -1)},
		{name: "too far ahead", date: monday.AddDate(0, 0, 61)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newSeededUseCase(t, monday.Add(2*time.Hour))

			resp, err := uc.Execute(context.Background(), &Request{Date: tt.date})
			require.NoError(t, err)
			assert.False(t, resp.Bookable)
			require.NotEmpty(t, resp.Slots)
			for _, s := range resp.Slots {
				assert.False(t, s.IsAvailable)
				assert.Equal(t, 1, s.AvailableCount)
			}
		})
	}
}

func TestUseCase_Execute_TodayInClinicTimezone(t *testing.T) {
	// 2024-01-01 18:00 UTC это уже 2 января в Бангкоке
	uc, _ := newSeededUseCase(t, monday.Add(18*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	assert.False(t, resp.Bookable)

	resp, err = uc.Execute(context.Background(), &Request{Date: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.True(t, resp.Bookable)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, monday).Return(nil, errors.New("db down"))

	uc := NewUseCase(gen, domain.BookingWindow{}, logger.Nop()).WithTimeProvider(fixedTime{now: monday})

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Date: monday.Add(10 * time.Hour)})
	assert.ErrorIs(t, err, ErrInternal)
	gen.AssertExpectations(t)
}
