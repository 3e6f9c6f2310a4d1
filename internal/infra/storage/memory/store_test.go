package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/booking"
	dayOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/dayoverride"
	slotOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/slotoverride"
	workingHoursRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/workinghours"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

func TestDayOverride_LookupIgnoresTimeOfDayAndZone(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.DayOverrides()

	bangkok := time.FixedZone("ICT", 7*60*60)
	writtenAt := time.Date(2024, 3, 15, 23, 30, 0, 0, bangkok)

	_, err := repo.Upsert(ctx, &domain.DayOverride{Date: writtenAt, IsClosed: true})
	require.NoError(t, err)

	got, err := repo.GetByDate(ctx, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, got.IsClosed)
	assert.Equal(t, "2024-03-15", types.FormatDate(got.Date))

	_, err = repo.GetByDate(ctx, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, dayOverrideRepo.ErrOverrideNotFound)

	require.NoError(t, repo.DeleteByDate(ctx, time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)))
	assert.ErrorIs(t, repo.DeleteByDate(ctx, writtenAt), dayOverrideRepo.ErrOverrideNotFound)
}

func TestDayOverride_UpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().DayOverrides()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(ctx, &domain.DayOverride{Date: date, IsClosed: true})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, &domain.DayOverride{Date: date, IsClosed: false, Capacity: ptr.Ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByDate(ctx, date)
	require.NoError(t, err)
	assert.False(t, got.IsClosed)
	assert.Equal(t, 3, *got.Capacity)
}

func TestWorkingHours_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().WorkingHours()

	_, err := repo.GetByDayOfWeek(ctx, 1)
	assert.ErrorIs(t, err, workingHoursRepo.ErrRuleNotFound)

	_, err = repo.Upsert(ctx, &domain.WorkingHoursRule{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "12:00", SlotDurationMinutes: 30, DefaultCapacity: 2, IsActive: true})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &domain.WorkingHoursRule{DayOfWeek: 0, OpenTime: "10:00", CloseTime: "12:00", SlotDurationMinutes: 60, DefaultCapacity: 1})
	require.NoError(t, err)

	rule, err := repo.GetByDayOfWeek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), rule.OpenTime)

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 0, rules[0].DayOfWeek)
	assert.Equal(t, 1, rules[1].DayOfWeek)
}

func TestSlotOverrides_ReplaceForDate(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().SlotOverrides()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 1)

	_, err := repo.Upsert(ctx, &domain.SlotOverride{Date: other, StartTime: "08:00", EndTime: "09:00"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &domain.SlotOverride{Date: day, StartTime: "08:00", EndTime: "09:00"})
	require.NoError(t, err)

	_, err = repo.ReplaceForDate(ctx, day, []*domain.SlotOverride{
		{StartTime: "11:00", EndTime: "12:00", IsAvailable: true, Capacity: ptr.Ptr(2)},
		{StartTime: "09:00", EndTime: "10:00", IsAvailable: false},
	})
	require.NoError(t, err)

	list, err := repo.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, types.TimeString("09:00"), list[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), list[1].StartTime)

	otherList, err := repo.ListByDate(ctx, other)
	require.NoError(t, err)
	assert.Len(t, otherList, 1)

	_, err = repo.GetBySlot(ctx, domain.SlotKey{Date: day, StartTime: "08:00", EndTime: "09:00"})
	assert.ErrorIs(t, err, slotOverrideRepo.ErrOverrideNotFound)

	deleted, err := repo.Delete(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), deleted.StartTime)

	_, err = repo.Delete(ctx, list[0].ID)
	assert.ErrorIs(t, err, slotOverrideRepo.ErrOverrideNotFound)
}

func TestBookings_SingleActivePerUser(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()
	bookings := store.Bookings()

	u, err := users.UpsertByExternalID(ctx, "U1", "Alice")
	require.NoError(t, err)

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	first, err := bookings.Create(ctx, &domain.Booking{UserID: u.ID, Date: day, StartTime: "08:00", EndTime: "09:00", Status: domain.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.User.Name)

	_, err = bookings.Create(ctx, &domain.Booking{UserID: u.ID, Date: day, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed})
	assert.ErrorIs(t, err, bookingRepo.ErrActiveBookingExists)

	first.Status = domain.StatusCancelled
	require.NoError(t, bookings.Update(ctx, first))

	_, err = bookings.Create(ctx, &domain.Booking{UserID: u.ID, Date: day, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed})
	require.NoError(t, err)

	counts, err := bookings.CountsByDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"10:00-11:00": 1}, counts)

	active, err := bookings.GetActiveByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), active.StartTime)
}

func TestBookings_ListFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Seed(ctx))

	consultants, err := store.Consultants().List(ctx, true)
	require.NoError(t, err)
	require.Len(t, consultants, 2)

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for i, ext := range []string{"U1", "U2", "U3"} {
		u, err := store.Users().UpsertByExternalID(ctx, ext, "")
		require.NoError(t, err)
		b := &domain.Booking{
			UserID:    u.ID,
			Date:      day.AddDate(0, 0, i),
			StartTime: "08:00",
			EndTime:   "09:00",
			Status:    domain.StatusConfirmed,
		}
		if i == 1 {
			b.Status = domain.StatusAssigned
			b.ConsultantID = ptr.Ptr(consultants[0].ID)
		}
		_, err = store.Bookings().Create(ctx, b)
		require.NoError(t, err)
	}

	all, err := store.Bookings().List(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ranged, err := store.Bookings().List(ctx, domain.BookingsFilter{
		StartDate: ptr.Ptr(day.AddDate(0, 0, 1)),
		EndDate:   ptr.Ptr(day.AddDate(0, 0, 2)),
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	assigned, err := store.Bookings().List(ctx, domain.BookingsFilter{ConsultantID: ptr.Ptr(consultants[0].ID)})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, domain.StatusAssigned, assigned[0].Status)
	require.NotNil(t, assigned[0].Consultant)
	assert.Equal(t, consultants[0].Name, assigned[0].Consultant.Name)
}

func TestTxManager_SerializesSections(t *testing.T) {
	store := NewStore()
	tx := store.TxManager()

	inside := 0
	maxInside := 0
	done := make(chan struct{})
	const workers = 20

	for i := 0; i < workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = tx.DoSerializable(context.Background(), func(ctx context.Context) error {
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				// вложенный вызов не блокируется
				_ = tx.Do(ctx, func(context.Context) error { return nil })
				inside--
				return nil
			})
		}()
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	assert.Equal(t, 1, maxInside)
}
