package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// 2024-01-01 понедельник
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func mondayRule() *domain.WorkingHoursRule {
	return &domain.WorkingHoursRule{
		DayOfWeek:           1,
		OpenTime:            "08:00",
		CloseTime:           "20:00",
		SlotDurationMinutes: 60,
		DefaultCapacity:     1,
		IsActive:            true,
	}
}

func TestPlan_RegularGrid(t *testing.T) {
	cfg := ResolveDay(monday, mondayRule(), nil, domain.DefaultScheduleDefaults())
	slots := Plan(cfg, nil)

	require.Len(t, slots, 12)
	assert.Equal(t, types.TimeString("08:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("19:00"), slots[11].StartTime)
	assert.Equal(t, types.TimeString("20:00"), slots[11].EndTime)

	for i, s := range slots {
		assert.Equal(t, 1, s.Capacity)
		assert.False(t, s.IsOverridden)
		if i > 0 {
			assert.Equal(t, slots[i-1].EndTime, s.StartTime, "slots must be contiguous")
		}
	}
}

func TestPlan_GridCount(t *testing.T) {
	tests := []struct {
		name     string
		open     types.TimeString
		close    types.TimeString
		duration int
		want     int
	}{
		{name: "exact fit", open: "08:00", close: "12:00", duration: 60, want: 4},
		{name: "partial tail dropped", open: "08:00", close: "12:30", duration: 60, want: 4},
		{name: "odd duration", open: "09:00", close: "17:00", duration: 45, want: 10},
		{name: "window shorter than slot", open: "09:00", close: "09:30", duration: 60, want: 0},
		{name: "end of day", open: "22:00", close: "23:59", duration: 30, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := mondayRule()
			rule.OpenTime, rule.CloseTime, rule.SlotDurationMinutes = tt.open, tt.close, tt.duration

			slots := Plan(ResolveDay(monday, rule, nil, domain.DefaultScheduleDefaults()), nil)
			assert.Len(t, slots, tt.want)
			for _, s := range slots {
				assert.False(t, s.EndTime.IsAfter(tt.close))
			}
		})
	}
}

func TestPlan_DisabledSlotRemoved(t *testing.T) {
	cfg := ResolveDay(monday, mondayRule(), nil, domain.DefaultScheduleDefaults())
	slots := Plan(cfg, []*domain.SlotOverride{
		{Date: monday, StartTime: "09:00", EndTime: "10:00", IsAvailable: false},
	})

	require.Len(t, slots, 11)
	for _, s := range slots {
		assert.NotEqual(t, types.TimeString("09:00"), s.StartTime)
	}
}

func TestPlan_CapacityOverrideAndCustomSlot(t *testing.T) {
	cfg := ResolveDay(monday, mondayRule(), nil, domain.DefaultScheduleDefaults())
	slots := Plan(cfg, []*domain.SlotOverride{
		{StartTime: "18:30", EndTime: "19:15", IsAvailable: true},
		{StartTime: "10:00", EndTime: "11:00", IsAvailable: true, Capacity: ptr.Ptr(3)},
		{StartTime: "10:00", EndTime: "10:30", IsAvailable: true, Capacity: ptr.Ptr(2)},
		{StartTime: "07:00", EndTime: "07:30", IsAvailable: true},
		{StartTime: "12:15", EndTime: "12:45", IsAvailable: false},
	})

	require.Len(t, slots, 14)

	tpl, ok := findTemplate(slots, "10:00", "11:00")
	require.True(t, ok)
	assert.Equal(t, 3, tpl.Capacity)
	assert.True(t, tpl.IsOverridden)
	assert.False(t, tpl.IsCustom)

	custom, ok := findTemplate(slots, "18:30", "19:15")
	require.True(t, ok)
	assert.True(t, custom.IsCustom)
	assert.Equal(t, 1, custom.Capacity)

	_, ok = findTemplate(slots, "07:00", "07:30")
	assert.False(t, ok, "custom slot outside the working window is ignored")

	// 10:00-10:30 идёт перед 10:00-11:00
	idx := -1
	for i, s := range slots {
		if s.StartTime == "10:00" {
			idx = i
			break
		}
	}
	require.NotEqual(t, -1, idx)
	assert.Equal(t, types.TimeString("10:30"), slots[idx].EndTime)
	assert.Equal(t, types.TimeString("11:00"), slots[idx+1].EndTime)

	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].StartTime.IsBefore(slots[i-1].StartTime))
	}
}

func TestPlan_ZeroCapacitySlotKept(t *testing.T) {
	cfg := ResolveDay(monday, mondayRule(), nil, domain.DefaultScheduleDefaults())
	slots := Plan(cfg, []*domain.SlotOverride{
		{StartTime: "08:00", EndTime: "09:00", IsAvailable: true, Capacity: ptr.Ptr(0)},
	})

	require.Len(t, slots, 12)
	assert.Equal(t, 0, slots[0].Capacity)

	slot := domain.Slot{Capacity: slots[0].Capacity}
	assert.False(t, slot.IsAvailable())
}

func TestPlan_ClosedDayIgnoresSlotOverrides(t *testing.T) {
	cfg := ResolveDay(monday, mondayRule(), &domain.DayOverride{Date: monday, IsClosed: true}, domain.DefaultScheduleDefaults())
	slots := Plan(cfg, []*domain.SlotOverride{
		{StartTime: "18:30", EndTime: "19:15", IsAvailable: true},
	})

	assert.Equal(t, domain.DayClosedByOverride, cfg.Status)
	assert.Empty(t, slots)
}

func TestPlan_Deterministic(t *testing.T) {
	cfg := ResolveDay(monday, mondayRule(), nil, domain.DefaultScheduleDefaults())
	overrides := []*domain.SlotOverride{
		{StartTime: "18:30", EndTime: "19:15", IsAvailable: true},
		{StartTime: "12:15", EndTime: "12:45", IsAvailable: true},
		{StartTime: "09:00", EndTime: "10:00", IsAvailable: false},
	}

	first := Plan(cfg, overrides)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Plan(cfg, overrides))
	}
}
