package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	dayOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/dayoverride"
	slotOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/slotoverride"
	workingHoursRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/workinghours"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// WorkingHoursRepository in-memory аналог workinghours.Repository
type WorkingHoursRepository struct {
	s *Store
}

func (r *WorkingHoursRepository) GetByDayOfWeek(_ context.Context, dayOfWeek int) (*domain.WorkingHoursRule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rule, ok := r.s.rules[dayOfWeek]
	if !ok {
		return nil, workingHoursRepo.ErrRuleNotFound
	}
	out := *rule
	return &out, nil
}

func (r *WorkingHoursRepository) List(_ context.Context) ([]*domain.WorkingHoursRule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rules := make([]*domain.WorkingHoursRule, 0, len(r.s.rules))
	for _, rule := range r.s.rules {
		out := *rule
		rules = append(rules, &out)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].DayOfWeek < rules[j].DayOfWeek })
	return rules, nil
}

func (r *WorkingHoursRepository) Upsert(_ context.Context, rule *domain.WorkingHoursRule) (*domain.WorkingHoursRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if existing, ok := r.s.rules[rule.DayOfWeek]; ok {
		rule.ID = existing.ID
		rule.CreatedAt = existing.CreatedAt
	} else {
		rule.ID = r.s.id()
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	stored := *rule
	r.s.rules[rule.DayOfWeek] = &stored
	return rule, nil
}

// DayOverrideRepository in-memory аналог dayoverride.Repository.
// Ключ карты всегда types.NormalizeDate(date).
type DayOverrideRepository struct {
	s *Store
}

func (r *DayOverrideRepository) GetByDate(_ context.Context, date time.Time) (*domain.DayOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.dayOverrides[types.NormalizeDate(date)]
	if !ok {
		return nil, dayOverrideRepo.ErrOverrideNotFound
	}
	out := *o
	return &out, nil
}

func (r *DayOverrideRepository) Upsert(_ context.Context, o *domain.DayOverride) (*domain.DayOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o.Date = types.NormalizeDate(o.Date)
	now := r.s.now()
	if existing, ok := r.s.dayOverrides[o.Date]; ok {
		o.ID = existing.ID
		o.CreatedAt = existing.CreatedAt
	} else {
		o.ID = r.s.id()
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	stored := *o
	r.s.dayOverrides[o.Date] = &stored
	return o, nil
}

func (r *DayOverrideRepository) DeleteByDate(_ context.Context, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := types.NormalizeDate(date)
	if _, ok := r.s.dayOverrides[key]; !ok {
		return dayOverrideRepo.ErrOverrideNotFound
	}
	delete(r.s.dayOverrides, key)
	return nil
}

// SlotOverrideRepository in-memory аналог slotoverride.Repository
type SlotOverrideRepository struct {
	s *Store
}

func (r *SlotOverrideRepository) ListByDate(_ context.Context, date time.Time) ([]*domain.SlotOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	day := types.NormalizeDate(date)
	result := make([]*domain.SlotOverride, 0)
	for _, o := range r.s.slotOverrides {
		if o.Date.Equal(day) {
			out := *o
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].EndTime.IsBefore(result[j].EndTime)
	})
	return result, nil
}

func (r *SlotOverrideRepository) GetBySlot(_ context.Context, key domain.SlotKey) (*domain.SlotOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if o := r.find(key); o != nil {
		out := *o
		return &out, nil
	}
	return nil, slotOverrideRepo.ErrOverrideNotFound
}

func (r *SlotOverrideRepository) ReplaceForDate(_ context.Context, date time.Time, overrides []*domain.SlotOverride) ([]*domain.SlotOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	day := types.NormalizeDate(date)
	for id, o := range r.s.slotOverrides {
		if o.Date.Equal(day) {
			delete(r.s.slotOverrides, id)
		}
	}

	for _, o := range overrides {
		o.Date = day
		r.upsertLocked(o)
	}
	return overrides, nil
}

func (r *SlotOverrideRepository) Upsert(_ context.Context, o *domain.SlotOverride) (*domain.SlotOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o.Date = types.NormalizeDate(o.Date)
	r.upsertLocked(o)
	return o, nil
}

func (r *SlotOverrideRepository) Delete(_ context.Context, id int64) (*domain.SlotOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.slotOverrides[id]
	if !ok {
		return nil, slotOverrideRepo.ErrOverrideNotFound
	}
	delete(r.s.slotOverrides, id)
	return o, nil
}

func (r *SlotOverrideRepository) upsertLocked(o *domain.SlotOverride) {
	now := r.s.now()
	if existing := r.find(o.Key()); existing != nil {
		o.ID = existing.ID
		o.CreatedAt = existing.CreatedAt
	} else {
		o.ID = r.s.id()
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	stored := *o
	r.s.slotOverrides[o.ID] = &stored
}

func (r *SlotOverrideRepository) find(key domain.SlotKey) *domain.SlotOverride {
	day := types.NormalizeDate(key.Date)
	for _, o := range r.s.slotOverrides {
		if o.Date.Equal(day) && o.StartTime == key.StartTime && o.EndTime == key.EndTime {
			return o
		}
	}
	return nil
}
