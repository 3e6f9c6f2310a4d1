package slots

import (
	"sort"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Plan строит шаблоны слотов дня: регулярная сетка, затем переопределения
// слотов, затем дополнительные пользовательские слоты. Результат отсортирован
// по началу, затем по концу. Функция чистая.
func Plan(cfg DayConfig, overrides []*domain.SlotOverride) []domain.SlotTemplate {
	result := make([]domain.SlotTemplate, 0)
	if !cfg.IsOpen() || cfg.SlotDurationMinutes <= 0 {
		return result
	}

	open, err := cfg.OpenTime.Minutes()
	if err != nil {
		return result
	}
	closeAt, err := cfg.CloseTime.Minutes()
	if err != nil {
		return result
	}

	byRange := make(map[string]*domain.SlotOverride, len(overrides))
	for _, o := range overrides {
		byRange[domain.TimeRange(o.StartTime, o.EndTime)] = o
	}
	matched := make(map[string]struct{}, len(overrides))

	for cur := open; cur+cfg.SlotDurationMinutes <= closeAt; cur += cfg.SlotDurationMinutes {
		tpl := domain.SlotTemplate{
			StartTime: types.MinutesToTime(cur),
			EndTime:   types.MinutesToTime(cur + cfg.SlotDurationMinutes),
			Capacity:  cfg.Capacity,
		}

		key := domain.TimeRange(tpl.StartTime, tpl.EndTime)
		if o, ok := byRange[key]; ok {
			matched[key] = struct{}{}
			if !o.IsAvailable {
				continue
			}
			tpl.IsOverridden = true
			if o.Capacity != nil {
				tpl.Capacity = *o.Capacity
			}
		}

		result = append(result, tpl)
	}

	for key, o := range byRange {
		if _, ok := matched[key]; ok || !o.IsAvailable {
			continue
		}
		if !withinWindow(o, open, closeAt) {
			continue
		}

		tpl := domain.SlotTemplate{
			StartTime:    o.StartTime,
			EndTime:      o.EndTime,
			Capacity:     cfg.Capacity,
			IsOverridden: true,
			IsCustom:     true,
		}
		if o.Capacity != nil {
			tpl.Capacity = *o.Capacity
		}
		result = append(result, tpl)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].EndTime.IsBefore(result[j].EndTime)
	})

	return result
}

// withinWindow пользовательский слот должен лежать внутри окна работы дня
func withinWindow(o *domain.SlotOverride, open, closeAt int) bool {
	start, err := o.StartTime.Minutes()
	if err != nil {
		return false
	}
	end, err := o.EndTime.Minutes()
	if err != nil {
		return false
	}
	return start < end && start >= open && end <= closeAt
}

// findTemplate ищет слот по точным границам
func findTemplate(templates []domain.SlotTemplate, start, end types.TimeString) (domain.SlotTemplate, bool) {
	for _, tpl := range templates {
		if tpl.StartTime == start && tpl.EndTime == end {
			return tpl, true
		}
	}
	return domain.SlotTemplate{}, false
}
