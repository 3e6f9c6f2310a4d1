package slots

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// DayConfig эффективная конфигурация дня после разрешения приоритетов
type DayConfig struct {
	Date                time.Time
	Status              domain.DayStatus
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
	Capacity            int
}

// IsOpen возвращает true, если для дня строится сетка слотов
func (c DayConfig) IsOpen() bool {
	return c.Status == domain.DayOpen || c.Status == domain.DayOpenNoSlots
}

// firstOf возвращает первое заданное значение цепочки. Последний элемент
// цепочки всегда задан.
func firstOf[T any](chain ...*T) T {
	for _, v := range chain {
		if v != nil {
			return *v
		}
	}
	var zero T
	return zero
}

// ResolveDay вычисляет конфигурацию дня.
// Приоритет: переопределение дня, затем правило дня недели, затем значения по умолчанию.
// Значения по умолчанию используются только когда переопределение с часами
// открывает день недели без активного правила.
func ResolveDay(date time.Time, rule *domain.WorkingHoursRule, override *domain.DayOverride, defaults domain.ScheduleDefaults) DayConfig {
	cfg := DayConfig{Date: types.NormalizeDate(date)}

	if override != nil && override.IsClosed {
		cfg.Status = domain.DayClosedByOverride
		return cfg
	}

	if rule != nil && !rule.IsActive {
		rule = nil
	}
	if override == nil {
		override = &domain.DayOverride{}
	}

	if rule == nil && (override.OpenTime == nil || override.CloseTime == nil) {
		cfg.Status = domain.DayNotConfigured
		return cfg
	}

	var ruleOpen, ruleClose *types.TimeString
	var ruleDuration, ruleCapacity *int
	if rule != nil {
		ruleOpen, ruleClose = &rule.OpenTime, &rule.CloseTime
		ruleDuration, ruleCapacity = &rule.SlotDurationMinutes, &rule.DefaultCapacity
	}

	cfg.Status = domain.DayOpen
	cfg.OpenTime = firstOf(override.OpenTime, ruleOpen, &defaults.OpenTime)
	cfg.CloseTime = firstOf(override.CloseTime, ruleClose, &defaults.CloseTime)
	cfg.SlotDurationMinutes = firstOf(ruleDuration, &defaults.SlotDurationMinutes)
	cfg.Capacity = firstOf(override.Capacity, ruleCapacity, &defaults.Capacity)

	return cfg
}
