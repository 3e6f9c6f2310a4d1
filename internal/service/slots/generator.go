package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	slotCache "github.com/m04kA/counseling-booking-service/internal/infra/cache/slots"
	dayOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/dayoverride"
	workingHoursRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/workinghours"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// DayPlan шаблоны слотов дня без занятости
type DayPlan struct {
	Config DayConfig
	Status domain.DayStatus
	Slots  []domain.SlotTemplate
}

// DaySlots слоты дня с живой занятостью
type DaySlots struct {
	Date   time.Time
	Status domain.DayStatus
	Slots  []*domain.Slot
}

// Generator генератор слотов
type Generator struct {
	workingHours  WorkingHoursRepository
	dayOverrides  DayOverrideRepository
	slotOverrides SlotOverrideRepository
	bookings      BookingCounter
	defaults      domain.ScheduleDefaults
	cache         Cache
	metrics       Metrics
	logger        Logger
}

// NewGenerator создает генератор без кэша
func NewGenerator(
	workingHours WorkingHoursRepository,
	dayOverrides DayOverrideRepository,
	slotOverrides SlotOverrideRepository,
	bookings BookingCounter,
	defaults domain.ScheduleDefaults,
	logger Logger,
) *Generator {
	return &Generator{
		workingHours:  workingHours,
		dayOverrides:  dayOverrides,
		slotOverrides: slotOverrides,
		bookings:      bookings,
		defaults:      defaults,
		logger:        logger,
	}
}

// WithCache подключает материализацию дней
func (g *Generator) WithCache(cache Cache) *Generator {
	g.cache = cache
	return g
}

// WithMetrics подключает метрики кэша
func (g *Generator) WithMetrics(metrics Metrics) *Generator {
	g.metrics = metrics
	return g
}

// Plan читает хранилища и строит шаблоны дня. Кэш не используется.
func (g *Generator) Plan(ctx context.Context, date time.Time) (*DayPlan, error) {
	date = types.NormalizeDate(date)

	rule, err := g.workingHours.GetByDayOfWeek(ctx, int(date.Weekday()))
	if err != nil {
		if !errors.Is(err, workingHoursRepo.ErrRuleNotFound) {
			return nil, fmt.Errorf("%w: Plan - working hours: %v", ErrInternal, err)
		}
		rule = nil
	}

	override, err := g.dayOverrides.GetByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, dayOverrideRepo.ErrOverrideNotFound) {
			return nil, fmt.Errorf("%w: Plan - day override: %v", ErrInternal, err)
		}
		override = nil
	}

	cfg := ResolveDay(date, rule, override, g.defaults)
	plan := &DayPlan{Config: cfg, Status: cfg.Status}
	if !cfg.IsOpen() {
		plan.Slots = []domain.SlotTemplate{}
		return plan, nil
	}

	overrides, err := g.slotOverrides.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: Plan - slot overrides: %v", ErrInternal, err)
	}

	plan.Slots = Plan(cfg, overrides)
	if len(plan.Slots) == 0 {
		plan.Status = domain.DayOpenNoSlots
	}

	return plan, nil
}

// Generate возвращает слоты дня с занятостью. Шаблоны берутся из кэша,
// если он подключен; занятость всегда читается из хранилища.
func (g *Generator) Generate(ctx context.Context, date time.Time) (*DaySlots, error) {
	date = types.NormalizeDate(date)

	entry, err := g.templates(ctx, date)
	if err != nil {
		return nil, err
	}

	counts, err := g.bookings.CountsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: Generate - booking counts: %v", ErrInternal, err)
	}

	result := &DaySlots{
		Date:   date,
		Status: entry.Status,
		Slots:  make([]*domain.Slot, 0, len(entry.Slots)),
	}
	for _, tpl := range entry.Slots {
		result.Slots = append(result.Slots, &domain.Slot{
			Date:         date,
			StartTime:    tpl.StartTime,
			EndTime:      tpl.EndTime,
			Capacity:     tpl.Capacity,
			BookedCount:  counts[domain.TimeRange(tpl.StartTime, tpl.EndTime)],
			IsOverridden: tpl.IsOverridden,
			IsCustom:     tpl.IsCustom,
		})
	}

	return result, nil
}

// ResolveSlot заново вычисляет слот по текущему состоянию хранилищ.
// Используется при бронировании, кэш не читается.
func (g *Generator) ResolveSlot(ctx context.Context, key domain.SlotKey) (*domain.SlotTemplate, domain.DayStatus, error) {
	plan, err := g.Plan(ctx, key.Date)
	if err != nil {
		return nil, "", err
	}

	tpl, ok := findTemplate(plan.Slots, key.StartTime, key.EndTime)
	if !ok {
		return nil, plan.Status, ErrSlotNotFound
	}
	return &tpl, plan.Status, nil
}

// Invalidate сбрасывает материализацию всех дней
func (g *Generator) Invalidate(ctx context.Context) error {
	if g.cache == nil {
		return nil
	}
	return g.cache.Invalidate(ctx)
}

// ClearDate сбрасывает материализацию одного дня
func (g *Generator) ClearDate(ctx context.Context, date time.Time) error {
	if g.cache == nil {
		return nil
	}
	return g.cache.ClearDate(ctx, types.NormalizeDate(date))
}

func (g *Generator) templates(ctx context.Context, date time.Time) (*slotCache.Entry, error) {
	var key slotCache.Key
	if g.cache != nil {
		entry, k, err := g.cache.Get(ctx, date)
		switch {
		case err != nil:
			g.observeCache(cacheError)
			g.logger.Warn("Generate: slot cache read failed for date=%s: %v", types.FormatDate(date), err)
		case entry != nil:
			g.observeCache(cacheHit)
			return entry, nil
		default:
			g.observeCache(cacheMiss)
			key = k
		}
	}

	plan, err := g.Plan(ctx, date)
	if err != nil {
		return nil, err
	}
	entry := &slotCache.Entry{Status: plan.Status, Slots: plan.Slots}

	// Ключ взят до построения плана: если расписание изменилось в процессе,
	// запись останется в старом поколении и не будет прочитана
	if key != "" {
		if _, err := g.cache.PutIfAbsent(ctx, key, entry); err != nil {
			g.logger.Warn("Generate: slot cache write failed for date=%s: %v", types.FormatDate(date), err)
		}
	}

	return entry, nil
}

func (g *Generator) observeCache(result string) {
	if g.metrics != nil {
		g.metrics.IncSlotCache(result)
	}
}
