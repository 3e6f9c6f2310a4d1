package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	dayOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/dayoverride"
	slotOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/slotoverride"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Service сервис управления расписанием: недельные правила,
// переопределения дней и слотов
type Service struct {
	workingHoursRepo WorkingHoursRepository
	dayOverrideRepo  DayOverrideRepository
	slotOverrideRepo SlotOverrideRepository
	slots            SlotsInvalidator
	txManager        TransactionManager
	defaults         domain.ScheduleDefaults
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	workingHoursRepo WorkingHoursRepository,
	dayOverrideRepo DayOverrideRepository,
	slotOverrideRepo SlotOverrideRepository,
	slots SlotsInvalidator,
	txManager TransactionManager,
	defaults domain.ScheduleDefaults,
	logger Logger,
) *Service {
	return &Service{
		workingHoursRepo: workingHoursRepo,
		dayOverrideRepo:  dayOverrideRepo,
		slotOverrideRepo: slotOverrideRepo,
		slots:            slots,
		txManager:        txManager,
		defaults:         defaults,
		logger:           logger,
	}
}

// ListWorkingHours возвращает правила всех 7 дней недели.
// Для ненастроенных дней возвращается неактивное правило со значениями по умолчанию.
func (s *Service) ListWorkingHours(ctx context.Context) (*models.WorkingHoursListResponse, error) {
	rules, err := s.workingHoursRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListWorkingHours - repository error: %v", ErrInternal, err)
	}

	byDay := make(map[int]*domain.WorkingHoursRule, len(rules))
	for _, r := range rules {
		byDay[r.DayOfWeek] = r
	}

	resp := &models.WorkingHoursListResponse{Rules: make([]models.WorkingHoursResponse, 0, 7)}
	for day := time.Sunday; day <= time.Saturday; day++ {
		rule, ok := byDay[int(day)]
		if !ok {
			rule = &domain.WorkingHoursRule{
				DayOfWeek:           int(day),
				OpenTime:            s.defaults.OpenTime,
				CloseTime:           s.defaults.CloseTime,
				SlotDurationMinutes: s.defaults.SlotDurationMinutes,
				DefaultCapacity:     s.defaults.Capacity,
			}
		}
		resp.Rules = append(resp.Rules, models.FromDomainRule(rule))
	}

	return resp, nil
}

// UpdateWorkingHours создает или заменяет правила дней недели
func (s *Service) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursListResponse, error) {
	s.logger.Info("UpdateWorkingHours: updating %d rules", len(req.Rules))

	if len(req.Rules) == 0 {
		return nil, fmt.Errorf("%w: rules are required", ErrInvalidInput)
	}

	rules := make([]*domain.WorkingHoursRule, 0, len(req.Rules))
	seen := make(map[int]struct{}, len(req.Rules))
	for _, r := range req.Rules {
		rule, err := toDomainRule(r)
		if err != nil {
			s.logger.Warn("UpdateWorkingHours: validation failed for day=%d: %v", r.DayOfWeek, err)
			return nil, err
		}
		if _, dup := seen[rule.DayOfWeek]; dup {
			return nil, fmt.Errorf("%w: duplicate dayOfWeek %d", ErrInvalidInput, rule.DayOfWeek)
		}
		seen[rule.DayOfWeek] = struct{}{}
		rules = append(rules, rule)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, rule := range rules {
			if _, err := s.workingHoursRepo.Upsert(txCtx, rule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "UpdateWorkingHours")

	s.logger.Info("UpdateWorkingHours: successfully updated %d rules", len(rules))
	return s.ListWorkingHours(ctx)
}

// GetDayOverride возвращает переопределение дня
func (s *Service) GetDayOverride(ctx context.Context, date time.Time) (*models.DayOverrideResponse, error) {
	override, err := s.dayOverrideRepo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, dayOverrideRepo.ErrOverrideNotFound) {
			return nil, ErrDayOverrideNotFound
		}
		s.logger.Error("GetDayOverride: repository error for date=%s: %v", types.FormatDate(date), err)
		return nil, fmt.Errorf("%w: GetDayOverride - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDayOverride(override), nil
}

// SetDayOverride создает или заменяет переопределение дня.
// Открытый день без собственных часов и вместимости означает отсутствие
// переопределения: запись удаляется, и возвращается nil.
func (s *Service) SetDayOverride(ctx context.Context, date time.Time, req *models.SetDayOverrideRequest) (*models.DayOverrideResponse, error) {
	s.logger.Info("SetDayOverride: date=%s, closed=%t", types.FormatDate(date), req.IsClosed)

	override, err := toDomainDayOverride(date, req)
	if err != nil {
		s.logger.Warn("SetDayOverride: validation failed: %v", err)
		return nil, err
	}

	if !override.IsClosed && !override.HasCustomHours() {
		if err := s.clearDayOverride(ctx, date); err != nil && !errors.Is(err, ErrDayOverrideNotFound) {
			return nil, err
		}
		s.invalidate(ctx, "SetDayOverride")
		return nil, nil
	}

	saved, err := s.dayOverrideRepo.Upsert(ctx, override)
	if err != nil {
		s.logger.Error("SetDayOverride: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetDayOverride - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "SetDayOverride")

	s.logger.Info("SetDayOverride: saved override id=%d for date=%s", saved.ID, types.FormatDate(saved.Date))
	return models.FromDomainDayOverride(saved), nil
}

// ClearDayOverride удаляет переопределение дня
func (s *Service) ClearDayOverride(ctx context.Context, date time.Time) error {
	s.logger.Info("ClearDayOverride: date=%s", types.FormatDate(date))

	if err := s.clearDayOverride(ctx, date); err != nil {
		return err
	}

	s.invalidate(ctx, "ClearDayOverride")
	return nil
}

// SetDayStatus переключает день. CLOSED сохраняет собственные часы дня,
// OPEN снимает закрытие: переопределение без собственных часов удаляется.
func (s *Service) SetDayStatus(ctx context.Context, date time.Time, req *models.SetDayStatusRequest) (*models.DayStatusResponse, error) {
	s.logger.Info("SetDayStatus: date=%s, status=%s", types.FormatDate(date), req.Status)

	if req.Status != models.DayStatusOpen && req.Status != models.DayStatusClosed {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, models.DayStatusOpen, models.DayStatusClosed)
	}
	if err := validateReason(req.Reason); err != nil {
		return nil, err
	}

	existing, err := s.dayOverrideRepo.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, dayOverrideRepo.ErrOverrideNotFound) {
		s.logger.Error("SetDayStatus: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetDayStatus - repository error: %v", ErrInternal, err)
	}

	resp := &models.DayStatusResponse{Date: types.FormatDate(date), Status: req.Status}

	switch {
	case req.Status == models.DayStatusClosed:
		override := &domain.DayOverride{Date: types.NormalizeDate(date)}
		if existing != nil {
			override = existing
		}
		override.IsClosed = true
		override.Reason = req.Reason
		override.CreatedBy = req.CreatedBy

		saved, err := s.dayOverrideRepo.Upsert(ctx, override)
		if err != nil {
			s.logger.Error("SetDayStatus: repository error: %v", err)
			return nil, fmt.Errorf("%w: SetDayStatus - repository error: %v", ErrInternal, err)
		}
		resp.Override = models.FromDomainDayOverride(saved)

	case existing != nil && existing.HasCustomHours():
		existing.IsClosed = false
		existing.Reason = req.Reason
		existing.CreatedBy = req.CreatedBy

		saved, err := s.dayOverrideRepo.Upsert(ctx, existing)
		if err != nil {
			s.logger.Error("SetDayStatus: repository error: %v", err)
			return nil, fmt.Errorf("%w: SetDayStatus - repository error: %v", ErrInternal, err)
		}
		resp.Override = models.FromDomainDayOverride(saved)

	case existing != nil:
		if err := s.clearDayOverride(ctx, date); err != nil && !errors.Is(err, ErrDayOverrideNotFound) {
			return nil, err
		}
	}

	s.invalidate(ctx, "SetDayStatus")
	return resp, nil
}

// ListSlotOverrides возвращает переопределения слотов дня, упорядоченные по началу
func (s *Service) ListSlotOverrides(ctx context.Context, date time.Time) (*models.SlotOverrideListResponse, error) {
	overrides, err := s.slotOverrideRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("ListSlotOverrides: repository error for date=%s: %v", types.FormatDate(date), err)
		return nil, fmt.Errorf("%w: ListSlotOverrides - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotOverrideList(date, overrides), nil
}

// ReplaceSlotOverrides атомарно заменяет все переопределения слотов дня
func (s *Service) ReplaceSlotOverrides(ctx context.Context, date time.Time, req *models.ReplaceSlotOverridesRequest) (*models.SlotOverrideListResponse, error) {
	s.logger.Info("ReplaceSlotOverrides: date=%s, count=%d", types.FormatDate(date), len(req.Overrides))

	if len(req.Overrides) > domain.MaxSlotOverridesPerDay {
		return nil, fmt.Errorf("%w: at most %d slot overrides per day", ErrInvalidInput, domain.MaxSlotOverridesPerDay)
	}

	overrides := make([]*domain.SlotOverride, 0, len(req.Overrides))
	seen := make(map[string]struct{}, len(req.Overrides))
	for _, r := range req.Overrides {
		if r.CreatedBy == nil {
			r.CreatedBy = req.CreatedBy
		}
		o, err := toDomainSlotOverride(date, r)
		if err != nil {
			s.logger.Warn("ReplaceSlotOverrides: validation failed: %v", err)
			return nil, err
		}

		key := o.Key().TimeRange()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %s", ErrInvalidInput, key)
		}
		seen[key] = struct{}{}
		overrides = append(overrides, o)
	}

	var saved []*domain.SlotOverride
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.slotOverrideRepo.ReplaceForDate(txCtx, date, overrides)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceSlotOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReplaceSlotOverrides - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "ReplaceSlotOverrides")

	s.logger.Info("ReplaceSlotOverrides: saved %d overrides for date=%s", len(saved), types.FormatDate(date))
	return s.ListSlotOverrides(ctx, date)
}

// UpsertSlotOverride создает или заменяет переопределение одного слота
func (s *Service) UpsertSlotOverride(ctx context.Context, req *models.SlotOverrideRequest) (*models.SlotOverrideResponse, error) {
	s.logger.Info("UpsertSlotOverride: date=%s, slot=%s-%s", req.Date, req.StartTime, req.EndTime)

	date, err := types.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	override, err := toDomainSlotOverride(date, *req)
	if err != nil {
		s.logger.Warn("UpsertSlotOverride: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.slotOverrideRepo.Upsert(ctx, override)
	if err != nil {
		s.logger.Error("UpsertSlotOverride: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertSlotOverride - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "UpsertSlotOverride")

	resp := models.FromDomainSlotOverride(saved)
	return &resp, nil
}

// DeleteSlotOverride удаляет переопределение слота по ID
func (s *Service) DeleteSlotOverride(ctx context.Context, id int64) error {
	s.logger.Info("DeleteSlotOverride: id=%d", id)

	deleted, err := s.slotOverrideRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, slotOverrideRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteSlotOverride: override id=%d not found", id)
			return ErrSlotOverrideNotFound
		}
		s.logger.Error("DeleteSlotOverride: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteSlotOverride - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteSlotOverride")

	s.logger.Info("DeleteSlotOverride: deleted override for date=%s, slot=%s",
		types.FormatDate(deleted.Date), deleted.Key().TimeRange())
	return nil
}

// ClearMaterializedSlots удаляет материализованные слоты одного дня
func (s *Service) ClearMaterializedSlots(ctx context.Context, date time.Time) error {
	s.logger.Info("ClearMaterializedSlots: date=%s", types.FormatDate(date))

	if err := s.slots.ClearDate(ctx, date); err != nil {
		s.logger.Error("ClearMaterializedSlots: cache error for date=%s: %v", types.FormatDate(date), err)
		return fmt.Errorf("%w: ClearMaterializedSlots - cache error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) clearDayOverride(ctx context.Context, date time.Time) error {
	if err := s.dayOverrideRepo.DeleteByDate(ctx, date); err != nil {
		if errors.Is(err, dayOverrideRepo.ErrOverrideNotFound) {
			return ErrDayOverrideNotFound
		}
		s.logger.Error("ClearDayOverride: repository error for date=%s: %v", types.FormatDate(date), err)
		return fmt.Errorf("%w: ClearDayOverride - repository error: %v", ErrInternal, err)
	}
	return nil
}

// invalidate сбрасывает материализацию после записи. Ошибка кэша не отменяет запись.
func (s *Service) invalidate(ctx context.Context, op string) {
	if err := s.slots.Invalidate(ctx); err != nil {
		s.logger.Error("%s: failed to invalidate slot cache: %v", op, err)
	}
}
