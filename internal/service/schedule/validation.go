package schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/internal/service/schedule/models"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// parseTimeRange разбирает и проверяет пару "HH:MM", start < end
func parseTimeRange(start, end string) (types.TimeString, types.TimeString, error) {
	startTime, err := types.NewTimeStringFromString(start)
	if err != nil {
		return "", "", fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	endTime, err := types.NewTimeStringFromString(end)
	if err != nil {
		return "", "", fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !startTime.IsBefore(endTime) {
		return "", "", fmt.Errorf("%w: start time %s must be before end time %s", ErrInvalidInput, startTime, endTime)
	}
	return startTime, endTime, nil
}

func validateCapacity(capacity int, min int) error {
	if capacity < min || capacity > domain.MaxCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d", ErrInvalidInput, min, domain.MaxCapacity)
	}
	return nil
}

func validateReason(reason *string) error {
	if reason != nil && len([]rune(*reason)) > domain.MaxOverrideReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxOverrideReasonLength)
	}
	return nil
}

// toDomainRule валидирует правило дня недели
func toDomainRule(req models.WorkingHoursRuleRequest) (*domain.WorkingHoursRule, error) {
	if req.DayOfWeek < int(time.Sunday) || req.DayOfWeek > int(time.Saturday) {
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	openTime, closeTime, err := parseTimeRange(req.OpenTime, req.CloseTime)
	if err != nil {
		return nil, err
	}

	if req.SlotDurationMinutes < domain.MinSlotDurationMinutes || req.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if err := validateCapacity(req.DefaultCapacity, 1); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &domain.WorkingHoursRule{
		DayOfWeek:           req.DayOfWeek,
		OpenTime:            openTime,
		CloseTime:           closeTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		DefaultCapacity:     req.DefaultCapacity,
		IsActive:            isActive,
	}, nil
}

// toDomainDayOverride валидирует переопределение дня
func toDomainDayOverride(date time.Time, req *models.SetDayOverrideRequest) (*domain.DayOverride, error) {
	o := &domain.DayOverride{
		Date:      types.NormalizeDate(date),
		IsClosed:  req.IsClosed,
		Reason:    req.Reason,
		CreatedBy: req.CreatedBy,
	}

	if req.OpenTime != nil {
		t, err := types.NewTimeStringFromString(*req.OpenTime)
		if err != nil {
			return nil, fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
		}
		o.OpenTime = &t
	}
	if req.CloseTime != nil {
		t, err := types.NewTimeStringFromString(*req.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
		}
		o.CloseTime = &t
	}
	if o.OpenTime != nil && o.CloseTime != nil && !o.OpenTime.IsBefore(*o.CloseTime) {
		return nil, fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity, 0); err != nil {
			return nil, err
		}
		o.Capacity = req.Capacity
	}

	if err := validateReason(req.Reason); err != nil {
		return nil, err
	}

	return o, nil
}

// toDomainSlotOverride валидирует переопределение слота
func toDomainSlotOverride(date time.Time, req models.SlotOverrideRequest) (*domain.SlotOverride, error) {
	startTime, endTime, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity, 0); err != nil {
			return nil, err
		}
	}

	if err := validateReason(req.Reason); err != nil {
		return nil, err
	}

	return &domain.SlotOverride{
		Date:        types.NormalizeDate(date),
		StartTime:   startTime,
		EndTime:     endTime,
		IsAvailable: req.IsAvailable,
		Capacity:    req.Capacity,
		Reason:      req.Reason,
		CreatedBy:   req.CreatedBy,
	}, nil
}
