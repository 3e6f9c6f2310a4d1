package get_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// UseCase use case для получения слотов дня
type UseCase struct {
	generator    SlotGenerator
	window       domain.BookingWindow
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(generator SlotGenerator, window domain.BookingWindow, logger Logger) *UseCase {
	return &UseCase{
		generator:    generator,
		window:       window,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов.
// Даты вне окна бронирования не ошибка: слоты возвращаются, но недоступны.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSlots: validation failed: %v", err)
		return nil, err
	}

	date := types.NormalizeDate(req.Date)
	uc.logger.Info("GetSlots: date=%s", types.FormatDate(date))

	// 2. Генерируем слоты с живой занятостью
	day, err := uc.generator.Generate(ctx, date)
	if err != nil {
		uc.logger.Error("GetSlots: failed to generate slots for %s: %v", types.FormatDate(date), err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 3. Окно бронирования считается в часовом поясе клиники
	bookable := uc.window.Contains(date, uc.timeProvider.Now())

	resp := &Response{
		Date:      date,
		DayStatus: day.Status,
		Bookable:  bookable,
		Slots:     make([]Slot, 0, len(day.Slots)),
	}
	for _, s := range day.Slots {
		resp.Slots = append(resp.Slots, Slot{
			ID:             s.ID(),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Capacity:       s.Capacity,
			BookedCount:    s.BookedCount,
			AvailableCount: s.AvailableCount(),
			IsAvailable:    bookable && s.IsAvailable(),
			IsOverridden:   s.IsOverridden,
			IsCustom:       s.IsCustom,
		})
	}

	uc.logger.Info("GetSlots: %s status=%s, %d slots", types.FormatDate(date), day.Status, len(resp.Slots))
	return resp, nil
}
