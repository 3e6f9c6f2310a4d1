package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/booking"
	"github.com/m04kA/counseling-booking-service/internal/service/slots"
	"github.com/m04kA/counseling-booking-service/pkg/txmanager"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

const operation = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	slots        SlotResolver
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	window       domain.BookingWindow
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	slots SlotResolver,
	txManager TransactionManager,
	notifier Notifier,
	window domain.BookingWindow,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		slots:        slots,
		txManager:    txManager,
		notifier:     notifier,
		window:       window,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithMetrics подключает метрики
func (uc *UseCase) WithMetrics(metrics Metrics) *UseCase {
	uc.metrics = metrics
	return uc
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка вместимости и вставка выполняются в одной сериализуемой транзакции
// под блокировкой слота.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	uc.logger.Info("CreateBooking: user=%s, date=%s, time=%s-%s",
		req.LineUserID, types.FormatDate(req.Date), req.StartTime, req.EndTime)

	booking, err := uc.execute(ctx, req)
	uc.observe(err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", booking.ID)

	// Уведомление не влияет на результат бронирования
	if uc.notifier != nil {
		uc.notifier.Notify(domain.EventBookingCreated, booking, nil)
	}

	return &Response{Booking: booking}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	key := domain.SlotKey{
		Date:      types.NormalizeDate(req.Date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	// 2. Проверяем окно бронирования
	if err := validateDate(key.Date, uc.timeProvider.Now(), uc.window); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 3. Выполняем проверки и вставку в сериализуемой транзакции.
	// Ошибки хранилища оборачиваются через %w: по ним txmanager решает о повторе.
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Находим или создаем пользователя (строка блокируется до конца транзакции)
		user, err := uc.userRepo.UpsertByExternalID(txCtx, req.LineUserID, strings.TrimSpace(req.UserName))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to upsert user %s: %v", req.LineUserID, err)
			return fmt.Errorf("%w: failed to upsert user: %w", ErrInternal, err)
		}

		// 3.2. Одно активное бронирование на пользователя (на любую дату)
		active, err := uc.bookingRepo.GetActiveByUserID(txCtx, user.ID)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateBooking: failed to get active booking for user id=%d: %v", user.ID, err)
			return fmt.Errorf("%w: failed to get active booking: %w", ErrInternal, err)
		}
		if active != nil {
			uc.logger.Warn("CreateBooking: user id=%d already has active booking id=%d", user.ID, active.ID)
			return ErrActiveBookingExists
		}

		// 3.3. Заново вычисляем слот по расписанию
		tpl, status, err := uc.slots.ResolveSlot(txCtx, key)
		if status == domain.DayClosedByOverride {
			uc.logger.Warn("CreateBooking: day %s is closed", types.FormatDate(key.Date))
			return ErrDayClosed
		}
		if errors.Is(err, slots.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: slot %s not found (day status %s)", key.ID(), status)
			return ErrSlotNotFound
		}
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve slot %s: %v", key.ID(), err)
			return fmt.Errorf("%w: failed to resolve slot: %w", ErrInternal, err)
		}

		// 3.4. Блокируем слот и считаем занятость
		if err := uc.bookingRepo.LockSlot(txCtx, key); err != nil {
			uc.logger.Error("CreateBooking: failed to lock slot %s: %v", key.ID(), err)
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		booked, err := uc.bookingRepo.CountBySlot(txCtx, key)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count bookings for slot %s: %v", key.ID(), err)
			return fmt.Errorf("%w: failed to count bookings: %w", ErrInternal, err)
		}

		if booked >= tpl.Capacity {
			uc.logger.Warn("CreateBooking: slot %s is full, %d/%d taken", key.ID(), booked, tpl.Capacity)
			return ErrSlotFull
		}

		uc.logger.Info("CreateBooking: slot %s available, %d/%d taken", key.ID(), booked, tpl.Capacity)

		// 3.5. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:             user.ID,
			Date:               key.Date,
			StartTime:          key.StartTime,
			EndTime:            key.EndTime,
			Status:             domain.StatusConfirmed,
			ProblemType:        req.ProblemType,
			ProblemDescription: req.ProblemDescription,
			User:               user,
		})
		if errors.Is(err, bookingRepo.ErrActiveBookingExists) {
			uc.logger.Warn("CreateBooking: user id=%d lost race for active booking", user.ID)
			return ErrActiveBookingExists
		}
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		if created.User == nil {
			created.User = user
		}

		result = created
		return nil
	})
	if txmanager.IsRetryable(err) {
		// Повторы исчерпаны: слот разбирают конкурирующие бронирования
		uc.logger.Warn("CreateBooking: serialization retries exhausted for slot %s: %v", key.ID(), err)
		return nil, fmt.Errorf("%w: slot %s is contended", ErrSlotFull, key.ID())
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// observe учитывает результат операции в метриках
func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}

	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrSlotFull):
		result = "slot_full"
	case errors.Is(err, ErrActiveBookingExists):
		result = "active_exists"
	case errors.Is(err, ErrDayClosed):
		result = "day_closed"
	case errors.Is(err, ErrInternal):
		result = "error"
	default:
		result = "rejected"
	}
	uc.metrics.IncBookingOperation(operation, result)
}
