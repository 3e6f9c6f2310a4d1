package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/booking"
	consultantRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/consultant"
	"github.com/m04kA/counseling-booking-service/internal/service/slots"
	"github.com/m04kA/counseling-booking-service/pkg/txmanager"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// UseCase use case для изменения бронирования: назначение, завершение, отмена, перенос
type UseCase struct {
	bookingRepo    BookingRepository
	consultantRepo ConsultantRepository
	slots          SlotResolver
	txManager      TransactionManager
	notifier       Notifier
	metrics        Metrics
	window         domain.BookingWindow
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	consultantRepo ConsultantRepository,
	slots SlotResolver,
	txManager TransactionManager,
	notifier Notifier,
	window domain.BookingWindow,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		consultantRepo: consultantRepo,
		slots:          slots,
		txManager:      txManager,
		notifier:       notifier,
		window:         window,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
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

// result итог действия внутри транзакции
type result struct {
	booking  *domain.Booking
	event    domain.EventKind
	previous *domain.SlotKey
}

// Execute выполняет действие над бронированием
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	uc.logger.Info("UpdateBooking: booking=%d, action=%s, user=%q", req.BookingID, req.Action, req.LineUserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		uc.observe(req.Action, err)
		return nil, err
	}

	// 2. Клиент может только отменить или перенести своё бронирование
	if req.LineUserID != "" && req.Action != ActionCancel && req.Action != ActionReschedule {
		uc.logger.Warn("UpdateBooking: user %s is not allowed to %s", req.LineUserID, req.Action)
		uc.observe(req.Action, ErrAccessDenied)
		return nil, ErrAccessDenied
	}

	var (
		res *result
		err error
	)
	switch req.Action {
	case ActionAssign:
		res, err = uc.assign(ctx, req)
	case ActionComplete:
		res, err = uc.complete(ctx, req)
	case ActionCancel:
		res, err = uc.cancel(ctx, req)
	case ActionReschedule:
		res, err = uc.reschedule(ctx, req)
	}
	uc.observe(req.Action, err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: booking id=%d is now %s", res.booking.ID, res.booking.Status)

	// Уведомление не влияет на результат
	if uc.notifier != nil {
		uc.notifier.Notify(res.event, res.booking, res.previous)
	}

	return &Response{Booking: res.booking}, nil
}

// assign CONFIRMED -> ASSIGNED
func (uc *UseCase) assign(ctx context.Context, req *Request) (*result, error) {
	var res *result

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.load(txCtx, req)
		if err != nil {
			return err
		}
		if err := checkTransition(booking, domain.StatusAssigned); err != nil {
			uc.logger.Warn("UpdateBooking: assign booking id=%d: %v", booking.ID, err)
			return err
		}

		consultant, err := uc.consultantRepo.GetByID(txCtx, *req.ConsultantID)
		if errors.Is(err, consultantRepo.ErrConsultantNotFound) {
			uc.logger.Warn("UpdateBooking: consultant id=%d not found", *req.ConsultantID)
			return ErrConsultantNotFound
		}
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to get consultant id=%d: %v", *req.ConsultantID, err)
			return fmt.Errorf("%w: failed to get consultant: %w", ErrInternal, err)
		}
		if !consultant.IsActive {
			uc.logger.Warn("UpdateBooking: consultant id=%d is inactive", consultant.ID)
			return ErrConsultantInactive
		}

		booking.Status = domain.StatusAssigned
		booking.ConsultantID = &consultant.ID
		booking.Consultant = consultant

		if err := uc.save(txCtx, booking); err != nil {
			return err
		}
		res = &result{booking: booking, event: domain.EventBookingAssigned}
		return nil
	})
	return res, err
}

// complete ASSIGNED -> COMPLETED
func (uc *UseCase) complete(ctx context.Context, req *Request) (*result, error) {
	var res *result

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.load(txCtx, req)
		if err != nil {
			return err
		}
		if err := checkTransition(booking, domain.StatusCompleted); err != nil {
			uc.logger.Warn("UpdateBooking: complete booking id=%d: %v", booking.ID, err)
			return err
		}

		completedAt := uc.timeProvider.Now().UTC()
		booking.Status = domain.StatusCompleted
		booking.ConsultantNote = req.Note
		booking.CompletedAt = &completedAt

		if err := uc.save(txCtx, booking); err != nil {
			return err
		}
		res = &result{booking: booking, event: domain.EventBookingCompleted}
		return nil
	})
	return res, err
}

// cancel CONFIRMED|ASSIGNED -> CANCELLED. Место освобождается: отменённые не учитываются в занятости.
func (uc *UseCase) cancel(ctx context.Context, req *Request) (*result, error) {
	var res *result

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.load(txCtx, req)
		if err != nil {
			return err
		}
		if err := checkTransition(booking, domain.StatusCancelled); err != nil {
			uc.logger.Warn("UpdateBooking: cancel booking id=%d: %v", booking.ID, err)
			return err
		}

		booking.Status = domain.StatusCancelled
		booking.CancelReason = req.Reason

		if err := uc.save(txCtx, booking); err != nil {
			return err
		}
		res = &result{booking: booking, event: domain.EventBookingCancelled}
		return nil
	})
	return res, err
}

// reschedule переносит активное бронирование на другой слот.
// id и статус сохраняются, вместимость нового слота проверяется так же, как при создании.
func (uc *UseCase) reschedule(ctx context.Context, req *Request) (*result, error) {
	key := domain.SlotKey{
		Date:      types.NormalizeDate(req.Date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if err := validateDate(key.Date, uc.timeProvider.Now(), uc.window); err != nil {
		uc.logger.Warn("UpdateBooking: date validation failed: %v", err)
		return nil, err
	}

	var res *result

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.load(txCtx, req)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			uc.logger.Warn("UpdateBooking: booking id=%d in status %s cannot be rescheduled", booking.ID, booking.Status)
			return fmt.Errorf("%w: cannot reschedule %s booking", ErrInvalidTransition, booking.Status)
		}

		previous := booking.Key()
		if previous.ID() == key.ID() {
			return fmt.Errorf("%w: booking is already in slot %s", ErrInvalidInput, key.ID())
		}

		tpl, status, err := uc.slots.ResolveSlot(txCtx, key)
		if status == domain.DayClosedByOverride {
			uc.logger.Warn("UpdateBooking: day %s is closed", types.FormatDate(key.Date))
			return ErrDayClosed
		}
		if errors.Is(err, slots.ErrSlotNotFound) {
			uc.logger.Warn("UpdateBooking: slot %s not found (day status %s)", key.ID(), status)
			return ErrSlotNotFound
		}
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to resolve slot %s: %v", key.ID(), err)
			return fmt.Errorf("%w: failed to resolve slot: %w", ErrInternal, err)
		}

		if err := uc.bookingRepo.LockSlot(txCtx, key); err != nil {
			uc.logger.Error("UpdateBooking: failed to lock slot %s: %v", key.ID(), err)
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		booked, err := uc.bookingRepo.CountBySlot(txCtx, key)
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to count bookings for slot %s: %v", key.ID(), err)
			return fmt.Errorf("%w: failed to count bookings: %w", ErrInternal, err)
		}
		if booked >= tpl.Capacity {
			uc.logger.Warn("UpdateBooking: slot %s is full, %d/%d taken", key.ID(), booked, tpl.Capacity)
			return ErrSlotFull
		}

		booking.Date = key.Date
		booking.StartTime = key.StartTime
		booking.EndTime = key.EndTime

		if err := uc.save(txCtx, booking); err != nil {
			return err
		}
		res = &result{booking: booking, event: domain.EventBookingRescheduled, previous: &previous}
		return nil
	})
	if txmanager.IsRetryable(err) {
		uc.logger.Warn("UpdateBooking: serialization retries exhausted for slot %s: %v", key.ID(), err)
		return nil, fmt.Errorf("%w: slot %s is contended", ErrSlotFull, key.ID())
	}
	return res, err
}

// load читает бронирование и проверяет владельца
func (uc *UseCase) load(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
		return nil, ErrBookingNotFound
	}
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}

	if err := checkOwner(booking, req.LineUserID); err != nil {
		uc.logger.Warn("UpdateBooking: user %s does not own booking id=%d", req.LineUserID, booking.ID)
		return nil, err
	}

	return booking, nil
}

func (uc *UseCase) save(ctx context.Context, booking *domain.Booking) error {
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
	}
	return nil
}

// observe учитывает результат операции в метриках
func (uc *UseCase) observe(action Action, err error) {
	if uc.metrics == nil {
		return
	}

	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidTransition):
		result = "invalid_transition"
	case errors.Is(err, ErrSlotFull):
		result = "slot_full"
	case errors.Is(err, ErrDayClosed):
		result = "day_closed"
	case errors.Is(err, ErrInternal):
		result = "error"
	default:
		result = "rejected"
	}
	uc.metrics.IncBookingOperation(string(action), result)
}
