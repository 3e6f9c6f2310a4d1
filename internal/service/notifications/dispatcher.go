package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

const (
	channelLine   = "line"
	channelEvents = "events"

	resultSent    = "sent"
	resultFailed  = "failed"
	resultSkipped = "skipped"
)

// Dispatcher рассылает события бронирований в фоне.
// Ошибки доставки только логируются и не влияют на бронирование.
type Dispatcher struct {
	line    LineSender
	events  EventPublisher
	metrics Metrics
	logger  Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewDispatcher создает диспетчер. line и events могут быть nil.
func NewDispatcher(line LineSender, events EventPublisher, timeout time.Duration, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		line:    line,
		events:  events,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// WithMetrics подключает метрики доставки
func (d *Dispatcher) WithMetrics(metrics Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Notify ставит событие в отправку и сразу возвращает управление.
// Бронирование копируется: вызывающий может менять его дальше.
func (d *Dispatcher) Notify(kind domain.EventKind, booking *domain.Booking, previous *domain.SlotKey) {
	event := &domain.BookingEvent{
		Kind:       kind,
		Booking:    *booking,
		OccurredAt: d.now(),
	}
	if previous != nil {
		prev := *previous
		event.Previous = &prev
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		d.deliver(ctx, event)
	}()
}

// Wait ждёт завершения отправок; вызывается при остановке сервиса
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, event *domain.BookingEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Notify: panic while delivering %s for booking=%d: %v", event.Kind, event.Booking.ID, r)
		}
	}()

	d.pushLine(ctx, event)
	d.publish(ctx, event)
}

func (d *Dispatcher) pushLine(ctx context.Context, event *domain.BookingEvent) {
	text := messageText(event)
	to := event.LineUserID()
	if text == "" || to == "" {
		d.observe(channelLine, resultSkipped)
		return
	}

	if d.line == nil {
		d.logger.Info("Notify: LINE disabled, message for user=%s: %s", to, text)
		d.observe(channelLine, resultSkipped)
		return
	}

	if err := d.line.PushText(ctx, to, text); err != nil {
		d.logger.Warn("Notify: LINE push %s for booking=%d failed: %v", event.Kind, event.Booking.ID, err)
		d.observe(channelLine, resultFailed)
		return
	}

	d.observe(channelLine, resultSent)
}

func (d *Dispatcher) publish(ctx context.Context, event *domain.BookingEvent) {
	if d.events == nil {
		return
	}

	if err := d.events.Publish(ctx, event); err != nil {
		d.logger.Warn("Notify: publish %s for booking=%d failed: %v", event.Kind, event.Booking.ID, err)
		d.observe(channelEvents, resultFailed)
		return
	}

	d.observe(channelEvents, resultSent)
}

func (d *Dispatcher) observe(channel, result string) {
	if d.metrics != nil {
		d.metrics.IncNotification(channel, result)
	}
}
