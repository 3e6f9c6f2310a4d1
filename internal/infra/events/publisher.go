package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Payload сообщение о событии бронирования
type Payload struct {
	EventID        string    `json:"eventId"`
	EventType      string    `json:"eventType"`
	BookingID      int64     `json:"bookingId"`
	LineUserID     string    `json:"lineUserId,omitempty"`
	SlotID         string    `json:"slotId"`
	Date           string    `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	Status         string    `json:"status"`
	ConsultantID   *int64    `json:"consultantId,omitempty"`
	ConsultantName *string   `json:"consultantName,omitempty"`
	CancelReason   *string   `json:"cancelReason,omitempty"`
	PreviousSlotID *string   `json:"previousSlotId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// MessageWriter запись сообщений в брокер
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher публикует события бронирований в Kafka
type Publisher struct {
	writer MessageWriter
}

// NewPublisher создает publisher поверх kafka.Writer
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	})
}

// NewPublisherWithWriter создает publisher с произвольным writer
func NewPublisherWithWriter(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish отправляет событие; ключ сообщения = ID бронирования,
// поэтому события одного бронирования попадают в одну партицию
func (p *Publisher) Publish(ctx context.Context, event *domain.BookingEvent) error {
	payload := NewPayload(event)

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(payload.BookingID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(payload.EventID)},
			{Key: "event_type", Value: []byte(payload.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: booking=%d: %v", ErrWrite, payload.BookingID, err)
	}
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NewPayload строит сообщение по событию
func NewPayload(event *domain.BookingEvent) Payload {
	b := event.Booking
	payload := Payload{
		EventID:      uuid.New().String(),
		EventType:    string(event.Kind),
		BookingID:    b.ID,
		LineUserID:   event.LineUserID(),
		SlotID:       b.Key().ID(),
		Date:         types.FormatDate(b.Date),
		StartTime:    b.StartTime.String(),
		EndTime:      b.EndTime.String(),
		Status:       string(b.Status),
		ConsultantID: b.ConsultantID,
		CancelReason: b.CancelReason,
		OccurredAt:   event.OccurredAt,
	}
	if b.Consultant != nil {
		payload.ConsultantName = &b.Consultant.Name
	}
	if event.Previous != nil {
		prev := event.Previous.ID()
		payload.PreviousSlotID = &prev
	}
	return payload
}
