package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testEvent() *domain.BookingEvent {
	return &domain.BookingEvent{
		Kind: domain.EventBookingRescheduled,
		Booking: domain.Booking{
			ID:           7,
			Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			StartTime:    "10:00",
			EndTime:      "11:00",
			Status:       domain.StatusAssigned,
			ConsultantID: ptr.Ptr(int64(3)),
			User:         &domain.User{ExternalID: "U1"},
			Consultant:   &domain.Consultant{ID: 3, Name: "Dr. Malee"},
		},
		Previous:   &domain.SlotKey{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StartTime: "08:00", EndTime: "09:00"},
		OccurredAt: time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w)

	require.NoError(t, p.Publish(context.Background(), testEvent()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "7", string(msg.Key))

	var payload Payload
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "booking.rescheduled", payload.EventType)
	assert.Equal(t, "2024-01-02-10:00-11:00", payload.SlotID)
	assert.Equal(t, "2024-01-01-08:00-09:00", *payload.PreviousSlotID)
	assert.Equal(t, "Dr. Malee", *payload.ConsultantName)
	assert.Equal(t, "U1", payload.LineUserID)
	assert.NotEmpty(t, payload.EventID)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, payload.EventID, headers["event_id"])
	assert.Equal(t, "booking.rescheduled", headers["event_type"])
}

func TestPublisher_WriteError(t *testing.T) {
	p := NewPublisherWithWriter(&fakeWriter{err: errors.New("broker down")})
	assert.ErrorIs(t, p.Publish(context.Background(), testEvent()), ErrWrite)
}
