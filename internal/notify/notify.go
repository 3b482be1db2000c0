package notify

import (
	"context"
	"encoding/json"
	"time"
)

// Topics published by the API server and consumed by the notifier worker.
const (
	TopicUserRegistered       = "user.registered"
	TopicApplicationSubmitted = "application.submitted"
)

// Event is the broker-agnostic notification payload.
type Event struct {
	Kind       string            `json:"kind"`
	UserID     string            `json:"user_id,omitempty"`
	Email      string            `json:"email,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Handler processes an event. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, event Event) error

// Broker defines the broker-agnostic operations used by the app.
type Broker interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

func encodeEvent(event Event) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return json.Marshal(event)
}

func decodeEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}
