package events

import (
	"context"
	"time"
)

const (
	SummaryReady          = "summary.ready"
	DocumentOcrCompleted  = "document.ocr_completed"
	ConnectionCreated     = "connection.created"
	CaseHandoffCompleted  = "case.handoff_completed"
	ConnectionStatusMoved = "connection.status_changed"
)

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String reads a string field from the payload, "" when absent.
func String(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}

type Handler func(ctx context.Context, event Event) error

// Bus is implemented by the NATS JetStream adapter and by the in-process channel bus.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, durable string, handler Handler) error
	Close() error
}
