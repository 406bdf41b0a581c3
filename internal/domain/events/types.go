// Package events defines the JSON envelopes pushed to relaykit clients.
package events

import (
	"encoding/json"
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	// EventTypeCounterChanged carries a new counter value.
	EventTypeCounterChanged EventType = "counter_changed"

	// EventTypeHeartbeat is sent periodically so clients can detect stalls.
	EventTypeHeartbeat EventType = "heartbeat"

	// EventTypeError reports a rejected client command.
	EventTypeError EventType = "error"
)

// Event is the base interface for all events.
type Event interface {
	// Type returns the event type.
	Type() EventType

	// Timestamp returns when the event occurred.
	Timestamp() time.Time

	// ToJSON serializes the event to JSON.
	ToJSON() ([]byte, error)
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"event"`
	EventTime time.Time `json:"timestamp"`
	Stream    string    `json:"stream,omitempty"`
	Payload   any       `json:"payload"`
	RequestID string    `json:"request_id,omitempty"`
}

// Type returns the event type.
func (e *BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e *BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// ToJSON serializes the event to JSON.
func (e *BaseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// NewEvent creates a new base event with the given type and payload.
func NewEvent(eventType EventType, payload any) *BaseEvent {
	return &BaseEvent{
		EventType: eventType,
		EventTime: time.Now().UTC(),
		Payload:   payload,
	}
}

// NewEventWithRequestID creates a new event with a request ID for correlation.
func NewEventWithRequestID(eventType EventType, payload any, requestID string) *BaseEvent {
	e := NewEvent(eventType, payload)
	e.RequestID = requestID
	return e
}

// CounterChangedPayload is the payload of counter_changed events.
type CounterChangedPayload struct {
	Value int `json:"value"`
}

// NewCounterChangedEvent creates a counter_changed event for the named stream.
func NewCounterChangedEvent(stream string, value int) *BaseEvent {
	e := NewEvent(EventTypeCounterChanged, CounterChangedPayload{Value: value})
	e.Stream = stream
	return e
}

// HeartbeatPayload is the payload of heartbeat events.
type HeartbeatPayload struct {
	Sequence      int64 `json:"sequence"`
	Clients       int   `json:"clients"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent(seq int64, clients int, uptime time.Duration) *BaseEvent {
	return NewEvent(EventTypeHeartbeat, HeartbeatPayload{
		Sequence:      seq,
		Clients:       clients,
		UptimeSeconds: int64(uptime.Seconds()),
	})
}

// ErrorPayload is the payload of error events.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorEvent creates an error event correlated with requestID.
func NewErrorEvent(code, message, requestID string) *BaseEvent {
	return NewEventWithRequestID(EventTypeError, ErrorPayload{Code: code, Message: message}, requestID)
}
