package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_EXCHANGE_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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

// NewChatExchangeCompleted is emitted after an assistant reply has been
// persisted for a session.
func NewChatExchangeCompleted(userId, sessionId, messageId, intentLabel string, latencyMs int64) Event {
	return BaseEvent{
		Type: "CHAT_EXCHANGE_COMPLETED",
		Data: map[string]interface{}{
			"user_id":    userId,
			"session_id": sessionId,
			"message_id": messageId,
			"intent":     intentLabel,
			"latency_ms": latencyMs,
		},
		OccurredAt: time.Now(),
	}
}
