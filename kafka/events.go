package kafka

import "time"

// CartUpdatedEvent is the audit record published after each cart mutation.
// The in-process notification bus stays payload-less; this event is built by
// re-querying the cart projections at publish time, so it never carries a
// stale snapshot either.
type CartUpdatedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	TotalUnits int       `json:"total_units"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCartUpdated = "cart.updated"
)

// Kafka topics
const (
	TopicCartUpdated = "cart-updated"
)
