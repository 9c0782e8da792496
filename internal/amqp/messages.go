package amqp

import (
	"encoding/json"
	"time"
)

// ActivityEventMessage mirrors one committed activity-log entry onto the
// broker. It carries identifiers only; a consumer that needs the full entry
// reads it back from the database, so a stale or replayed message can never
// disagree with committed state.
type ActivityEventMessage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes.
func (m *ActivityEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityEventMessageFromJSON creates a message from JSON bytes.
func ActivityEventMessageFromJSON(data []byte) (*ActivityEventMessage, error) {
	var msg ActivityEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
