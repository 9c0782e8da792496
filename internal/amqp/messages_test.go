package amqp

import (
	"testing"
	"time"
)

func TestActivityEventMessage_JSONRoundTrip(t *testing.T) {
	msg := ActivityEventMessage{
		ID:         "entry-1",
		UserID:     "user-1",
		Action:     "debt_payment",
		EntityType: "debt",
		EntityID:   "debt-1",
		OccurredAt: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		Timestamp:  time.Date(2025, 6, 15, 10, 30, 1, 0, time.UTC),
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := ActivityEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if got.ID != msg.ID || got.Action != msg.Action || got.EntityID != msg.EntityID {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.OccurredAt.Equal(msg.OccurredAt) {
		t.Errorf("occurredAt = %v, want %v", got.OccurredAt, msg.OccurredAt)
	}
}

func TestActivityEventMessageFromJSON_Invalid(t *testing.T) {
	if _, err := ActivityEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
