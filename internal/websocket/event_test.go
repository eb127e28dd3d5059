package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "abc",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		evt      Event
		expected string
		entity   EntityType
	}{
		{"transaction created", TransactionCreated(nil), "transaction.created", EntityTypeTransaction},
		{"snapshot updated", SnapshotUpdated(nil), "snapshot.updated", EntityTypeSnapshot},
		{"account updated", AccountUpdated(nil), "account.updated", EntityTypeAccount},
		{"goal created", GoalCreated(nil), "goal.created", EntityTypeGoal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.evt.Type)
			assert.Equal(t, tt.entity, tt.evt.Entity)
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	evt := Event{
		Type:      "snapshot.updated",
		Entity:    EntityTypeSnapshot,
		Payload:   map[string]interface{}{"paceScore": float64(55)},
		Timestamp: fixedTime,
	}

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "snapshot.updated", decoded.Type)
	assert.Equal(t, EntityTypeSnapshot, decoded.Entity)
	assert.Equal(t, map[string]interface{}{"paceScore": float64(55)}, decoded.Payload)
	assert.True(t, fixedTime.Equal(decoded.Timestamp))
}
