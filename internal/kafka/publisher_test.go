package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentos/internal/events"
)

func TestMessage(t *testing.T) {
	e := events.New(events.ExpenseAdded, "s1")
	e.ExpenseID = "e1"
	e.AmountCents = 1200
	e.Timestamp = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	msg, err := Message(e)
	require.NoError(t, err)
	assert.Equal(t, []byte("s1"), msg.Key)
	assert.Equal(t, e.Timestamp, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, []byte("expense.added"), msg.Headers[0].Value)

	back, err := events.FromJSON(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestNewPublisherIsAsync(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "intentos.activity")
	assert.True(t, p.writer.Async)
	assert.Equal(t, "intentos.activity", p.writer.Topic)
	assert.NoError(t, p.Close())
}
