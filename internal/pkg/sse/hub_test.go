package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToTopic(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe(TopicDataset)
	defer cleanup()
	other, cleanupOther := h.Subscribe("other")
	defer cleanupOther()

	h.Publish(TopicDataset, Event{Event: "dataset.reloaded", Data: map[string]int{"employee_master": 3}})

	select {
	case ev := <-ch:
		assert.Equal(t, "dataset.reloaded", ev.Event)
		assert.Equal(t, TopicDataset, ev.Topic)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.Time.IsZero())
	default:
		t.Fatal("expected an event")
	}
	assert.Empty(t, other)
}

func TestHub_FullBufferDropsEvents(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe(TopicDataset)
	defer cleanup()

	for i := 0; i < h.buffer+5; i++ {
		h.Publish(TopicDataset, Event{Event: "tick"})
	}
	assert.Len(t, ch, h.buffer)
}

func TestHub_CleanupAndCounts(t *testing.T) {
	h := NewHub()
	_, c1 := h.Subscribe(TopicDataset)
	_, c2 := h.Subscribe(TopicDataset)
	_, c3 := h.Subscribe("other")

	assert.Equal(t, 2, h.SubscriberCount(TopicDataset))
	assert.Equal(t, 3, h.TotalSubscribers())

	c1()
	c1()
	c2()
	assert.Equal(t, 0, h.SubscriberCount(TopicDataset))
	assert.Equal(t, 1, h.TotalSubscribers())
	c3()
	assert.Equal(t, 0, h.TotalSubscribers())
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	a, ca := h.Subscribe("a")
	defer ca()
	b, cb := h.Subscribe("b")
	defer cb()

	h.Broadcast(Event{Event: EventShutdown})

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "b", (<-b).Topic)
}
