package observer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *Client {
	return &Client{
		id:            id,
		send:          make(chan *Event, sendBufferSize),
		subscriptions: make(map[string]bool),
	}
}

func TestHub_BroadcastReachesSubscribedClient(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient("c1")
	h.register(c)
	h.subscribe(c, "exec-1")

	h.Broadcast(&Event{Type: EventNodeStarted, ExecutionID: "exec-1", NodeID: "n1"})

	require.Len(t, c.send, 1)
	got := <-c.send
	assert.Equal(t, "n1", got.NodeID)
}

func TestHub_BroadcastSkipsUnsubscribedClient(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient("c1")
	h.register(c)
	h.subscribe(c, "exec-1")

	h.Broadcast(&Event{Type: EventNodeStarted, ExecutionID: "exec-other"})

	assert.Len(t, c.send, 0)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient("c1")
	h.register(c)
	h.subscribe(c, "exec-1")
	h.unsubscribe(c, "exec-1")

	h.Broadcast(&Event{Type: EventNodeStarted, ExecutionID: "exec-1"})

	assert.Len(t, c.send, 0)
}

func TestHub_UnregisterClosesSendChannelAndRemovesSubscriptions(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient("c1")
	h.register(c)
	h.subscribe(c, "exec-1")

	h.unregister(c)

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed")
	assert.Equal(t, 0, h.ClientCount())
	assert.Empty(t, h.byExecutionID)
}

func TestHub_MultipleClientsSameExecution(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")
	h.register(c1)
	h.register(c2)
	h.subscribe(c1, "exec-1")
	h.subscribe(c2, "exec-1")

	h.Broadcast(&Event{Type: EventNodeCompleted, ExecutionID: "exec-1"})

	assert.Len(t, c1.send, 1)
	assert.Len(t, c2.send, 1)
}

func TestHub_FullBufferDropsEventWithoutBlocking(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient("c1")
	h.register(c)
	h.subscribe(c, "exec-1")

	for i := 0; i < sendBufferSize; i++ {
		h.Broadcast(&Event{Type: EventNodeStarted, ExecutionID: "exec-1"})
	}
	assert.Len(t, c.send, sendBufferSize)

	assert.NotPanics(t, func() {
		h.Broadcast(&Event{Type: EventNodeStarted, ExecutionID: "exec-1"})
	})
	assert.Len(t, c.send, sendBufferSize)
}
