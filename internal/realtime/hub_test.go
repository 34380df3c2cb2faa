package realtime

import (
	"testing"

	"github.com/gramseva/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *Client {
	return &Client{
		ID:     id,
		Send:   make(chan []byte, 4),
		Tables: make(map[string]bool),
	}
}

func TestParseSubscribe(t *testing.T) {
	msg, ok := ParseSubscribe([]byte(`{"action":"subscribe","table":"complaints"}`))
	require.True(t, ok)
	assert.Equal(t, "subscribe", msg.Action)
	assert.Equal(t, "complaints", msg.Table)

	_, ok = ParseSubscribe([]byte(`{"action":"ping"}`))
	assert.False(t, ok)

	_, ok = ParseSubscribe([]byte(`not json`))
	assert.False(t, ok)
}

func TestBroadcastFiltersByTable(t *testing.T) {
	hub := NewHub()

	complaints := newTestClient("c1")
	documents := newTestClient("c2")
	everything := newTestClient("c3")
	silent := newTestClient("c4")

	for _, c := range []*Client{complaints, documents, everything, silent} {
		hub.Register(c)
	}
	hub.Apply(complaints, SubscribeMessage{Action: "subscribe", Table: types.TableComplaints})
	hub.Apply(documents, SubscribeMessage{Action: "subscribe", Table: types.TableDocumentRequests})
	hub.Apply(everything, SubscribeMessage{Action: "subscribe", Table: ""})

	hub.Broadcast(types.TableComplaints, []byte("event"))

	assert.Len(t, complaints.Send, 1)
	assert.Len(t, documents.Send, 0)
	assert.Len(t, everything.Send, 1)
	assert.Len(t, silent.Send, 0)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := newTestClient("c1")
	hub.Register(client)

	hub.Apply(client, SubscribeMessage{Action: "subscribe", Table: types.TableAnnouncements})
	hub.Broadcast(types.TableAnnouncements, []byte("one"))
	hub.Apply(client, SubscribeMessage{Action: "unsubscribe", Table: types.TableAnnouncements})
	hub.Broadcast(types.TableAnnouncements, []byte("two"))

	assert.Len(t, client.Send, 1)
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: "c1", Send: make(chan []byte, 1), Tables: map[string]bool{"": true}}
	hub.Register(client)

	hub.Broadcast(types.TableComplaints, []byte("one"))
	hub.Broadcast(types.TableComplaints, []byte("two")) // dropped, not blocked

	assert.Len(t, client.Send, 1)
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	client := newTestClient("c1")
	hub.Register(client)
	hub.Unregister(client)

	_, open := <-client.Send
	assert.False(t, open)

	// double unregister must not panic on the closed channel
	hub.Unregister(client)
}
