package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gramseva/apiserver/internal/mq"
	"github.com/gramseva/apiserver/types"
)

// Client is a connected UI session. Send is drained by the client's
// write pump; a full buffer drops the event, since events are only
// invalidation signals and the client re-fetches on the next one.
type Client struct {
	ID     string
	Send   chan []byte
	Tables map[string]bool
}

// SubscribeMessage is the frame a client sends to change its table
// subscription.
type SubscribeMessage struct {
	Action string `json:"action"`
	Table  string `json:"table"`
}

// ParseSubscribe decodes a subscription frame. The second return value
// is false for frames that are not subscribe/unsubscribe requests.
func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}

// Hub fans change events out to connected clients filtered by their
// table subscriptions.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client.Tables == nil {
		client.Tables = make(map[string]bool)
	}
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

// Apply updates the client's subscription from a parsed frame.
// An empty table on subscribe means all tables.
func (h *Hub) Apply(client *Client, msg SubscribeMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch msg.Action {
	case "subscribe":
		client.Tables[msg.Table] = true
	case "unsubscribe":
		delete(client.Tables, msg.Table)
	}
}

// Broadcast delivers payload to every client subscribed to table.
func (h *Hub) Broadcast(table string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !subscribed(client.Tables, table) {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("drop change event for client %s", client.ID)
		}
	}
}

func subscribed(tables map[string]bool, table string) bool {
	if len(tables) == 0 {
		return false
	}
	return tables[""] || tables[table]
}

// Run consumes change events from the broker and feeds the hub until
// ctx is cancelled. One subscription per table, each on its own
// goroutine because mq.Subscribe blocks.
func (h *Hub) Run(ctx context.Context, m *mq.MQ) {
	tables := []string{
		types.TableComplaints,
		types.TableDocumentRequests,
		types.TableAnnouncements,
	}
	for _, table := range tables {
		go func(table string) {
			err := m.Subscribe(ctx, table, func(ctx context.Context, msg mq.Message) error {
				h.Broadcast(table, msg.Data)
				return nil
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("change-event subscription for %s ended: %v", table, err)
			}
		}(table)
	}
}
