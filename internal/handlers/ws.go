package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gramseva/apiserver/internal/realtime"
)

const sendBufferSize = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades connections and attaches them to the change-event hub.
type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Serve upgrades the request to a websocket and starts the read and
// write pumps. Clients subscribe to tables with frames after connecting.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	client := &realtime.Client{
		ID:     uuid.NewString(),
		Send:   make(chan []byte, sendBufferSize),
		Tables: make(map[string]bool),
	}
	h.hub.Register(client)

	ws := &realtime.WSClient{Hub: h.hub, Client: client, Conn: conn}
	go ws.WritePump()
	go ws.ReadPump()
}
