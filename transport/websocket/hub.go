package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound buffer per client; a full buffer drops messages rather
	// than blocking room processing.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Handler consumes transport events. It is implemented by the room
// coordinator; the hub itself applies no business rules.
type Handler interface {
	// HandleConnect is invoked once after a client is registered.
	HandleConnect(clientID string)
	// HandleMessage is invoked for every inbound frame, in arrival order
	// for a given client.
	HandleMessage(clientID string, data []byte)
	// HandleDisconnect is invoked once when a client's transport closes,
	// before its identity is forgotten.
	HandleDisconnect(clientID string)
}

// Client represents one WebSocket connection and its identity.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub is the connection registry: it assigns each connection a unique client
// identity, tracks liveness, and routes outbound messages. Delivery is
// best-effort and never blocks.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	// Unregister requests from closing connections
	unregister chan *Client

	handler Handler
}

// NewHub creates a new connection registry.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		unregister: make(chan *Client),
	}
}

// SetHandler wires the event handler. Must be called before Run.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// Run drains the unregister queue. Disconnect events reach the handler from
// this single goroutine, after the identity is removed from the registry.
func (h *Hub) Run() {
	for client := range h.unregister {
		if h.unregisterClient(client) && h.handler != nil {
			h.handler.HandleDisconnect(client.id)
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and registers
// it under a freshly allocated client identity.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   uuid.NewString(),
	}

	// Register and announce before the read pump starts, so the identity
	// announcement is queued ahead of any reply to an inbound frame.
	h.registerClient(client)
	if h.handler != nil {
		h.handler.HandleConnect(client.id)
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// Send delivers a message to the identified client if its transport is open.
// Unknown clients and full buffers drop the message with a log line; sends
// never block and are never retried.
func (h *Hub) Send(clientID string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message for %s: %v", clientID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		log.Printf("Dropping message for unknown client %s", clientID)
		return
	}

	// The lock is held across the queue attempt; unregistration closes the
	// send channel under the write lock, so the channel cannot close between
	// the lookup and the send.
	select {
	case client.send <- data:
	default:
		log.Printf("Dropping message for slow client %s", clientID)
	}
}

// Broadcast delivers a message to every connected client, best-effort. A
// slow recipient never stalls delivery to the rest.
func (h *Hub) Broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("Dropping broadcast for slow client %s", id)
		}
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// registerClient adds a client to the registry.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("Client %s connected (total clients: %d)", client.id, total)
}

// unregisterClient removes a client and closes its send channel. It reports
// whether the client was still registered, so a disconnect is processed at
// most once.
func (h *Hub) unregisterClient(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.id]; !ok {
		return false
	}

	delete(h.clients, client.id)
	close(client.send)

	log.Printf("Client %s disconnected (remaining clients: %d)", client.id, len(h.clients))
	return true
}

// readPump pumps messages from the WebSocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if c.hub.handler != nil {
			c.hub.handler.HandleMessage(c.id, data)
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket
// connection. Each message goes out as its own text frame so clients parse
// frames independently.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
