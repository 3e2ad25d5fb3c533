package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

var ErrHubClosed = errors.New("realtime hub is closed")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 64
)

// Client is one websocket connection of a user.
type Client struct {
	ID     string
	UserID uint
	conn   *websocket.Conn
	send   chan []byte
}

type delivery struct {
	userID  uint
	payload []byte
}

// Hub fans payloads out to every open connection of a user. A user may have
// several tabs open, so connections are grouped per user id.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	done       chan struct{}

	upgrader websocket.Upgrader
}

// NewHub builds a hub that accepts upgrades from allowedOrigin, or from any
// origin when it is "*" or empty.
func NewHub(allowedOrigin string) *Hub {
	h := &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 256),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
	return h
}

// Run owns the connection registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// Push queues payload for every connection of userID.
func (h *Hub) Push(ctx context.Context, userID uint, payload []byte) error {
	select {
	case h.broadcast <- delivery{userID: userID, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
}

// Connections returns the number of open connections of userID.
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[c.UserID] = set
	}
	set[c] = true
	logger.Debug("Websocket client connected", "client_id", c.ID, "user_id", c.UserID)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.send)
	logger.Debug("Websocket client disconnected", "client_id", c.ID, "user_id", c.UserID)
}

func (h *Hub) deliver(d delivery) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.clients[d.userID] {
		select {
		case c.send <- d.payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// a client that cannot keep up is dropped
	for _, c := range slow {
		h.remove(c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}

// ServeWS upgrades the request and attaches the connection to userID.
// The caller must have authenticated the user already.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	hello, _ := json.Marshal(map[string]interface{}{
		"tipo":  "ligado",
		"dados": map[string]interface{}{"IdUtilizador": userID, "IdLigacao": c.ID},
	})
	c.send <- hello

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}
	go c.writePump()
	go c.readPump(h.unregister, h.done)
	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// readPump only watches for pongs and disconnects; clients never send data.
func (c *Client) readPump(unregister chan<- *Client, done <-chan struct{}) {
	defer func() {
		select {
		case unregister <- c:
		case <-done:
		}
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Websocket closed unexpectedly", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}
