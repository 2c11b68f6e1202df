package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/observability"
)

// WebSocket message types.
const (
	MessageNetworkUpdate = "network-update"
	MessageSubscribe     = "subscribe"

	// DefaultChannel is assigned when a subscribe message names no channel.
	DefaultChannel = "network"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 16
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is a server-to-client WebSocket message.
type Envelope struct {
	Type      string                   `json:"type"`
	Data      *domain.CongestionReport `json:"data,omitempty"`
	Timestamp string                   `json:"timestamp"`
}

// clientMessage is a client-to-server WebSocket message.
type clientMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

type wsClient struct {
	conn    *websocket.Conn
	send    chan []byte
	channel string // guarded by Hub.mu
}

// HubOptions contains configuration for creating a Hub.
type HubOptions struct {
	Snapshot func() domain.CongestionReport
	Interval time.Duration // Default: 10s
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Hub tracks WebSocket clients and pushes network updates to them.
type Hub struct {
	snapshot func() domain.CongestionReport
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	stopped bool // set once Run exits; no new clients after that
}

// NewHub creates a new Hub.
func NewHub(opts HubOptions) *Hub {
	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Hub{
		snapshot: opts.Snapshot,
		interval: interval,
		logger:   logger.Named("ws"),
		now:      now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Public network data only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run broadcasts a fresh network update every interval while at least one
// client is connected. It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Info("broadcast loop started", zap.Duration("interval", h.interval))

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case <-ticker.C:
			if n := h.ClientCount(); n > 0 {
				h.logger.Debug("sending periodic update", zap.Int("clients", n))
				h.Broadcast()
			}
		}
	}
}

// Broadcast sends one fresh network update to every client. Clients whose
// send buffer is full are disconnected.
func (h *Hub) Broadcast() {
	msg, err := h.networkUpdate()
	if err != nil {
		h.logger.Error("encode network update", zap.Error(err))
		return
	}

	var slow []*wsClient
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow client", zap.String("remote", c.conn.RemoteAddr().String()))
		h.unregister(c)
	}
	observability.RecordBroadcast()
}

// ServeWS upgrades the request and serves the connection until it closes.
// Once the hub has stopped, upgrades are refused with 503.
func (h *Hub) ServeWS(c *gin.Context) {
	if h.isStopped() {
		errorJSON(c, http.StatusServiceUnavailable, "Server is shutting down")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Debug("upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	if msg, err := h.networkUpdate(); err == nil {
		client.send <- msg
	}
	if !h.register(client) {
		// Stopped between the check above and the upgrade.
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go h.writePump(client)
	h.readPump(client)
}

func (h *Hub) networkUpdate() ([]byte, error) {
	report := h.snapshot()
	return json.Marshal(Envelope{
		Type:      MessageNetworkUpdate,
		Data:      &report,
		Timestamp: h.now().UTC().Format(timestampLayout),
	})
}

func (h *Hub) isStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

// register adds c unless the hub has stopped.
func (h *Hub) register(c *wsClient) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	observability.UpdateWSClients(n)
	h.logger.Info("client connected", zap.String("remote", c.conn.RemoteAddr().String()), zap.Int("clients", n))
	return true
}

// unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()

	observability.UpdateWSClients(n)
	h.logger.Info("client disconnected", zap.String("remote", c.conn.RemoteAddr().String()), zap.Int("clients", n))
}

// closeAll stops the hub and disconnects every client.
func (h *Hub) closeAll() {
	h.mu.Lock()
	h.stopped = true
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			return
		}
		h.handleMessage(c, data)
	}
}

func (h *Hub) handleMessage(c *wsClient, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Warn("invalid client message", zap.Error(err))
		return
	}

	switch msg.Type {
	case MessageSubscribe:
		channel := msg.Channel
		if channel == "" {
			channel = DefaultChannel
		}
		h.mu.Lock()
		c.channel = channel
		h.mu.Unlock()
		h.logger.Debug("client subscribed", zap.String("channel", channel))
	default:
		h.logger.Debug("ignoring client message", zap.String("type", msg.Type))
	}
}

func (h *Hub) writePump(c *wsClient) {
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
