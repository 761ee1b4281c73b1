package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/amterp/tally/internal/config"
	"github.com/amterp/tally/internal/logging"
	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Message types pushed to clients.
const (
	MessageState        = "state"
	MessageConfigChange = "config_change"
	MessageError        = "error"
)

// StateSource is the session a hub reads from and forwards client events to.
// *Handler implements it.
type StateSource interface {
	Snapshot() service.Snapshot
	Apply(events ...service.Event) (service.Snapshot, error)
}

// WebSocketHub manages WebSocket connections and broadcasts state changes.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
	source  StateSource
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewWebSocketHub creates a new WebSocket hub. source may be nil, in which
// case clients get no initial state and inbound events are ignored.
func NewWebSocketHub(source StateSource) *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*WebSocketClient]bool),
		source:  source,
	}
}

// OnStateChange implements StateListener.
func (h *WebSocketHub) OnStateChange(snapshot service.Snapshot) {
	h.publish(MessageState, snapshot)
}

// ConfigChange is the payload of a config_change message.
type ConfigChange struct {
	DefaultTitle string        `json:"default_title"`
	Palette      model.Palette `json:"palette"`
}

// OnConfigChange implements ConfigSubscriber.
func (h *WebSocketHub) OnConfigChange(cfg *config.Config) {
	h.publish(MessageConfigChange, ConfigChange{
		DefaultTitle: cfg.DefaultTitle,
		Palette:      cfg.ResolvedPalette(),
	})
}

func (h *WebSocketHub) publish(msgType string, payload any) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		log := logging.Component("ws")
		log.Error().Err(err).Str("type", msgType).Msg("failed to marshal message")
		return
	}
	h.broadcast(data)
}

func encodeMessage(msgType string, payload any) ([]byte, error) {
	return json.Marshal(WebSocketMessage{Type: msgType, Data: payload})
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between snapshot and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		// Channel was closed by removeClient; client already cleaned up.
		_ = recover()
	}()

	select {
	case client.send <- data:
	default:
		// Client buffer full, drop it
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS handles WebSocket connection requests.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log := logging.Component("ws")
		log.Warn().Err(err).Msg("upgrade failed")
		return
	}

	client := &WebSocketClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	// Register before reading state so no change can slip between the
	// snapshot and the first broadcast this client receives.
	h.addClient(client)
	if h.source != nil {
		if data, err := encodeMessage(MessageState, h.source.Snapshot()); err == nil {
			h.trySend(client, data)
		}
	}

	go client.writePump()
	go client.readPump()
}

// handleInbound applies one client event. Successful events reach every
// client through OnStateChange; failures are reported to the sender only.
func (h *WebSocketHub) handleInbound(client *WebSocketClient, raw []byte) {
	if h.source == nil {
		return
	}

	var ev service.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		h.replyError(client, "invalid event: "+err.Error())
		return
	}

	if _, err := h.source.Apply(ev); err != nil {
		h.replyError(client, err.Error())
	}
}

func (h *WebSocketHub) replyError(client *WebSocketClient, message string) {
	data, err := encodeMessage(MessageError, map[string]string{"error": message})
	if err != nil {
		return
	}
	h.trySend(client, data)
}

// readPump reads client events and detects disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Closing send signals writePump to exit; writePump closes the conn.
		c.hub.removeClient(c)
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log := logging.Component("ws")
				log.Warn().Err(err).Msg("read error")
			}
			break
		}
		if msgType == websocket.TextMessage {
			c.hub.handleInbound(c, data)
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per message so every frame is valid JSON.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
