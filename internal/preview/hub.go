package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cv-dev/cv/pkg/reactive"
)

// MessageType is the type of a preview message.
type MessageType string

const (
	// MessageHello is sent once per connection with the client id and the
	// current body markup.
	MessageHello MessageType = "hello"
	// MessageRender carries the body markup after a re-render.
	MessageRender MessageType = "render"
	// MessageError reports a failed event dispatch to its sender.
	MessageError MessageType = "error"
	// MessageEvent is sent by clients to dispatch a DOM event.
	MessageEvent MessageType = "event"
)

// Message is exchanged with preview clients over WebSocket.
type Message struct {
	Type   MessageType `json:"type"`
	Client string      `json:"client,omitempty"`
	HTML   string      `json:"html,omitempty"`
	Error  string      `json:"error,omitempty"`

	// Event fields, client to server.
	Event string `json:"event,omitempty"`
	Path  []int  `json:"path,omitempty"`
	Value string `json:"value,omitempty"`
}

// hub manages WebSocket connections of preview clients.
type hub struct {
	clients  map[string]*websocket.Conn
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// writeMu serializes writes; a gorilla connection allows one writer.
	writeMu sync.Mutex
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[string]*websocket.Conn),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
}

// serve upgrades the request and reads client messages until the
// connection closes. hello builds the greeting; handle processes each
// message and may return a reply for the sender.
func (h *hub) serve(w http.ResponseWriter, r *http.Request, hello func(id string) Message, handle func(id string, msg Message) *Message) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// Events run on this goroutine.
	defer reactive.Release()

	id := uuid.New().String()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	h.logger.Debug("preview client connected", "client", id)

	h.send(id, conn, hello(id))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				h.logger.Warn("preview read error", "client", id, "error", err)
			}
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn("preview message decode error", "client", id, "error", err)
			continue
		}
		if reply := handle(id, msg); reply != nil {
			h.send(id, conn, *reply)
		}
	}

	h.remove(id)
	h.logger.Debug("preview client disconnected", "client", id)
}

func (h *hub) send(id string, conn *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	h.writeMu.Unlock()
	if err != nil {
		h.remove(id)
	}
}

// broadcast sends a message to all connected clients.
func (h *hub) broadcast(msg Message) {
	h.mu.RLock()
	clients := make(map[string]*websocket.Conn, len(h.clients))
	for id, conn := range h.clients {
		clients[id] = conn
	}
	h.mu.RUnlock()

	for id, conn := range clients {
		h.send(id, conn, msg)
	}
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// close closes all client connections.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.clients {
		conn.Close()
		delete(h.clients, id)
	}
}
