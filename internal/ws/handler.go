package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the middleware layer
	},
}

// Client represents one connected viewer of a planning session.
type Client struct {
	conn         *websocket.Conn
	viewerID     string
	sessionToken string
	send         chan []byte
}

// Hub maintains the set of connected viewers, grouped by session token.
type Hub struct {
	clients    map[string]*Client            // viewerID -> Client
	rooms      map[string]map[string]*Client // sessionToken -> viewerID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// RenderHub is the single hub for all render streams.
var RenderHub *Hub

func init() {
	RenderHub = NewHub()
	go RenderHub.run()
}

// WSMessage is the envelope for every frame sent to viewers.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BroadcastToSession sends a message to every viewer of a session.
func (h *Hub) BroadcastToSession(sessionToken string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.rooms[sessionToken]; exists {
		for _, client := range room {
			select {
			case client.send <- data:
			default:
				log.Printf("[WS] send buffer full for viewer %s on session %s, dropping frame", client.viewerID, sessionToken)
			}
		}
	}
}

// RoomSize returns the number of viewers watching a session.
func (h *Hub) RoomSize(sessionToken string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionToken])
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, exists := h.clients[client.viewerID]; exists {
				log.Printf("[WS] Viewer %s reconnecting - closing old connection", client.viewerID)
				old.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(5*time.Second))
				old.conn.Close()
				select {
				case <-old.send:
				default:
					close(old.send)
				}
				delete(h.clients, client.viewerID)
				if room, exists := h.rooms[old.sessionToken]; exists {
					delete(room, client.viewerID)
				}
			}

			h.clients[client.viewerID] = client
			if _, exists := h.rooms[client.sessionToken]; !exists {
				h.rooms[client.sessionToken] = make(map[string]*Client)
			}
			h.rooms[client.sessionToken][client.viewerID] = client
			h.mu.Unlock()
			log.Printf("[WS] Viewer %s connected to session %s", client.viewerID, client.sessionToken)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, exists := h.clients[client.viewerID]; exists {
				delete(h.clients, client.viewerID)
				if room, exists := h.rooms[client.sessionToken]; exists {
					delete(room, client.viewerID)
					if len(room) == 0 {
						delete(h.rooms, client.sessionToken)
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WS] Viewer %s disconnected from session %s", client.viewerID, client.sessionToken)
		}
	}
}

// HandleRenderSocket upgrades a viewer connection for a session's render
// stream. The session token names the room; the viewer id deduplicates
// reconnects.
func HandleRenderSocket(c *gin.Context) {
	sessionToken := c.Param("token")
	viewerID := c.Query("viewer")

	if sessionToken == "" || viewerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session token and viewer id required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:         conn,
		viewerID:     viewerID,
		sessionToken: sessionToken,
		send:         make(chan []byte, 256),
	}

	RenderHub.register <- client

	go client.writePump()
	go client.readPump()
}

// writePump writes queued frames to the connection and keeps it alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for viewer %s: %v", c.viewerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for viewer %s: %v", c.viewerID, err)
				return
			}
		}
	}
}

// readPump drains the connection; viewers are receive-only, so inbound
// frames are discarded, but the read loop detects disconnects.
func (c *Client) readPump() {
	defer func() {
		RenderHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error for viewer %s: %v", c.viewerID, err)
			}
			return
		}
	}
}
