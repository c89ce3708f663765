package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/guildops/guildops-api/internal/api/handler/v1/response"
	"github.com/guildops/guildops-api/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

// FeedEvent is one entry on the live ledger feed.
type FeedEvent struct {
	Type        string    `json:"type"` // "attendance_recorded" or "attendance_removed"
	EventID     uint      `json:"event_id"`
	CharacterID uint      `json:"character_id"`
	Delta       int       `json:"delta"`
	At          time.Time `json:"at"`
}

type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// FeedHandler streams ledger mutations to connected officers over
// WebSocket. The feed is outbound-only: clients subscribe, the
// attendance endpoints publish.
type FeedHandler struct {
	uSvc         UserService
	clients      map[uint]*feedClient
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *feedClient
	unregister   chan *feedClient
}

func NewFeedHandler(uSvc UserService) *FeedHandler {
	return &FeedHandler{
		uSvc:       uSvc,
		clients:    make(map[uint]*feedClient),
		broadcast:  make(chan []byte),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
	}
}

func (h *FeedHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client.userID] = client
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client.userID)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Broadcast publishes a ledger mutation to every connected client.
// Safe to call from any goroutine once Run is started.
func (h *FeedHandler) Broadcast(event FeedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Warn("feed event not marshaled", zap.Error(err))
		return
	}

	h.broadcast <- payload
}

// HandleFeed godoc
// @Summary Establish WebSocket connection for the live ledger feed
// @Description Streams attendance credits and reversals in real time. Requires the OFFICER role or above.
// @Tags feed
// @Produce json
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} response.Err
// @Failure 403 {object} response.Err
// @Router /feed [get]
// @Security BearerAuth
func (h *FeedHandler) HandleFeed(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an officer", user.ID)))
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("feed upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: user.ID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; it exists to detect disconnects.
func (c *feedClient) readPump(h *FeedHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Info("feed client dropped", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			break
		}
	}
}
