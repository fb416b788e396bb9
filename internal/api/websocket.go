package api

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/metrics"
)

type wsMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// wsClient serialises writes to one connection
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub tracks connected websocket clients and broadcasts reminders to them
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		metrics: m,
		logger:  logger,
	}
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.IncrementWSConnections()
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		h.metrics.DecrementWSConnections()
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) snapshot() []*wsClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

func (h *Hub) Name() string {
	return "websocket"
}

// Notify broadcasts a reminder. It fails when no client received it.
func (h *Hub) Notify(ctx context.Context, message string) error {
	clients := h.snapshot()
	if len(clients) == 0 {
		return apperrors.New(apperrors.ErrChannelUnavailable.Code, "no websocket clients connected")
	}

	delivered := 0
	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.send(wsMessage{Type: "reminder", Message: message}); err != nil {
			h.logger.Debug("Websocket send failed", zap.Error(err))
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return apperrors.New(apperrors.ErrChannelUnavailable.Code, "reminder not delivered")
	}
	return nil
}

func (h *Hub) CloseAll() {
	for _, c := range h.snapshot() {
		c.mu.Lock()
		_ = c.conn.Close()
		c.mu.Unlock()
		h.remove(c)
	}
}

func (s *Server) websocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if err := s.verifyToken(c.Query("token")); err != nil {
			return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid token"))
		}
		return c.Next()
	}
}

// handleWebSocket accepts chat messages and pushes replies plus reminders
func (s *Server) handleWebSocket(conn *websocket.Conn) {
	client := &wsClient{conn: conn}
	s.hub.add(client)
	defer func() {
		s.hub.remove(client)
		_ = conn.Close()
	}()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "chat":
			resp, err := s.assistant.Handle(context.Background(), msg.Message)
			if err != nil {
				_ = client.send(wsMessage{Type: "error", Error: err.Error()})
				continue
			}
			_ = client.send(wsMessage{Type: "response", Message: resp.Reply, Data: resp})
		case "ping":
			_ = client.send(wsMessage{Type: "pong"})
		default:
			_ = client.send(wsMessage{Type: "error", Error: "unknown message type"})
		}
	}
}
