package handler

import (
	"context"
	"encoding/json"
	"sync"

	"investigation-server/internal/events"
	"investigation-server/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBufferSize = 256

// Client - WebSocket-подписчик на события одной сессии.
type Client struct {
	SessionID uuid.UUID
	PlayerID  uuid.UUID
	conn      *websocket.Conn
	send      chan []byte
}

func newClient(sessionID, playerID uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{
		SessionID: sessionID,
		PlayerID:  playerID,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}
}

// Hub держит WebSocket-подписчиков и рассылает им события сессий.
// На сессию приходится одно соединение: новое вытесняет старое.
type Hub struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	closeReq   chan uuid.UUID
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		closeReq:   make(chan uuid.UUID),
		done:       make(chan struct{}),
		logger:     logger.OrNop(log).Named("Hub"),
	}
}

// Run обрабатывает регистрацию клиентов до отмены ctx, после чего
// закрывает все соединения.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Hub started")
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.SessionID]; ok {
				h.logger.Info("Replacing existing connection", zap.String("sessionID", c.SessionID.String()))
				close(old.send)
			}
			h.clients[c.SessionID] = c
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			// вытесненный клиент уже удален из карты
			if cur, ok := h.clients[c.SessionID]; ok && cur == c {
				delete(h.clients, c.SessionID)
				close(c.send)
			}
			h.mu.Unlock()

		case id := <-h.closeReq:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("Hub stopped")
			return
		}
	}
}

func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// CloseSession отключает подписчика удаленной сессии.
func (h *Hub) CloseSession(id uuid.UUID) {
	select {
	case h.closeReq <- id:
	case <-h.done:
	}
}

// Connected сообщает, есть ли подписчик у сессии.
func (h *Hub) Connected(id uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[id]
	return ok
}

// Publish ставит события в очереди подписчиков. Сессия без подписчика
// не считается ошибкой.
func (h *Hub) Publish(_ context.Context, evs ...events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ev := range evs {
		c, ok := h.clients[ev.SessionID]
		if !ok {
			continue
		}
		msg, err := json.Marshal(ev)
		if err != nil {
			h.logger.Error("Failed to marshal event", zap.String("type", string(ev.Type)), zap.Error(err))
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Client send queue is full, dropping event",
				zap.String("sessionID", ev.SessionID.String()), zap.String("type", string(ev.Type)))
		}
	}
	return nil
}

var _ events.Sink = (*Hub)(nil)
