package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// Время на запись сообщения клиенту.
	writeWait = 10 * time.Second
	// Время ожидания следующего pong.
	pongWait = 60 * time.Second
	// Период пингов, меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Клиент ничего не присылает, кроме управляющих кадров.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: ограничить Origin списком из конфигурации вместе с CORS
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveEvents открывает поток событий сессии.
func (h *GameHandler) serveEvents(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	// проверяет существование сессии и владельца
	if _, err := h.service.GetSession(c.Request().Context(), player, id); err != nil {
		return handleServiceError(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.String("sessionID", id.String()), zap.Error(err))
		return nil
	}

	log := h.logger.With(zap.String("sessionID", id.String()), zap.String("playerID", player.String()))
	log.Info("WebSocket connection established")

	client := newClient(id, player, conn)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return nil
	}
	go client.writePump(log)
	go client.readPump(h.hub, log)
	return nil
}

// readPump читает управляющие кадры и следит за pong.
func (c *Client) readPump(hub *Hub, log *zap.Logger) {
	defer func() {
		hub.Unregister(c)
		_ = c.conn.Close()
		log.Debug("readPump finished")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("WebSocket read error", zap.Error(err))
			} else {
				log.Info("WebSocket connection closed")
			}
			return
		}
		log.Debug("Ignoring message from client")
	}
}

// writePump отправляет события из очереди и пингует клиента.
// Накопившиеся события уходят одним кадром, разделенные переводом строки.
func (c *Client) writePump(log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		log.Debug("writePump finished")
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				log.Warn("Failed to get next writer", zap.Error(err))
				return
			}
			_, _ = w.Write(message)
			for i, n := 0, len(c.send); i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.send)
			}
			if err := w.Close(); err != nil {
				log.Warn("Failed to flush message", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}
