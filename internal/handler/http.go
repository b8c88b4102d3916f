// Package handler - HTTP и WebSocket интерфейс сервиса.
package handler

import (
	"net/http"

	"investigation-server/internal/auth"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"
	"investigation-server/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// GameHandler обрабатывает запросы игрока.
type GameHandler struct {
	service  service.GameService
	verifier auth.TokenVerifier
	hub      *Hub
	logger   *zap.Logger
}

func NewGameHandler(s service.GameService, verifier auth.TokenVerifier, hub *Hub, log *zap.Logger) *GameHandler {
	return &GameHandler{
		service:  s,
		verifier: verifier,
		hub:      hub,
		logger:   logger.OrNop(log).Named("GameHandler"),
	}
}

// NewEcho собирает сервер с общими middleware и маршрутами.
func NewEcho(h *GameHandler, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(echoMiddleware.RequestID())
	e.Use(EchoZapLogger(logger.OrNop(log)))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.BodyLimit("8M"))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	h.RegisterRoutes(e)
	return e
}

// RegisterRoutes регистрирует маршруты игровых сессий.
func (h *GameHandler) RegisterRoutes(e *echo.Echo) {
	authMiddleware := AuthMiddleware(h.verifier, h.logger, false)

	sessions := e.Group("/sessions", authMiddleware)
	{
		sessions.POST("", h.createSession)
		sessions.GET("", h.listSessions)
		sessions.GET("/:id", h.getSession)
		sessions.DELETE("/:id", h.deleteSession)

		sessions.POST("/:id/hover", h.hover)
		sessions.POST("/:id/interact", h.interact)
		sessions.POST("/:id/photograph", h.photograph)
		sessions.POST("/:id/zoom/exit", h.exitZoom)

		sessions.POST("/:id/camera/next", h.nextCamera)
		sessions.POST("/:id/camera/previous", h.previousCamera)
		sessions.POST("/:id/camera/position", h.switchCamera)
		sessions.POST("/:id/camera/look", h.look)

		sessions.GET("/:id/journal", h.getJournal)
		sessions.GET("/:id/journal/photos/:entryId/url", h.photoURL)
		sessions.DELETE("/:id/journal/photos/:entryId", h.removePhoto)
		sessions.POST("/:id/day/advance", h.advanceDay)

		sessions.GET("/:id/dialogue", h.getDialogue)
		sessions.POST("/:id/dialogue/select", h.selectOption)
		sessions.POST("/:id/dialogue/end", h.endDialogue)
	}

	// WebSocket принимает токен и в query-параметре
	e.GET("/sessions/:id/events", h.serveEvents, AuthMiddleware(h.verifier, h.logger, true))
}

// sessionParams достает игрока и ID сессии из запроса.
func sessionParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	player, err := playerID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, models.ErrBadRequest
	}
	return player, id, nil
}
