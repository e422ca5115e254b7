package handler

import (
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/service"
	internalWS "patent-scout-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionStreamHandler upgrades websocket connections that want the live
// state feed of a session. Every mutation of the session's state tree is
// pushed as a full snapshot; clients replace their copy wholesale.
type SessionStreamHandler struct {
	sessionService service.ISessionService
	hub            *internalWS.Hub
	logger         logger.ILogger
}

func NewSessionStreamHandler(sessionService service.ISessionService, hub *internalWS.Hub, logger logger.ILogger) *SessionStreamHandler {
	return &SessionStreamHandler{
		sessionService: sessionService,
		hub:            hub,
		logger:         logger,
	}
}

func (h *SessionStreamHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws/sessions/:id", h.Stream)
}

func (h *SessionStreamHandler) Stream(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	// Knowing the session id is the capability; resolve it before the
	// upgrade so dead ids fail with a plain 404 instead of a dropped socket.
	if _, err := h.sessionService.Resolve(c.Context(), sessionID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("SessionStreamHandler", "Starting state stream", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("SessionStreamHandler", "State stream ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
