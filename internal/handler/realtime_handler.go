package handler

import (
	"context"
	"encoding/json"
	"time"

	"loan-voice-be/internal/config"
	"loan-voice-be/internal/constant"
	"loan-voice-be/internal/dto"
	"loan-voice-be/internal/pkg/logger"
	internalWS "loan-voice-be/internal/websocket"
	"loan-voice-be/pkg/realtime"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	handshakeTimeout = 10 * time.Second
	upstreamTimeout  = 15 * time.Second
)

type RealtimeHandler struct {
	cfg      *config.Config
	hub      *internalWS.Hub
	deps     internalWS.SessionDeps
	validate *validator.Validate
	logger   logger.ILogger
}

func NewRealtimeHandler(cfg *config.Config, hub *internalWS.Hub, deps internalWS.SessionDeps, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		cfg:      cfg,
		hub:      hub,
		deps:     deps,
		validate: validator.New(),
		logger:   log,
	}
}

// ServeWs upgrades the request and runs one relay session per connection.
func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.handleConn(conn)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *RealtimeHandler) handleConn(conn *websocket.Conn) {
	sessionID := uuid.New()

	if err := h.awaitConfig(conn); err != nil {
		h.logger.Warn("RealtimeHandler", "Handshake failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		_ = conn.WriteJSON(dto.ErrorEvent{Type: dto.EventError, Message: "expected config message"})
		return
	}

	if err := conn.WriteJSON(dto.ConfigAck{Type: dto.EventConfigAck}); err != nil {
		return
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), upstreamTimeout)
	upstream, err := realtime.Dial(dialCtx, realtime.Config{
		APIKey:       h.cfg.OpenAI.APIKey,
		BaseURL:      h.cfg.OpenAI.RealtimeURL,
		Model:        h.cfg.OpenAI.RealtimeModel,
		Voice:        h.cfg.OpenAI.Voice,
		Instructions: constant.AssistantInstructions,
	})
	cancel()
	if err != nil {
		h.logger.Error("RealtimeHandler", "Upstream dial failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		_ = conn.WriteJSON(dto.ErrorEvent{Type: dto.EventError, Message: "speech service unavailable"})
		return
	}

	h.logger.Info("RealtimeHandler", "Starting relay session", map[string]interface{}{
		"session_id": sessionID,
	})

	session := internalWS.NewSession(sessionID, conn, upstream, h.deps)
	h.hub.Register(sessionID, session.Writer())
	defer h.hub.Unregister(sessionID)

	session.Run()

	h.logger.Info("RealtimeHandler", "Relay session ended", map[string]interface{}{
		"session_id": sessionID,
	})
}

// awaitConfig blocks for the client's opening config message. The deadline is
// cleared afterwards; the session applies its own read deadline.
func (h *RealtimeHandler) awaitConfig(conn *websocket.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return err
	}
	defer conn.SetReadDeadline(time.Time{})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return err
	}

	var cfg dto.ClientConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}
	return h.validate.Struct(&cfg)
}

// RegisterRoutes registers the relay routes.
func (h *RealtimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/realtime/ws", h.ServeWs)
}
