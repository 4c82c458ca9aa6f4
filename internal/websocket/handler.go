package websocket

import (
	"time"

	"insight-copilot-be/internal/dto"
	"insight-copilot-be/internal/pkg/logger"
	"insight-copilot-be/internal/pkg/serverutils"
	"insight-copilot-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

// StreamHandler drives the chat pipeline over a websocket connection.
// Authentication happens per chat_query envelope, never at connection
// establishment, so a connection outliving its token keeps working as
// long as each query carries a fresh one.
type StreamHandler struct {
	service    service.ICopilotService
	verifier   serverutils.TokenVerifier
	hub        *Hub
	logger     logger.ILogger
	tokenDelay time.Duration
}

func NewStreamHandler(
	svc service.ICopilotService,
	verifier serverutils.TokenVerifier,
	hub *Hub,
	log logger.ILogger,
	tokenDelay time.Duration,
) *StreamHandler {
	return &StreamHandler{
		service:    svc,
		verifier:   verifier,
		hub:        hub,
		logger:     log,
		tokenDelay: tokenDelay,
	}
}

// ServeWs handles websocket requests from the peer. Each connection is a
// fresh protocol instance: nothing carries over from a previous one.
func (h *StreamHandler) ServeWs(conn *websocket.Conn) {
	client := newClient(h.hub, conn)
	client.setState(StateOpen)

	go client.writePump()
	go h.queryLoop(client)
	client.readPump()
}

// queryLoop consumes chat queries serially so replies on one connection
// never interleave.
func (h *StreamHandler) queryLoop(c *Client) {
	for {
		select {
		case <-c.ctx.Done():
			return
		case query := <-c.queries:
			h.handleQuery(c, query)
		}
	}
}

func (h *StreamHandler) handleQuery(c *Client, query *ChatQueryEnvelope) {
	principal, err := h.verifier.Verify(query.Token)
	if err != nil {
		c.WriteEnvelope(ErrorEnvelope{Type: EnvelopeError, Code: serverutils.CodeUnauthorized, Message: "Invalid or expired token"})
		return
	}

	if c.isRegistered() {
		if c.UserID != principal.Subject {
			// The token verified, but this connection already belongs to
			// a different user.
			c.WriteEnvelope(ErrorEnvelope{Type: EnvelopeError, Code: serverutils.CodeForbidden, Message: "Connection is bound to another user"})
			return
		}
	} else {
		c.markRegistered(principal.Subject)
		h.hub.register <- c
	}

	c.WriteEnvelope(TypingEnvelope{Type: EnvelopeTyping, SessionId: query.SessionId})

	res, err := h.service.Chat(c.ctx, principal, &dto.ChatRequest{
		SessionId: query.SessionId,
		Query:     query.Query,
		Context:   query.Context,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.setState(StateStreaming)
	defer c.setState(StateOpen)

	if err := StreamResponse(c.ctx, c, res, h.tokenDelay); err != nil {
		if c.ctx.Err() != nil {
			// Connection went away mid-stream. Nothing to tell the peer.
			return
		}
		h.logger.Warn("Websocket", "Streaming aborted", map[string]interface{}{
			"session_id": res.SessionId,
			"error":      err.Error(),
		})
	}
}

func (h *StreamHandler) writeError(c *Client, err error) {
	appErr := serverutils.AsAppError(err)
	if appErr.Code == serverutils.CodeInternal {
		h.logger.Error("Websocket", "Pipeline failure", map[string]interface{}{"error": err.Error()})
	}
	c.WriteEnvelope(ErrorEnvelope{Type: EnvelopeError, Code: appErr.Code, Message: appErr.Message})
}
