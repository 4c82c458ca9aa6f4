package controller

import (
	"insight-copilot-be/internal/dto"
	"insight-copilot-be/internal/pkg/serverutils"
	"insight-copilot-be/internal/service"
	internalWS "insight-copilot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ICopilotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type copilotController struct {
	copilotService service.ICopilotService
	verifier       serverutils.TokenVerifier
	streamHandler  *internalWS.StreamHandler
}

func NewCopilotController(
	copilotService service.ICopilotService,
	verifier serverutils.TokenVerifier,
	streamHandler *internalWS.StreamHandler,
) ICopilotController {
	return &copilotController{
		copilotService: copilotService,
		verifier:       verifier,
		streamHandler:  streamHandler,
	}
}

func (c *copilotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/copilot/v1")
	h.Use(serverutils.AuthMiddleware(c.verifier))
	h.Post("chat", c.Chat)
	h.Get("sessions", c.ListSessions)
	h.Get("sessions/:id", c.ShowSession)

	// The websocket endpoint authenticates per envelope, not per request,
	// so it lives outside the auth middleware.
	r.Get("/ws", c.ServeWs)
}

func (c *copilotController) Chat(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Malformed request body", nil)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.copilotService.Chat(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *copilotController) ListSessions(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)

	res, err := c.copilotService.ListSessions(ctx.Context(), principal)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *copilotController) ShowSession(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewNotFoundError("Session not found")
	}

	res, err := c.copilotService.GetSession(ctx.Context(), principal, id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *copilotController) ServeWs(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.streamHandler.ServeWs(conn)
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
