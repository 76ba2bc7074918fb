package controller

import (
	"strconv"
	"strings"
	"time"

	"collabdesk-be/internal/dto"
	"collabdesk-be/internal/entity"
	"collabdesk-be/internal/pkg/serverutils"
	"collabdesk-be/internal/service"
	"collabdesk-be/pkg/collab/contextstore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICollabController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	ShowSessionState(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	PauseSession(ctx *fiber.Ctx) error
	ResumeSession(ctx *fiber.Ctx) error
	CancelSession(ctx *fiber.Ctx) error
	StoreContext(ctx *fiber.Ctx) error
	QueryContext(ctx *fiber.Ctx) error
	ShowConversation(ctx *fiber.Ctx) error
	ListAgents(ctx *fiber.Ctx) error
	ShowAgent(ctx *fiber.Ctx) error
}

type collabController struct {
	service service.ICollabService
}

func NewCollabController(service service.ICollabService) ICollabController {
	return &collabController{service: service}
}

func (c *collabController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/collab/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:id", c.ShowSession)
	h.Get("/sessions/:id/state", c.ShowSessionState)
	h.Post("/sessions/:id/messages", c.SendMessage)
	h.Post("/sessions/:id/pause", c.PauseSession)
	h.Post("/sessions/:id/resume", c.ResumeSession)
	h.Delete("/sessions/:id", c.CancelSession)
	h.Post("/sessions/:id/context", c.StoreContext)
	h.Get("/sessions/:id/conversation", c.ShowConversation)
	h.Get("/context", c.QueryContext)
	h.Get("/agents", c.ListAgents)
	h.Get("/agents/:id", c.ShowAgent)
}

func callerUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

func (c *collabController) CreateSession(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	res, err := c.service.CreateSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *collabController) ShowSession(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *collabController) ShowSessionState(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSessionState(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session state", res))
}

func (c *collabController) SendMessage(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message routed", res))
}

func (c *collabController) PauseSession(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.PauseSession(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session paused", nil))
}

func (c *collabController) ResumeSession(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.ResumeSession(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session resumed", nil))
}

func (c *collabController) CancelSession(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.CancelSession(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session closed", nil))
}

func (c *collabController) StoreContext(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.StoreContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StoreContext(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Context stored", res))
}

func (c *collabController) QueryContext(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	query, err := parseContextQuery(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.QueryContext(ctx.Context(), userId, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query context", res))
}

func (c *collabController) ShowConversation(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetConversation(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.JSON(serverutils.SuccessResponse("No conversation recorded yet", nil))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}

func (c *collabController) ListAgents(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get agents", c.service.ListAgents(ctx.Context())))
}

func (c *collabController) ShowAgent(ctx *fiber.Ctx) error {
	res, ok := c.service.GetAgent(ctx.Context(), ctx.Params("id"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("Agent not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get agent", res))
}

// parseContextQuery maps query-string filters onto a store query. CSV
// params are any-of filters; absent params leave the filter unconstrained.
func parseContextQuery(ctx *fiber.Ctx) (contextstore.Query, error) {
	var query contextstore.Query

	if raw := ctx.Query("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return query, fiber.NewError(fiber.StatusBadRequest, "Invalid session_id filter")
		}
		query.SessionId = &id
	}
	query.AgentId = ctx.Query("agent_id")

	for _, v := range splitCSV(ctx.Query("types")) {
		query.ContextTypes = append(query.ContextTypes, entity.ContextType(v))
	}
	query.Keys = splitCSV(ctx.Query("keys"))
	query.Tags = splitCSV(ctx.Query("tags"))
	for _, v := range splitCSV(ctx.Query("priorities")) {
		query.Priorities = append(query.Priorities, entity.ContextPriority(v))
	}

	from, to := ctx.Query("from"), ctx.Query("to")
	if from != "" || to != "" {
		tr := &contextstore.TimeRange{Start: time.Time{}, End: time.Now()}
		if from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return query, fiber.NewError(fiber.StatusBadRequest, "Invalid 'from' timestamp")
			}
			tr.Start = t
		}
		if to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return query, fiber.NewError(fiber.StatusBadRequest, "Invalid 'to' timestamp")
			}
			tr.End = t
		}
		query.TimeRange = tr
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, fiber.NewError(fiber.StatusBadRequest, "Invalid 'limit'")
		}
		query.Limit = limit
	}

	return query, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
