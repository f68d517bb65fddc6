package controller

import (
	"ai-context-be/internal/dto"
	"ai-context-be/internal/pkg/serverutils"
	"ai-context-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContextController interface {
	RegisterRoutes(r fiber.Router)
	LoadContext(ctx *fiber.Ctx) error
	CorrectSummary(ctx *fiber.Ctx) error
	ProcessMessage(ctx *fiber.Ctx) error
	FinalizeSession(ctx *fiber.Ctx) error
	Breadcrumbs(ctx *fiber.Ctx) error
}

type contextController struct {
	contextService service.IContextService
	trackerService service.ITrackerService
	sessionService service.ISessionService
}

func NewContextController(
	contextService service.IContextService,
	trackerService service.ITrackerService,
	sessionService service.ISessionService,
) IContextController {
	return &contextController{
		contextService: contextService,
		trackerService: trackerService,
		sessionService: sessionService,
	}
}

func (c *contextController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/context/v1")
	h.Post("load", c.LoadContext)
	h.Post("correct", c.CorrectSummary)
	h.Post("message", c.ProcessMessage)
	h.Post("session/:id/finalize", c.FinalizeSession)
	h.Get("breadcrumbs", c.Breadcrumbs)
}

func (c *contextController) LoadContext(ctx *fiber.Ctx) error {
	var req dto.LoadContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	userId, _ := uuid.Parse(req.UserId)

	res := c.contextService.LoadContext(ctx.Context(), userId, &req)
	return ctx.JSON(serverutils.SuccessResponse("Context loaded", res))
}

func (c *contextController) CorrectSummary(ctx *fiber.Ctx) error {
	var req dto.CorrectSummaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	userId, _ := uuid.Parse(req.UserId)

	res := c.contextService.CorrectSummary(ctx.Context(), userId, &req)
	return ctx.JSON(serverutils.SuccessResponse("Correction processed", res))
}

func (c *contextController) ProcessMessage(ctx *fiber.Ctx) error {
	var req dto.ProcessMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	userId, _ := uuid.Parse(req.UserId)
	sessionId, _ := uuid.Parse(req.SessionId)
	role := req.Role
	if role == "" {
		role = "user"
	}

	res := c.trackerService.ProcessMessage(ctx.Context(), userId, sessionId, role, req.Content)
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *contextController) FinalizeSession(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	var req dto.FinalizeSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	userId, _ := uuid.Parse(req.UserId)

	sum, err := c.sessionService.FinalizeSession(ctx.Context(), userId, sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if sum == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session finalized", sum))
}

func (c *contextController) Breadcrumbs(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Query("user_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "user_id query parameter is required"))
	}

	breadcrumbs := c.contextService.Breadcrumbs(ctx.Context(), userId)
	return ctx.JSON(serverutils.SuccessResponse("Breadcrumbs", dto.BreadcrumbsResponse{
		Breadcrumbs: breadcrumbs,
	}))
}
