package controller

import (
	"errors"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/serverutils"
	"patent-scout-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	EmitEvent(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{sessionService: sessionService}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Get("", serverutils.JwtMiddleware, c.History)
	h.Delete("/:id", serverutils.JwtMiddleware, c.Delete)

	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Post("/:id/save", c.Save)
	h.Post("/:id/events", c.EmitEvent)
}

// currentUser resolves the authenticated user id, nil for anonymous.
func currentUser(ctx *fiber.Ctx) *uuid.UUID {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil
	}
	return &userId
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.sessionService.Create(ctx.Context(), currentUser(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *sessionController) Save(ctx *fiber.Ctx) error {
	if err := c.sessionService.Save(ctx.Context(), ctx.Params("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Session saved", nil))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	if userId == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	if err := c.sessionService.Delete(ctx.Context(), *userId, ctx.Params("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	if userId == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	res, err := c.sessionService.History(ctx.Context(), *userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *sessionController) EmitEvent(ctx *fiber.Ctx) error {
	var req dto.EmitEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.sessionService.EmitEvent(ctx.Context(), ctx.Params("id"), &req); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Event accepted", nil))
}
