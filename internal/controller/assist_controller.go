package controller

import (
	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/serverutils"
	"patent-scout-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistController interface {
	RegisterRoutes(r fiber.Router)
	ImproveDescription(ctx *fiber.Ctx) error
	GenerateKeywords(ctx *fiber.Ctx) error
	GenerateMoreKeywords(ctx *fiber.Ctx) error
	PatentInfo(ctx *fiber.Ctx) error
	SuggestAssignees(ctx *fiber.Ctx) error
}

type assistController struct {
	assistService service.IAssistService
}

func NewAssistController(assistService service.IAssistService) IAssistController {
	return &assistController{assistService: assistService}
}

func (c *assistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assist")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("/improve-description", c.ImproveDescription)
	h.Post("/keywords", c.GenerateKeywords)
	h.Post("/keywords/more", c.GenerateMoreKeywords)
	h.Get("/patent", c.PatentInfo)
	h.Get("/assignees", c.SuggestAssignees)
}

func (c *assistController) ImproveDescription(ctx *fiber.Ctx) error {
	var req dto.ImproveDescriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.assistService.ImproveDescription(ctx.Context(), &req)
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Description improved", res))
}

func (c *assistController) GenerateKeywords(ctx *fiber.Ctx) error {
	var req dto.GenerateKeywordsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.assistService.GenerateKeywords(ctx.Context(), &req)
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Keywords generated", res))
}

func (c *assistController) GenerateMoreKeywords(ctx *fiber.Ctx) error {
	var req dto.GenerateMoreKeywordsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.assistService.GenerateMoreKeywords(ctx.Context(), &req)
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Keywords generated", res))
}

func (c *assistController) PatentInfo(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("session_id")
	publicationNumber := ctx.Query("publication_number")
	if publicationNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "publication_number is required")
	}

	res, err := c.assistService.GetPatentInfo(ctx.Context(), sessionId, publicationNumber)
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *assistController) SuggestAssignees(ctx *fiber.Ctx) error {
	res, err := c.assistService.SuggestAssignees(ctx.Context(), ctx.Query("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{"assignees": res}))
}
