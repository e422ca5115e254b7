package controller

import (
	"errors"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/serverutils"
	"patent-scout-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	NextPage(ctx *fiber.Ctx) error
	PrevPage(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{searchService: searchService}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions/:id/search")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("", c.Run)
	h.Post("/next", c.NextPage)
	h.Post("/prev", c.PrevPage)
	h.Post("/select", c.Select)
}

func (c *searchController) Run(ctx *fiber.Ctx) error {
	var req dto.RunSearchRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}
	if req.VisitorId == "" {
		req.VisitorId = ctx.Get("X-Visitor-Id")
	}

	res, err := c.searchService.Run(ctx.Context(), ctx.Params("id"), currentUser(ctx), &req)
	if err != nil {
		if errors.Is(err, service.ErrFreeTierLimit) {
			return fiber.NewError(fiber.StatusPaymentRequired, err.Error())
		}
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func (c *searchController) NextPage(ctx *fiber.Ctx) error {
	res, err := c.searchService.NextPage(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *searchController) PrevPage(ctx *fiber.Ctx) error {
	res, err := c.searchService.PrevPage(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func (c *searchController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectResultRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.searchService.Select(ctx.Context(), ctx.Params("id"), req.Index)
	if err != nil {
		return notFoundOr(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", res))
}

func notFoundOr(err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
