package controller

import (
	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/serverutils"
	"patent-scout-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	Report(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type logController struct {
	logService service.ILogService
}

func NewLogController(logService service.ILogService) ILogController {
	return &logController{logService: logService}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/logs")
	h.Post("/report", c.Report)
	h.Get("", serverutils.JwtMiddleware, c.List)
	h.Get("/:id", serverutils.JwtMiddleware, c.Show)
}

// Report accepts the browser's error popup payload.
func (c *logController) Report(ctx *fiber.Ctx) error {
	var req dto.ClientErrorReport
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	c.logService.Report(ctx.Context(), &req)
	return ctx.JSON(serverutils.SuccessResponse("Reported", nil))
}

func (c *logController) List(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.logService.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", logs))
}

func (c *logController) Show(ctx *fiber.Ctx) error {
	entry, err := c.logService.GetLogById(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", entry))
}
