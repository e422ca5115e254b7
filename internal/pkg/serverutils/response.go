package serverutils

import "github.com/gofiber/fiber/v2"

// SuccessResponse builds the standard JSON envelope for 200 responses.
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	}
}
