package handlers

import "github.com/gofiber/fiber/v2"

// Every API response carries the {success, message} envelope the mobile
// client decodes; payload fields ride alongside.
func ok(c *fiber.Ctx, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
