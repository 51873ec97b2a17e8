package auth

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/devices", func(c *fiber.Ctx) error {
		var body struct {
			Name string `json:"name"`
			Key  string `json:"key"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		device, err := svc.RegisterDevice(c.Context(), body.Name, body.Key)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(device)
	})

	r.Post("/token", func(c *fiber.Ctx) error {
		var body struct {
			DeviceID string `json:"device_id"`
			Key      string `json:"key"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.DeviceID == "" || body.Key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "device_id and key required")
		}
		tokens, err := svc.IssueToken(c.Context(), body.DeviceID, body.Key)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(tokens)
	})
}
