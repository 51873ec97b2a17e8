package sectionperf

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/evanjt/veloq-sub002/internal/perf"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id/performance", func(c *fiber.Ctx) error {
		resp, err := svc.Performance(c.Context(),
			c.Params("id"),
			c.Query("range", "all"),
			c.Query("granularity", "monthly"),
			c.Query("view", "auto"),
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "section not found")
			}
			if errors.Is(err, perf.ErrBadSelection) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})

	r.Get("/:id/polyline", func(c *fiber.Ctx) error {
		var tolerance float64
		if raw := c.Query("tolerance"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid tolerance")
			}
			tolerance = parsed
		}
		resp, err := svc.Polyline(c.Context(), c.Params("id"), tolerance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "section not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})

	r.Get("/:id/calendar", func(c *fiber.Ctx) error {
		resp, err := svc.Calendar(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "section not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})
}
