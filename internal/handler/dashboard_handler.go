package handler

import (
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetTodaySales handles GET /sales/today, completed transactions only.
func (h *DashboardHandler) GetTodaySales(c *fiber.Ctx) error {
	total, err := h.service.GetTodaySales()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": total})
}

// GetSalesTrend handles GET /sales/trend?period=daily|weekly|monthly.
func (h *DashboardHandler) GetSalesTrend(c *fiber.Ctx) error {
	trend, err := h.service.GetSalesTrend(c.Query("period", "daily"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(trend)
}
