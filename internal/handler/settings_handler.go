package handler

import (
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	service service.SettingsService
	logRepo repository.SystemLogRepository
}

func NewSettingsHandler(s service.SettingsService, logRepo repository.SystemLogRepository) *SettingsHandler {
	return &SettingsHandler{service: s, logRepo: logRepo}
}

// GetSettings handles GET /system-settings. The singleton is created with
// defaults on first read.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Get()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings handles POST /system-settings/update. Omitted fields keep
// their current values.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req service.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	settings, err := h.service.Update(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Settings saved",
		"settings": settings,
	})
}

// GetSystemLogs handles GET /system-logs, newest first.
func (h *SettingsHandler) GetSystemLogs(c *fiber.Ctx) error {
	logs, err := h.logRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to fetch system logs"})
	}
	return c.JSON(logs)
}
