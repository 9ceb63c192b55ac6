package handler

import (
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AlertHandler struct {
	service service.AlertService
}

func NewAlertHandler(s service.AlertService) *AlertHandler {
	return &AlertHandler{service: s}
}

// CreateStoredAlert handles POST /stored-alerts. Returns 201 with the new
// alert, or 200 with the existing open alert when the product already has
// one.
func (h *AlertHandler) CreateStoredAlert(c *fiber.Ctx) error {
	var req service.RecordAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	alert, created, err := h.service.RecordAlert(&req)
	if err != nil {
		return fail(c, err)
	}

	if !created {
		return c.JSON(fiber.Map{
			"message": "Alert already exists for this product",
			"alert":   alert.ToResponse(),
		})
	}
	return c.Status(201).JSON(alert.ToResponse())
}

// GetStoredAlerts handles GET /stored-alerts, newest first.
func (h *AlertHandler) GetStoredAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ListAll()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(model.ToAlertResponses(alerts))
}

// GetUnreadAlerts handles GET /stored-alerts/unread?role=.
func (h *AlertHandler) GetUnreadAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ListUnread(c.Query("role"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(model.ToAlertResponses(alerts))
}

type markReadRequest struct {
	Role string `json:"role"`
}

// MarkAllRead handles PUT /stored-alerts/mark-all-read.
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	result, err := h.service.MarkAllRead(req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "All alerts marked as read",
		"matchedCount":  result.Matched,
		"modifiedCount": result.Modified,
	})
}

// MarkRead handles PUT /stored-alerts/:id/read.
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid alert ID"})
	}

	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	alert, err := h.service.MarkRead(id, req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Alert marked as read",
		"alert":   alert.ToResponse(),
	})
}

// ResolveAlert handles PUT /stored-alerts/:id/resolve. Resolving re-arms
// alert creation for the product.
func (h *AlertHandler) ResolveAlert(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid alert ID"})
	}

	alert, err := h.service.Resolve(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Alert resolved",
		"alert":   alert.ToResponse(),
	})
}

// GetComputedAlerts handles GET /alert, the non-persisted view derived from
// current stock levels.
func (h *AlertHandler) GetComputedAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ComputedAlerts()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(alerts)
}
