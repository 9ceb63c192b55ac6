package handler

import (
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetUsers handles GET /users with an optional ?email= exact-match filter.
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.Query("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	user, err := h.service.Create(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(user)
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	user, err := h.service.Update(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// SetUserStatus handles PUT /users/:id/status with {disabled}.
func (h *UserHandler) SetUserStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	user, err := h.service.SetDisabled(id, req.Disabled)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
