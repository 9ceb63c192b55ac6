package handler

import (
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

// Login handles POST /auth/login. A successful password check does not log
// the user in yet: it emails a verification code and tells the client to
// move to the verify step.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email and password are required"})
	}

	role, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Verification code sent to your email",
		"role":    role,
	})
}

// Verify handles POST /auth/verify. Consumes the emailed code and issues
// the JWT.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if req.Email == "" || req.Code == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email and code are required"})
	}

	resp, err := h.authService.Verify(req.Email, req.Code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// ResendCode handles POST /auth/resend-code.
func (h *AuthHandler) ResendCode(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email is required"})
	}

	role, err := h.authService.ResendCode(req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Verification code resent",
		"role":    role,
	})
}

// ForgotPassword handles POST /forgot-password/verify-email.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email is required"})
	}

	if err := h.authService.SendPasswordResetCode(req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset code sent to your email"})
}

// GetProfile handles GET /settings?email=.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Email is required"})
	}

	profile, err := h.authService.GetProfile(email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles POST /settings/update.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if err := h.authService.UpdateProfile(&req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings updated successfully"})
}
