package validators

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// Emails are compared case-insensitively throughout; normalize once at
// the validation boundary.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(RegisterRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = normalizeEmail(req.Email)
		c.Locals("validatedRegister", req)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(LoginRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		req.Email = normalizeEmail(req.Email)
		c.Locals("validatedLogin", req)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(UpdateProfileRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		if req.Name != nil {
			trimmed := strings.TrimSpace(*req.Name)
			req.Name = &trimmed
		}
		if req.Email != nil {
			normalized := normalizeEmail(*req.Email)
			req.Email = &normalized
		}
		c.Locals("validatedUpdateProfile", req)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(ChangePasswordRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		c.Locals("validatedChangePassword", req)
		return c.Next()
	}
}

func DeleteAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(DeleteAccountRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		c.Locals("validatedDeleteAccount", req)
		return c.Next()
	}
}
