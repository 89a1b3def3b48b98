package validators

import (
	"github.com/gofiber/fiber/v2"
)

type UpdateProgressRequest struct {
	ModuleID  uint  `json:"module_id" validate:"required,gte=1"`
	Completed *bool `json:"completed" validate:"required"`
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(UpdateProgressRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		c.Locals("validatedUpdateProgress", req)
		return c.Next()
	}
}
