package validators

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"izilearn/backend/utils"
)

type CreateModuleRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Content  string `json:"content" validate:"omitempty,max=50000"`
	Duration *int   `json:"duration" validate:"omitempty,gte=1,lte=300"`
	Order    int    `json:"order" validate:"omitempty,gte=1"`
}

type UpdateModuleRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3,max=200"`
	Content  *string `json:"content" validate:"omitempty,max=50000"`
	Duration *int    `json:"duration" validate:"omitempty,gte=1,lte=300"`
	Order    *int    `json:"order" validate:"omitempty,gte=1"`
}

func (r *UpdateModuleRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Duration == nil && r.Order == nil
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(CreateModuleRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		req.Title = strings.TrimSpace(req.Title)
		c.Locals("validatedCreateModule", req)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(UpdateModuleRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		if req.Empty() {
			return utils.ErrMissingFields("No fields to update")
		}
		c.Locals("validatedUpdateModule", req)
		return c.Next()
	}
}
