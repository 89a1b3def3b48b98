package validators

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"izilearn/backend/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures under the json field name, matching the payload
	// the caller sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// fieldErrors maps validator failures to per-field messages using the
// struct's json names.
func fieldErrors(err error) map[string]string {
	errs := make(map[string]string)
	var verrs validator.ValidationErrors
	if ok := isValidationErrors(err, &verrs); !ok {
		errs["body"] = "Invalid request data"
		return errs
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs[field] = field + " is required"
		case "email":
			errs[field] = "must be a valid email address"
		case "min":
			errs[field] = "must be at least " + fe.Param() + " characters or greater"
		case "max":
			errs[field] = "must be at most " + fe.Param() + " characters or less"
		case "oneof":
			errs[field] = "must be one of: " + fe.Param()
		case "url":
			errs[field] = "must be an absolute URL including the scheme"
		case "gte":
			errs[field] = "must be greater than or equal to " + fe.Param()
		case "gt":
			errs[field] = "must be greater than " + fe.Param()
		default:
			errs[field] = "is invalid"
		}
	}
	return errs
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// parseAndValidate decodes the body into dst and runs field validation.
func parseAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return utils.ErrInvalidDataFormat("Cannot parse request body")
	}
	if err := validate.Struct(dst); err != nil {
		return utils.ErrValidation(fieldErrors(err))
	}
	return nil
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, utils.ErrInvalidDataFormat("Invalid " + name + " parameter")
	}
	return uint(id), nil
}

// CourseIDParam validates the :id route parameter.
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// CourseIDNamedParam validates the :courseId route parameter.
func CourseIDNamedParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "courseId")
		if err != nil {
			return err
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// ModuleIDParam validates the :moduleId route parameter.
func ModuleIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "moduleId")
		if err != nil {
			return err
		}
		c.Locals("moduleID", id)
		return c.Next()
	}
}

// UserIDParam validates the :id route parameter for user lookups.
func UserIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		c.Locals("targetUserID", id)
		return c.Next()
	}
}
