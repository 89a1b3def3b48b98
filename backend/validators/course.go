package validators

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"izilearn/backend/utils"
)

type CreateCourseRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	Description  string  `json:"description" validate:"required,min=10,max=2000"`
	Category     string  `json:"category" validate:"omitempty,oneof=programming design marketing business other"`
	Duration     *int    `json:"duration" validate:"omitempty,gte=1,lte=10000"`
	Level        string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price        float64 `json:"price" validate:"omitempty,gte=0"`
	Icon         string  `json:"icon"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Link         string  `json:"link" validate:"omitempty,url"`
	IsPublished  bool    `json:"is_published"`
}

// UpdateCourseRequest is a sparse update: only supplied fields change.
type UpdateCourseRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string  `json:"description" validate:"omitempty,min=10,max=2000"`
	Category     *string  `json:"category" validate:"omitempty,oneof=programming design marketing business other"`
	Duration     *int     `json:"duration" validate:"omitempty,gte=1,lte=10000"`
	Level        *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Icon         *string  `json:"icon"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Link         *string  `json:"link" validate:"omitempty,url"`
	IsPublished  *bool    `json:"is_published"`
}

// Empty reports whether no field was supplied.
func (r *UpdateCourseRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil &&
		r.Duration == nil && r.Level == nil && r.Price == nil &&
		r.Icon == nil && r.ThumbnailURL == nil && r.Link == nil && r.IsPublished == nil
}

type CourseListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(CreateCourseRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		req.Title = strings.TrimSpace(req.Title)
		req.Description = strings.TrimSpace(req.Description)
		c.Locals("validatedCreateCourse", req)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(UpdateCourseRequest)
		if err := parseAndValidate(c, req); err != nil {
			return err
		}
		if req.Empty() {
			return utils.ErrMissingFields("No fields to update")
		}
		c.Locals("validatedUpdateCourse", req)
		return c.Next()
	}
}

// CourseList validates pagination and filter query parameters.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := &CourseListQuery{
			Page:     c.QueryInt("page", 1),
			Limit:    c.QueryInt("limit", 10),
			Search:   strings.TrimSpace(c.Query("search")),
			Category: strings.TrimSpace(c.Query("category")),
		}

		errs := make(map[string]string)
		if query.Page < 1 {
			errs["page"] = "must be a positive integer"
		}
		if query.Limit < 1 || query.Limit > 100 {
			errs["limit"] = "must be between 1 and 100"
		}
		if len(query.Search) > 100 {
			errs["search"] = "must be at most 100 characters"
		}
		if query.Category != "" && query.Category != "all" && !validCategoryParam(query.Category) {
			errs["category"] = "must be one of: programming design marketing business other"
		}
		if len(errs) > 0 {
			return utils.ErrValidation(errs)
		}

		c.Locals("validatedCourseList", query)
		return c.Next()
	}
}

func validCategoryParam(category string) bool {
	switch category {
	case "programming", "design", "marketing", "business", "other":
		return true
	}
	return false
}
