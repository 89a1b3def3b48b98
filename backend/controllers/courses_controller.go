package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/middleware"
	"izilearn/backend/models"
	"izilearn/backend/utils"
	"izilearn/backend/validators"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// statsFor augments courses with module and student counts and, when
// userID is non-zero, the caller's enrollment state and progress. The
// counts come from one grouped query per aggregate, whatever the page
// size.
func (cc *CoursesController) statsFor(courses []models.Course, userID uint) ([]models.CourseWithStats, error) {
	rows := make([]models.CourseWithStats, 0, len(courses))
	if len(courses) == 0 {
		return rows, nil
	}
	ids := courseIDsOf(courses)

	moduleCounts, err := moduleCountsByCourse(cc.DB, ids)
	if err != nil {
		return nil, err
	}
	studentCounts, err := studentCountsByCourse(cc.DB, ids)
	if err != nil {
		return nil, err
	}

	var enrolled map[uint]bool
	var completed map[uint]int64
	if userID != 0 {
		if enrolled, err = enrolledCourseSet(cc.DB, userID, ids); err != nil {
			return nil, err
		}
		if completed, err = completedCountsByCourse(cc.DB, userID, ids); err != nil {
			return nil, err
		}
	}

	for _, course := range courses {
		row := models.CourseWithStats{
			Course:           course,
			ModulesCount:     moduleCounts[course.ID],
			Students:         studentCounts[course.ID],
			IsEnrolled:       enrolled[course.ID],
			CompletedModules: completed[course.ID],
		}
		if row.IsEnrolled {
			row.Progress = models.ProgressPercentage(row.CompletedModules, row.ModulesCount)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func callerID(c *fiber.Ctx) uint {
	if user, ok := middleware.CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

// ListCourses godoc
// @Summary List courses
// @Description Paginated catalog with search and category filters
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	query := c.Locals("validatedCourseList").(*validators.CourseListQuery)

	filter := func(q *gorm.DB) *gorm.DB {
		if query.Search != "" {
			pattern := "%" + query.Search + "%"
			q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		}
		if query.Category != "" && query.Category != "all" {
			q = q.Where("category = ?", query.Category)
		}
		return q
	}

	var total int64
	if err := filter(cc.DB.Model(&models.Course{})).Count(&total).Error; err != nil {
		return err
	}

	var courses []models.Course
	if err := filter(cc.DB.Model(&models.Course{})).
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&courses).Error; err != nil {
		return err
	}

	rows, err := cc.statsFor(courses, callerID(c))
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"courses":    rows,
		"pagination": utils.NewPagination(query.Page, query.Limit, total),
	})
}

// GetCourse returns one course with the same augmentation as the listing.
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrCourseNotFound()
		}
		return err
	}

	rows, err := cc.statsFor([]models.Course{course}, callerID(c))
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"course": rows[0]})
}

// GetCourseModules lists a course's modules with the caller's completion
// state. Requires an active enrollment.
func (cc *CoursesController) GetCourseModules(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrCourseNotFound()
		}
		return err
	}

	var enrollments int64
	if err := cc.DB.Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, user.ID).
		Count(&enrollments).Error; err != nil {
		return err
	}
	if enrollments == 0 {
		return utils.ErrNotEnrolled(fiber.StatusForbidden)
	}

	var modules []models.Module
	if err := cc.DB.Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error; err != nil {
		return err
	}

	var completed []uint
	if err := cc.DB.Model(&models.Progress{}).
		Joins("JOIN modules ON modules.id = progresses.module_id").
		Where("modules.course_id = ? AND progresses.user_id = ? AND progresses.completed = ?", courseID, user.ID, true).
		Pluck("progresses.module_id", &completed).Error; err != nil {
		return err
	}
	completedSet := make(map[uint]bool, len(completed))
	for _, id := range completed {
		completedSet[id] = true
	}

	rows := make([]models.ModuleWithCompletion, 0, len(modules))
	for _, module := range modules {
		rows = append(rows, models.ModuleWithCompletion{
			Module:      module,
			IsCompleted: completedSet[module.ID],
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"modules": rows})
}

// CreateCourse creates a catalog entry. Admin only.
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	req := c.Locals("validatedCreateCourse").(*validators.CreateCourseRequest)

	course := models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Duration:     req.Duration,
		Level:        req.Level,
		Price:        req.Price,
		Icon:         req.Icon,
		ThumbnailURL: req.ThumbnailURL,
		Link:         req.Link,
		IsPublished:  req.IsPublished,
	}
	if course.Category == "" {
		course.Category = models.CategoryOther
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}
	if err := validateCourseEnums(course.Category, course.Level); err != nil {
		return err
	}

	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&course).Error
	}); err != nil {
		return err
	}

	return utils.Created(c, "Course created successfully", fiber.Map{"course": course})
}

// UpdateCourse applies a sparse update. Admin only.
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	req := c.Locals("validatedUpdateCourse").(*validators.UpdateCourseRequest)

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrCourseNotFound()
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	category := course.Category
	if req.Category != nil {
		category = *req.Category
	}
	level := course.Level
	if req.Level != nil {
		level = *req.Level
	}
	if err := validateCourseEnums(category, level); err != nil {
		return err
	}

	if err := cc.DB.Model(&course).Updates(updates).Error; err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Course updated successfully", fiber.Map{"course": course})
}

// DeleteCourse removes a course and cascades modules, enrollments and
// progress in one transaction. Admin only.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrCourseNotFound()
		}
		return err
	}

	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id IN (?)",
			tx.Model(&models.Module{}).Select("id").Where("course_id = ?", courseID),
		).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Module{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	}); err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Course deleted successfully", nil)
}

// validateCourseEnums is the store-side guard for enum fields; the
// validators normally stop bad values before they get here.
func validateCourseEnums(category, level string) error {
	if !models.ValidCategory(category) {
		return utils.ErrInvalidDataFormat("Unknown course category: " + category)
	}
	if !models.ValidLevel(level) {
		return utils.ErrInvalidDataFormat("Unknown course level: " + level)
	}
	return nil
}
