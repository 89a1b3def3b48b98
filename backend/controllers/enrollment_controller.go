package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/middleware"
	"izilearn/backend/models"
	"izilearn/backend/utils"
)

type EnrollmentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentController(db *gorm.DB, cfg *config.Config) *EnrollmentController {
	return &EnrollmentController{DB: db, Cfg: cfg}
}

// GetMyEnrollments lists the caller's enrolled courses with progress,
// most recently enrolled first.
func (ec *EnrollmentController) GetMyEnrollments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}

	var enrollments []models.Enrollment
	if err := ec.DB.Where("user_id = ?", user.ID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return err
	}

	rows := make([]models.EnrolledCourse, 0, len(enrollments))
	if len(enrollments) == 0 {
		return utils.Success(c, fiber.StatusOK, fiber.Map{"enrollments": rows})
	}

	ids := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.CourseID)
	}

	var courses []models.Course
	if err := ec.DB.Find(&courses, ids).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	moduleCounts, err := moduleCountsByCourse(ec.DB, ids)
	if err != nil {
		return err
	}
	completedCounts, err := completedCountsByCourse(ec.DB, user.ID, ids)
	if err != nil {
		return err
	}

	for _, enrollment := range enrollments {
		row := models.EnrolledCourse{
			Course:           byID[enrollment.CourseID],
			EnrolledAt:       enrollment.EnrolledAt,
			ModulesCount:     moduleCounts[enrollment.CourseID],
			CompletedModules: completedCounts[enrollment.CourseID],
		}
		row.Progress = models.ProgressPercentage(row.CompletedModules, row.ModulesCount)
		rows = append(rows, row)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"enrollments": rows})
}

// Enroll creates an enrollment for the caller. The composite unique
// constraint arbitrates concurrent double-enrolls.
func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := ec.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrCourseNotFound()
		}
		return err
	}

	var existing int64
	if err := ec.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, courseID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return utils.ErrAlreadyEnrolled()
	}

	enrollment := models.Enrollment{UserID: user.ID, CourseID: courseID}
	if err := ec.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&enrollment).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrAlreadyEnrolled()
		}
		return err
	}

	return utils.Created(c, "Enrolled successfully", fiber.Map{"enrollment": enrollment})
}

// Unenroll removes the enrollment and, in the same transaction, every
// progress row the caller holds for that course's modules.
func (ec *EnrollmentController) Unenroll(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	courseID := c.Locals("courseID").(uint)

	var enrollment models.Enrollment
	if err := ec.DB.Where("user_id = ? AND course_id = ?", user.ID, courseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotEnrolled(fiber.StatusBadRequest)
		}
		return err
	}

	if err := ec.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND module_id IN (?)",
			user.ID,
			tx.Model(&models.Module{}).Select("id").Where("course_id = ?", courseID),
		).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&enrollment).Error
	}); err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Unenrolled successfully", nil)
}
