package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"izilearn/backend/config"
	"izilearn/backend/middleware"
	"izilearn/backend/models"
	"izilearn/backend/utils"
	"izilearn/backend/validators"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

func (pc *ProgressController) courseCounts(userID, courseID uint) (total, completed int64, err error) {
	if err = pc.DB.Model(&models.Module{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return
	}
	err = pc.DB.Model(&models.Progress{}).
		Joins("JOIN modules ON modules.id = progresses.module_id").
		Where("modules.course_id = ? AND progresses.user_id = ? AND progresses.completed = ?", courseID, userID, true).
		Count(&completed).Error
	return
}

// UpdateModuleProgress upserts the caller's completion flag for one
// module, then reports the recomputed course percentage. The recompute
// is a read after commit: under concurrent toggles the returned
// percentage is a best-effort snapshot.
func (pc *ProgressController) UpdateModuleProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	req := c.Locals("validatedUpdateProgress").(*validators.UpdateProgressRequest)
	completed := *req.Completed

	var module models.Module
	if err := pc.DB.First(&module, req.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrModuleNotFound()
		}
		return err
	}

	var course models.Course
	if err := pc.DB.First(&course, module.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrModuleNotFound()
		}
		return err
	}

	var enrollments int64
	if err := pc.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, module.CourseID).
		Count(&enrollments).Error; err != nil {
		return err
	}
	if enrollments == 0 {
		return utils.ErrNotEnrolled(fiber.StatusForbidden)
	}

	progress := models.Progress{
		UserID:    user.ID,
		ModuleID:  module.ID,
		Completed: completed,
	}
	if err := pc.DB.Transaction(func(tx *gorm.DB) error {
		// Keyed on the (user_id, module_id) unique index; a concurrent
		// insert for the same pair collapses into the update branch.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed":  completed,
				"updated_at": time.Now(),
			}),
		}).Create(&progress).Error
	}); err != nil {
		return err
	}

	total, done, err := pc.courseCounts(user.ID, module.CourseID)
	if err != nil {
		return err
	}

	message := "Progress updated"
	if completed {
		message = "Module marked as completed"
	}

	return utils.SuccessMessage(c, fiber.StatusOK, message, fiber.Map{
		"progress": fiber.Map{
			"id":              progress.ID,
			"module_id":       module.ID,
			"course_id":       module.CourseID,
			"completed":       completed,
			"course_progress": models.ProgressPercentage(done, total),
			"course_title":    course.Title,
		},
	})
}

// GetCourseProgress returns every module in the course annotated with
// the caller's completion state plus the aggregate percentage.
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	courseID := c.Locals("courseID").(uint)

	var enrollments int64
	if err := pc.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, courseID).
		Count(&enrollments).Error; err != nil {
		return err
	}
	if enrollments == 0 {
		return utils.ErrNotEnrolled(fiber.StatusForbidden)
	}

	var modules []models.Module
	if err := pc.DB.Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error; err != nil {
		return err
	}

	var completedIDs []uint
	if err := pc.DB.Model(&models.Progress{}).
		Joins("JOIN modules ON modules.id = progresses.module_id").
		Where("modules.course_id = ? AND progresses.user_id = ? AND progresses.completed = ?", courseID, user.ID, true).
		Pluck("progresses.module_id", &completedIDs).Error; err != nil {
		return err
	}
	completedSet := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	rows := make([]models.ModuleWithCompletion, 0, len(modules))
	for _, module := range modules {
		rows = append(rows, models.ModuleWithCompletion{
			Module:      module,
			IsCompleted: completedSet[module.ID],
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id":             courseID,
		"total_modules":         len(modules),
		"completed_modules":     len(completedIDs),
		"progress_percentage":   models.ProgressPercentage(int64(len(completedIDs)), int64(len(modules))),
		"completed_modules_ids": completedIDs,
		"modules":               rows,
	})
}

// GetOverallProgress aggregates progress across every enrolled course.
// Each course's percentage is computed independently; the overall
// figure divides the summed completed count by the summed module count.
func (pc *ProgressController) GetOverallProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}

	var enrollments []models.Enrollment
	if err := pc.DB.Where("user_id = ?", user.ID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return err
	}

	var totalModules, completedModules int64
	courses := make([]models.CourseProgress, 0, len(enrollments))
	if len(enrollments) > 0 {
		ids := make([]uint, 0, len(enrollments))
		for _, enrollment := range enrollments {
			ids = append(ids, enrollment.CourseID)
		}

		var titles []struct {
			ID    uint
			Title string
		}
		if err := pc.DB.Model(&models.Course{}).
			Select("id, title").
			Where("id IN ?", ids).
			Scan(&titles).Error; err != nil {
			return err
		}
		titleByID := make(map[uint]string, len(titles))
		for _, row := range titles {
			titleByID[row.ID] = row.Title
		}

		moduleCounts, err := moduleCountsByCourse(pc.DB, ids)
		if err != nil {
			return err
		}
		completedCounts, err := completedCountsByCourse(pc.DB, user.ID, ids)
		if err != nil {
			return err
		}

		for _, enrollment := range enrollments {
			total := moduleCounts[enrollment.CourseID]
			done := completedCounts[enrollment.CourseID]

			totalModules += total
			completedModules += done
			courses = append(courses, models.CourseProgress{
				CourseID:           enrollment.CourseID,
				CourseTitle:        titleByID[enrollment.CourseID],
				TotalModules:       total,
				CompletedModules:   done,
				ProgressPercentage: models.ProgressPercentage(done, total),
			})
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"overall_progress":  models.ProgressPercentage(completedModules, totalModules),
		"total_modules":     totalModules,
		"completed_modules": completedModules,
		"total_courses":     len(courses),
		"courses":           courses,
	})
}
