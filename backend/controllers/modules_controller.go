package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/models"
	"izilearn/backend/utils"
	"izilearn/backend/validators"
)

type ModulesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewModulesController(db *gorm.DB, cfg *config.Config) *ModulesController {
	return &ModulesController{DB: db, Cfg: cfg}
}

func (mc *ModulesController) findCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	if err := mc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrCourseNotFound()
		}
		return nil, err
	}
	return &course, nil
}

// CreateModule adds a module to a course. Admin only.
func (mc *ModulesController) CreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	req := c.Locals("validatedCreateModule").(*validators.CreateModuleRequest)

	if _, err := mc.findCourse(courseID); err != nil {
		return err
	}

	module := models.Module{
		CourseID:  courseID,
		Title:     req.Title,
		Content:   req.Content,
		Duration:  req.Duration,
		SortOrder: req.Order,
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&module).Error
	}); err != nil {
		return err
	}

	return utils.Created(c, "Module created successfully", fiber.Map{"module": module})
}

// UpdateModule applies a sparse update to a module. Admin only.
func (mc *ModulesController) UpdateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)
	req := c.Locals("validatedUpdateModule").(*validators.UpdateModuleRequest)

	if _, err := mc.findCourse(courseID); err != nil {
		return err
	}

	var module models.Module
	if err := mc.DB.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrModuleNotFound()
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}

	if err := mc.DB.Model(&module).Updates(updates).Error; err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Module updated successfully", fiber.Map{"module": module})
}

// DeleteModule removes a module and its progress rows. Admin only.
func (mc *ModulesController) DeleteModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	if _, err := mc.findCourse(courseID); err != nil {
		return err
	}

	var module models.Module
	if err := mc.DB.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrModuleNotFound()
		}
		return err
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", module.ID).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&module).Error
	}); err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Module deleted successfully", nil)
}
