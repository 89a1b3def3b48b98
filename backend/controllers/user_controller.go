package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/models"
	"izilearn/backend/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// ListUsers returns the most recent accounts. Admin only.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Order("created_at DESC").Limit(50).Find(&users).Error; err != nil {
		return err
	}

	payload := make([]userPayload, 0, len(users))
	for i := range users {
		payload = append(payload, toUserPayload(&users[i]))
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"users": payload})
}

// GetUser returns one account by ID. Admin only.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	userID := c.Locals("targetUserID").(uint)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrUserNotFound()
		}
		return err
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": toUserPayload(&user)})
}
