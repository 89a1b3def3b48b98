package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/middleware"
	"izilearn/backend/models"
	"izilearn/backend/utils"
	"izilearn/backend/validators"
)

// bcryptCost matches the work factor used for all stored credentials.
const bcryptCost = 12

// hashPassword hashes a plaintext password. bcrypt caps input at 72
// bytes; a multibyte password can clear the validator's rune count and
// still hit that cap, so the error stays a validation failure.
func hashPassword(field, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", utils.ErrValidation(map[string]string{field: "password must be at most 72 bytes"})
		}
		return "", err
	}
	return string(hashed), nil
}

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type userPayload struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func toUserPayload(user *models.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and issues a session token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	req := c.Locals("validatedRegister").(*validators.RegisterRequest)

	var count int64
	if err := ac.DB.Model(&models.User{}).Where("LOWER(email) = ?", req.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.ErrEmailAlreadyExists()
	}

	hashed, err := hashPassword("password", req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
	}

	if err := ac.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	}); err != nil {
		// Concurrent register with the same email loses here, not at the
		// count above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrEmailAlreadyExists()
		}
		return err
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return err
	}

	return utils.Created(c, "User created successfully", fiber.Map{
		"user":  toUserPayload(&user),
		"token": token,
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Verifies credentials and issues a session token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	req := c.Locals("validatedLogin").(*validators.LoginRequest)

	// Same error for unknown email and wrong password, so callers cannot
	// enumerate accounts.
	var user models.User
	if err := ac.DB.Where("LOWER(email) = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrInvalidCredentials()
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.ErrInvalidCredentials()
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  toUserPayload(&user),
		"token": token,
	})
}

// GetProfile returns the caller's account plus enrollment statistics.
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}

	var stats models.UserStats
	if err := ac.DB.Model(&models.Enrollment{}).Where("user_id = ?", user.ID).Count(&stats.EnrolledCourses).Error; err != nil {
		return err
	}
	if err := ac.DB.Model(&models.Progress{}).Where("user_id = ? AND completed = ?", user.ID, true).Count(&stats.CompletedModules).Error; err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user":  toUserPayload(user),
		"stats": stats,
	})
}

// UpdateProfile applies a sparse update to name/email.
func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	req := c.Locals("validatedUpdateProfile").(*validators.UpdateProfileRequest)

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		var count int64
		if err := ac.DB.Model(&models.User{}).
			Where("LOWER(email) = ? AND id != ?", *req.Email, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.ErrEmailAlreadyExists()
		}
		updates["email"] = *req.Email
	}
	if len(updates) == 0 {
		return utils.ErrMissingFields("No fields to update")
	}

	if err := ac.DB.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrEmailAlreadyExists()
		}
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{
		"user": toUserPayload(user),
	})
}

// ChangePassword re-verifies the current password before accepting a
// new one.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	req := c.Locals("validatedChangePassword").(*validators.ChangePasswordRequest)

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return utils.NewAppError(fiber.StatusBadRequest, utils.CodeInvalidCredentials, "Current password is incorrect")
	}

	hashed, err := hashPassword("new_password", req.NewPassword)
	if err != nil {
		return err
	}

	if err := ac.DB.Model(user).Update("password", hashed).Error; err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Password changed successfully", nil)
}

// DeleteAccount re-verifies the password, then removes the account and
// everything hanging off it in one transaction.
func (ac *AuthController) DeleteAccount(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrInvalidToken()
	}
	req := c.Locals("validatedDeleteAccount").(*validators.DeleteAccountRequest)

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.NewAppError(fiber.StatusBadRequest, utils.CodeInvalidCredentials, "Password is incorrect")
	}

	if err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	}); err != nil {
		return err
	}

	return utils.SuccessMessage(c, fiber.StatusOK, "Account deleted successfully", nil)
}
