package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/models"
	"izilearn/backend/utils"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return authHeader[len("Bearer "):], true
}

// resolveUser validates the token and re-fetches the live user row, so
// a deleted account is rejected even while its token is still within
// its expiry window.
func resolveUser(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) (*models.User, error) {
	token, ok := bearerToken(c)
	if !ok {
		return nil, utils.ErrInvalidToken()
	}

	userID, err := utils.ParseJWTToken(token, cfg)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, utils.ErrInvalidToken()
	}
	return &user, nil
}

// AuthMiddleware requires a valid bearer token and stores the resolved
// user in locals.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, cfg)
		if err != nil {
			return err
		}
		c.Locals("user", user)
		c.Locals("userId", user.ID)
		return c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a token is present but
// lets anonymous requests through.
func OptionalAuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := bearerToken(c); ok {
			if user, err := resolveUser(c, db, cfg); err == nil {
				c.Locals("user", user)
				c.Locals("userId", user.ID)
			}
		}
		return c.Next()
	}
}

// AdminMiddleware requires an authenticated admin account.
func AdminMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, cfg)
		if err != nil {
			return err
		}
		if !user.IsAdmin {
			return utils.ErrAdminRequired()
		}
		c.Locals("user", user)
		c.Locals("userId", user.ID)
		return c.Next()
	}
}

// CurrentUser returns the user resolved by the auth middleware.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}
