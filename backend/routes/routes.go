package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/controllers"
	"izilearn/backend/middleware"
	"izilearn/backend/validators"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	optionalAuth := middleware.OptionalAuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	auth := app.Group("/api/auth")
	auth.Post("/register", validators.Register(), authController.Register)
	auth.Post("/login", validators.Login(), authController.Login)
	auth.Get("/profile", authMiddleware, authController.GetProfile)
	auth.Put("/profile", authMiddleware, validators.UpdateProfile(), authController.UpdateProfile)
	auth.Put("/change-password", authMiddleware, validators.ChangePassword(), authController.ChangePassword)
	auth.Delete("/account", authMiddleware, validators.DeleteAccount(), authController.DeleteAccount)

	// User administration
	userController := controllers.NewUserController(db, cfg)
	users := app.Group("/api/users", adminMiddleware)
	users.Get("/", userController.ListUsers)
	users.Get("/:id", validators.UserIDParam(), userController.GetUser)

	// Course catalog
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", optionalAuth, validators.CourseList(), coursesController.ListCourses)
	courses.Post("/", adminMiddleware, validators.CreateCourse(), coursesController.CreateCourse)
	courses.Get("/:id", optionalAuth, validators.CourseIDParam(), coursesController.GetCourse)
	courses.Put("/:id", adminMiddleware, validators.CourseIDParam(), validators.UpdateCourse(), coursesController.UpdateCourse)
	courses.Delete("/:id", adminMiddleware, validators.CourseIDParam(), coursesController.DeleteCourse)
	courses.Get("/:id/modules", authMiddleware, validators.CourseIDParam(), coursesController.GetCourseModules)

	// Module administration
	modulesController := controllers.NewModulesController(db, cfg)
	courses.Post("/:id/modules", adminMiddleware, validators.CourseIDParam(), validators.CreateModule(), modulesController.CreateModule)
	courses.Put("/:id/modules/:moduleId", adminMiddleware, validators.CourseIDParam(), validators.ModuleIDParam(), validators.UpdateModule(), modulesController.UpdateModule)
	courses.Delete("/:id/modules/:moduleId", adminMiddleware, validators.CourseIDParam(), validators.ModuleIDParam(), modulesController.DeleteModule)

	// Enrollments
	enrollmentController := controllers.NewEnrollmentController(db, cfg)
	enrollments := app.Group("/api/enrollments", authMiddleware)
	enrollments.Get("/my-courses", enrollmentController.GetMyEnrollments)
	enrollments.Post("/:courseId/enroll", validators.CourseIDNamedParam(), enrollmentController.Enroll)
	enrollments.Delete("/:courseId/unenroll", validators.CourseIDNamedParam(), enrollmentController.Unenroll)

	// Progress tracking
	progressController := controllers.NewProgressController(db, cfg)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Put("/", validators.UpdateProgress(), progressController.UpdateModuleProgress)
	progress.Get("/course/:courseId", validators.CourseIDNamedParam(), progressController.GetCourseProgress)
	progress.Get("/overall", progressController.GetOverallProgress)
}
