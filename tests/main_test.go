package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"izilearn/backend/config"
	"izilearn/backend/middleware"
	"izilearn/backend/models"
	"izilearn/backend/routes"
	"izilearn/backend/utils"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		DBHost:         getTestEnv("TEST_DB_HOST", "localhost"),
		DBPort:         getTestEnv("TEST_DB_PORT", "5432"),
		DBUser:         getTestEnv("TEST_DB_USER", "postgres"),
		DBPassword:     getTestEnv("TEST_DB_PASSWORD", "postgres"),
		DBName:         getTestEnv("TEST_DB_NAME", "izilearn_test"),
		DBMaxOpenConns: 5,
		DBMaxIdleConns: 2,
		JWTSecret:      "testsecret",
		JWTExpiry:      time.Hour,
		ServerPort:     "5000",
		Environment:    "test",
	}

	var err error
	db, err = utils.InitDB(cfg)
	if err != nil {
		panic(err)
	}

	// Start from a clean schema; a previous failed run may have left rows
	// that collide with the unique indexes.
	db.Migrator().DropTable(
		&models.Progress{},
		&models.Enrollment{},
		&models.Module{},
		&models.Course{},
		&models.User{},
	)
	if err := utils.MigrateDB(db); err != nil {
		panic(err)
	}

	logger := utils.InitLogger()
	app = fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})
	routes.SetupRoutes(app, db, cfg)
}

func teardown() {
	db.Migrator().DropTable(
		&models.Progress{},
		&models.Enrollment{},
		&models.Module{},
		&models.Course{},
		&models.User{},
	)
}

func getTestEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// doJSON performs a request with an optional body and bearer token.
func doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func dataOf(result map[string]interface{}) map[string]interface{} {
	data, _ := result["data"].(map[string]interface{})
	return data
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, name, email, password string) string {
	t.Helper()

	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}

	token, _ := dataOf(decodeBody(t, resp))["token"].(string)
	if token == "" {
		t.Fatalf("register %s: empty token", email)
	}
	return token
}

// createAdmin seeds an admin account directly and returns its token.
func createAdmin(t *testing.T, email string) string {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := models.User{
		Name:     "Admin",
		Email:    email,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	token, err := utils.GenerateJWTToken(admin.ID, cfg)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// seedCourse creates a course with n modules directly in the store.
func seedCourse(t *testing.T, title string, moduleCount int) (models.Course, []models.Module) {
	t.Helper()

	course := models.Course{
		Title:       title,
		Description: "Seeded course used by the integration tests",
		Category:    models.CategoryProgramming,
		Level:       models.LevelBeginner,
		IsPublished: true,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	modules := make([]models.Module, 0, moduleCount)
	for i := 0; i < moduleCount; i++ {
		module := models.Module{
			CourseID:  course.ID,
			Title:     title + " module",
			SortOrder: i + 1,
		}
		if err := db.Create(&module).Error; err != nil {
			t.Fatalf("create module: %v", err)
		}
		modules = append(modules, module)
	}
	return course, modules
}
