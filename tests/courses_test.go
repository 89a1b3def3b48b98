package tests

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateCourseRequiresAdmin(t *testing.T) {
	token := registerUser(t, "Student", "student-noadmin@example.com", "Secret123")

	resp := doJSON(t, "POST", "/api/courses/", token, map[string]interface{}{
		"title":       "Go for Beginners",
		"description": "An introduction to the Go programming language",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ADMIN_REQUIRED", decodeBody(t, resp)["error"])
}

func TestAdminCourseCRUD(t *testing.T) {
	admin := createAdmin(t, "admin-crud@example.com")

	resp := doJSON(t, "POST", "/api/courses/", admin, map[string]interface{}{
		"title":       "Go for Beginners",
		"description": "An introduction to the Go programming language",
		"category":    "programming",
		"level":       "beginner",
		"price":       49.9,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	course := dataOf(decodeBody(t, resp))["course"].(map[string]interface{})
	courseID := int(course["id"].(float64))
	assert.Greater(t, courseID, 0)

	// Sparse update: only the supplied field changes.
	resp = doJSON(t, "PUT", "/api/courses/"+itoa(courseID), admin, map[string]interface{}{
		"title": "Go for Everyone",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/courses/"+itoa(courseID), "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	fetched := dataOf(decodeBody(t, resp))["course"].(map[string]interface{})
	assert.Equal(t, "Go for Everyone", fetched["title"])
	assert.Equal(t, "An introduction to the Go programming language", fetched["description"])

	resp = doJSON(t, "DELETE", "/api/courses/"+itoa(courseID), admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/courses/"+itoa(courseID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "COURSE_NOT_FOUND", decodeBody(t, resp)["error"])
}

func TestCourseEnumRejected(t *testing.T) {
	admin := createAdmin(t, "admin-enum@example.com")

	resp := doJSON(t, "POST", "/api/courses/", admin, map[string]interface{}{
		"title":       "Mystery Course",
		"description": "A course with a category nobody has heard of",
		"category":    "underwater-basketweaving",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	// The validator stops it; the store-side enum guard covers direct
	// writes.
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, resp)["error"])
}

func TestAdminModuleCRUD(t *testing.T) {
	admin := createAdmin(t, "admin-modules@example.com")
	course, _ := seedCourse(t, "Module CRUD course", 0)
	base := "/api/courses/" + itoa(int(course.ID)) + "/modules"

	resp := doJSON(t, "POST", base, admin, map[string]interface{}{
		"title": "First module",
		"order": 1,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	module := dataOf(decodeBody(t, resp))["module"].(map[string]interface{})
	moduleID := int(module["id"].(float64))

	resp = doJSON(t, "PUT", base+"/"+itoa(moduleID), admin, map[string]interface{}{
		"title": "First module, revised",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "DELETE", base+"/"+itoa(moduleID), admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "DELETE", base+"/"+itoa(moduleID), admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "MODULE_NOT_FOUND", decodeBody(t, resp)["error"])
}

func TestListCoursesPaginationAndSearch(t *testing.T) {
	seedCourse(t, "Searchable Rust Patterns", 2)
	seedCourse(t, "Searchable Rust Macros", 1)

	resp := doJSON(t, "GET", "/api/courses/?search=searchable+rust&limit=1&page=1", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := dataOf(decodeBody(t, resp))
	courses := data["courses"].([]interface{})
	assert.Len(t, courses, 1)

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, true, pagination["hasNext"])

	// Newest course first.
	first := courses[0].(map[string]interface{})
	assert.Equal(t, "Searchable Rust Macros", first["title"])
}

func TestListCoursesRejectsBadPagination(t *testing.T) {
	resp := doJSON(t, "GET", "/api/courses/?limit=1000", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, resp)["error"])
}

func TestCourseAugmentationForAuthenticatedCaller(t *testing.T) {
	course, modules := seedCourse(t, "Augmented course", 2)
	token := registerUser(t, "Hank", "hank-augment@example.com", "Secret123")

	resp := doJSON(t, "POST", "/api/enrollments/"+itoa(int(course.ID))+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, "PUT", "/api/progress/", token, map[string]interface{}{
		"module_id": modules[0].ID,
		"completed": true,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/courses/"+itoa(int(course.ID)), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	fetched := dataOf(decodeBody(t, resp))["course"].(map[string]interface{})
	assert.Equal(t, true, fetched["is_enrolled"])
	assert.Equal(t, float64(2), fetched["modules_count"])
	assert.Equal(t, float64(1), fetched["completed_modules"])
	assert.Equal(t, float64(50), fetched["progress"])

	// Anonymous callers see no enrollment state.
	resp = doJSON(t, "GET", "/api/courses/"+itoa(int(course.ID)), "", nil)
	fetched = dataOf(decodeBody(t, resp))["course"].(map[string]interface{})
	assert.Equal(t, false, fetched["is_enrolled"])
	assert.Equal(t, float64(0), fetched["progress"])
}

func TestListCoursesAugmentsEachRowIndependently(t *testing.T) {
	enrolledCourse, modules := seedCourse(t, "Batchstats enrolled course", 2)
	seedCourse(t, "Batchstats browsed course", 3)
	token := registerUser(t, "Jill", "jill-batchstats@example.com", "Secret123")

	enrollIn(t, token, enrolledCourse.ID)
	setCompletion(t, token, modules[0].ID, true)

	resp := doJSON(t, "GET", "/api/courses/?search=Batchstats", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	courses := dataOf(decodeBody(t, resp))["courses"].([]interface{})
	assert.Len(t, courses, 2)

	rows := map[string]map[string]interface{}{}
	for _, raw := range courses {
		row := raw.(map[string]interface{})
		rows[row["title"].(string)] = row
	}

	// Each row carries its own counts; the caller's enrollment in one
	// course must not bleed into the other.
	enrolled := rows["Batchstats enrolled course"]
	assert.Equal(t, true, enrolled["is_enrolled"])
	assert.Equal(t, float64(2), enrolled["modules_count"])
	assert.Equal(t, float64(1), enrolled["completed_modules"])
	assert.Equal(t, float64(50), enrolled["progress"])
	assert.Equal(t, float64(1), enrolled["students"])

	browsed := rows["Batchstats browsed course"]
	assert.Equal(t, false, browsed["is_enrolled"])
	assert.Equal(t, float64(3), browsed["modules_count"])
	assert.Equal(t, float64(0), browsed["completed_modules"])
	assert.Equal(t, float64(0), browsed["progress"])
	assert.Equal(t, float64(0), browsed["students"])
}

func TestCourseModulesRequireEnrollment(t *testing.T) {
	course, _ := seedCourse(t, "Locked course", 1)
	token := registerUser(t, "Iris", "iris-locked@example.com", "Secret123")

	resp := doJSON(t, "GET", "/api/courses/"+itoa(int(course.ID))+"/modules", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_ENROLLED", decodeBody(t, resp)["error"])
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
