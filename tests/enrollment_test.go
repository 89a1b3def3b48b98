package tests

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"izilearn/backend/models"
)

func TestEnrollAndDoubleEnroll(t *testing.T) {
	course, _ := seedCourse(t, "Enrollment course", 2)
	token := registerUser(t, "Jack", "jack-enroll@example.com", "Secret123")
	path := "/api/enrollments/" + itoa(int(course.ID)) + "/enroll"

	resp := doJSON(t, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	enrollment := dataOf(decodeBody(t, resp))["enrollment"].(map[string]interface{})
	assert.Equal(t, float64(course.ID), enrollment["course_id"])

	resp = doJSON(t, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ALREADY_ENROLLED", decodeBody(t, resp)["error"])
}

func TestEnrollUnknownCourse(t *testing.T) {
	token := registerUser(t, "Kate", "kate-enroll@example.com", "Secret123")

	resp := doJSON(t, "POST", "/api/enrollments/999999/enroll", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "COURSE_NOT_FOUND", decodeBody(t, resp)["error"])
}

func TestUnenrollThenReenroll(t *testing.T) {
	course, _ := seedCourse(t, "Re-enrollment course", 1)
	token := registerUser(t, "Liam", "liam-enroll@example.com", "Secret123")
	courseID := itoa(int(course.ID))

	resp := doJSON(t, "POST", "/api/enrollments/"+courseID+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, "DELETE", "/api/enrollments/"+courseID+"/unenroll", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The pair is free again; enrolling creates a fresh record.
	resp = doJSON(t, "POST", "/api/enrollments/"+courseID+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestUnenrollWithoutEnrollment(t *testing.T) {
	course, _ := seedCourse(t, "Never enrolled course", 1)
	token := registerUser(t, "Mona", "mona-enroll@example.com", "Secret123")

	resp := doJSON(t, "DELETE", "/api/enrollments/"+itoa(int(course.ID))+"/unenroll", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_ENROLLED", decodeBody(t, resp)["error"])
}

func TestUnenrollCascadesProgress(t *testing.T) {
	course, modules := seedCourse(t, "Cascade course", 3)
	token := registerUser(t, "Nina", "nina-cascade@example.com", "Secret123")
	courseID := itoa(int(course.ID))

	resp := doJSON(t, "POST", "/api/enrollments/"+courseID+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	for _, module := range modules {
		resp = doJSON(t, "PUT", "/api/progress/", token, map[string]interface{}{
			"module_id": module.ID,
			"completed": true,
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp = doJSON(t, "DELETE", "/api/enrollments/"+courseID+"/unenroll", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Progress rows went with the enrollment, atomically.
	var remaining int64
	err := db.Model(&models.Progress{}).
		Joins("JOIN modules ON modules.id = progresses.module_id").
		Where("modules.course_id = ?", course.ID).
		Count(&remaining).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	// Re-enroll: the course starts clean.
	resp = doJSON(t, "POST", "/api/enrollments/"+courseID+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/progress/course/"+courseID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataOf(decodeBody(t, resp))
	assert.Equal(t, float64(0), data["completed_modules"])
	assert.Equal(t, float64(0), data["progress_percentage"])
}

func TestMyEnrollmentsOrderedByRecency(t *testing.T) {
	first, _ := seedCourse(t, "My courses first", 1)
	second, _ := seedCourse(t, "My courses second", 1)
	token := registerUser(t, "Omar", "omar-mycourses@example.com", "Secret123")

	resp := doJSON(t, "POST", "/api/enrollments/"+itoa(int(first.ID))+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, "POST", "/api/enrollments/"+itoa(int(second.ID))+"/enroll", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/enrollments/my-courses", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	enrollments := dataOf(decodeBody(t, resp))["enrollments"].([]interface{})
	assert.Len(t, enrollments, 2)
	latest := enrollments[0].(map[string]interface{})
	assert.Equal(t, "My courses second", latest["title"])
	assert.Equal(t, float64(1), latest["modules_count"])
	assert.Equal(t, float64(0), latest["progress"])
}
