package utils

import "github.com/gofiber/fiber/v2"

// Error codes surfaced to clients. Unexpected store failures are never
// exposed with internal detail; they map to CodeInternal.
const (
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeCourseNotFound     = "COURSE_NOT_FOUND"
	CodeModuleNotFound     = "MODULE_NOT_FOUND"
	CodeAlreadyEnrolled    = "ALREADY_ENROLLED"
	CodeNotEnrolled        = "NOT_ENROLLED"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeInvalidDataFormat  = "INVALID_DATA_FORMAT"
	CodeAdminRequired      = "ADMIN_REQUIRED"
	CodeResourceExhausted  = "RESOURCE_EXHAUSTED"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is a caller-facing error with a stable code. Controllers
// return it and the app-level error handler renders the envelope.
type AppError struct {
	Status  int         `json:"-"`
	Code    string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func ErrEmailAlreadyExists() *AppError {
	return NewAppError(fiber.StatusBadRequest, CodeEmailAlreadyExists, "Email is already in use")
}

func ErrInvalidCredentials() *AppError {
	return NewAppError(fiber.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
}

func ErrInvalidToken() *AppError {
	return NewAppError(fiber.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token")
}

func ErrUserNotFound() *AppError {
	return NewAppError(fiber.StatusNotFound, CodeUserNotFound, "User not found")
}

func ErrCourseNotFound() *AppError {
	return NewAppError(fiber.StatusNotFound, CodeCourseNotFound, "Course not found")
}

func ErrModuleNotFound() *AppError {
	return NewAppError(fiber.StatusNotFound, CodeModuleNotFound, "Module not found")
}

func ErrAlreadyEnrolled() *AppError {
	return NewAppError(fiber.StatusBadRequest, CodeAlreadyEnrolled, "Already enrolled in this course")
}

// ErrNotEnrolled carries 403 on progress paths and 400 on unenroll.
func ErrNotEnrolled(status int) *AppError {
	return NewAppError(status, CodeNotEnrolled, "Not enrolled in this course")
}

func ErrAdminRequired() *AppError {
	return NewAppError(fiber.StatusForbidden, CodeAdminRequired, "Admin access required")
}

func ErrInvalidDataFormat(message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, CodeInvalidDataFormat, message)
}

func ErrMissingFields(message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, CodeMissingFields, message)
}

func ErrValidation(details map[string]string) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    CodeValidationError,
		Message: "Invalid request data",
		Details: details,
	}
}
