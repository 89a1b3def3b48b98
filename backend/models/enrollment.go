package models

import "time"

// Enrollment grants a user access to track progress in a course.
// The composite unique index is the source of truth for "already
// enrolled": a concurrent double-enroll loses at the constraint, not
// at the preceding existence check. Rows are hard-deleted (no
// DeletedAt) so unenrolling frees the pair for re-enrollment.
type Enrollment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_enrollments_user_course;not null" json:"user_id"`
	CourseID   uint      `gorm:"uniqueIndex:idx_enrollments_user_course;not null" json:"course_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
}

// EnrolledCourse is a course joined with the owner's progress, as
// returned by the my-courses listing.
type EnrolledCourse struct {
	Course
	EnrolledAt       time.Time `json:"enrolled_at"`
	ModulesCount     int64     `json:"modules_count"`
	CompletedModules int64     `json:"completed_modules"`
	Progress         int       `json:"progress"`
}
