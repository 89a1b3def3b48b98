package models

import (
	"math"
	"time"
)

// Progress records one user's completion state for one module. At most
// one row exists per (user, module); writes go through an upsert keyed
// on the composite unique index. Rows are hard-deleted by the
// unenrollment cascade (no DeletedAt).
type Progress struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_progress_user_module;not null" json:"user_id"`
	ModuleID  uint      `gorm:"uniqueIndex:idx_progress_user_module;not null" json:"module_id"`
	Completed bool      `gorm:"default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressPercentage rounds 100*completed/total to the nearest whole
// percent. A course with no modules reports 0.
func ProgressPercentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// CourseProgress is the per-course progress summary.
type CourseProgress struct {
	CourseID           uint   `json:"course_id"`
	CourseTitle        string `json:"course_title"`
	TotalModules       int64  `json:"total_modules"`
	CompletedModules   int64  `json:"completed_modules"`
	ProgressPercentage int    `json:"progress_percentage"`
}
