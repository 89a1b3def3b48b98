package models

import "time"

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Progress    []Progress   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// UserStats accompanies the profile response.
type UserStats struct {
	EnrolledCourses  int64 `json:"enrolled_courses"`
	CompletedModules int64 `json:"completed_modules"`
}
