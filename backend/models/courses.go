package models

import "time"

const (
	CategoryProgramming = "programming"
	CategoryDesign      = "design"
	CategoryMarketing   = "marketing"
	CategoryBusiness    = "business"
	CategoryOther       = "other"

	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	Title        string  `gorm:"not null" json:"title"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	Category     string  `gorm:"default:other" json:"category"` // programming, design, marketing, business, other
	Duration     *int    `json:"duration"`                      // minutes
	Level        string  `gorm:"default:beginner" json:"level"` // beginner, intermediate, advanced
	Price        float64 `gorm:"default:0" json:"price"`
	Icon         string  `json:"icon"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Link         string  `json:"link"`
	IsPublished  bool    `gorm:"default:false" json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Modules     []Module     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Module struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CourseID  uint   `gorm:"index;not null" json:"course_id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	Duration  *int   `json:"duration"` // minutes
	SortOrder int    `gorm:"column:sort_order;default:0" json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Progress []Progress `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func ValidCategory(category string) bool {
	switch category {
	case CategoryProgramming, CategoryDesign, CategoryMarketing, CategoryBusiness, CategoryOther:
		return true
	}
	return false
}

func ValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// CourseWithStats is a catalog row augmented with module counts and,
// for authenticated callers, their enrollment state.
type CourseWithStats struct {
	Course
	ModulesCount     int64 `json:"modules_count"`
	Students         int64 `json:"students"`
	CompletedModules int64 `json:"completed_modules"`
	IsEnrolled       bool  `json:"is_enrolled"`
	Progress         int   `json:"progress"`
}

// ModuleWithCompletion annotates a module with the caller's completion state.
type ModuleWithCompletion struct {
	Module
	IsCompleted bool `json:"is_completed"`
}
