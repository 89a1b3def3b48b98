package controllers

import (
	"gorm.io/gorm"

	"izilearn/backend/models"
)

// Listing endpoints fan out over many courses; these helpers fetch the
// per-course counts in one grouped query each instead of one query per
// row.

type courseCountRow struct {
	CourseID uint
	N        int64
}

func toCountMap(rows []courseCountRow) map[uint]int64 {
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CourseID] = row.N
	}
	return counts
}

func courseIDsOf(courses []models.Course) []uint {
	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	return ids
}

func moduleCountsByCourse(db *gorm.DB, courseIDs []uint) (map[uint]int64, error) {
	var rows []courseCountRow
	err := db.Model(&models.Module{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func studentCountsByCourse(db *gorm.DB, courseIDs []uint) (map[uint]int64, error) {
	var rows []courseCountRow
	err := db.Model(&models.Enrollment{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

// enrolledCourseSet reports which of courseIDs the user is enrolled in.
func enrolledCourseSet(db *gorm.DB, userID uint, courseIDs []uint) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	enrolled := make(map[uint]bool, len(ids))
	for _, id := range ids {
		enrolled[id] = true
	}
	return enrolled, nil
}

// completedCountsByCourse counts the user's completed modules per course.
func completedCountsByCourse(db *gorm.DB, userID uint, courseIDs []uint) (map[uint]int64, error) {
	var rows []courseCountRow
	err := db.Model(&models.Progress{}).
		Select("modules.course_id AS course_id, COUNT(*) AS n").
		Joins("JOIN modules ON modules.id = progresses.module_id").
		Where("progresses.user_id = ? AND progresses.completed = ? AND modules.course_id IN ?", userID, true, courseIDs).
		Group("modules.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}
