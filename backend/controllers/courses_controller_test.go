package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"izilearn/backend/models"
	"izilearn/backend/utils"
)

func TestValidateCourseEnums(t *testing.T) {
	assert.NoError(t, validateCourseEnums(models.CategoryProgramming, models.LevelBeginner))
	assert.NoError(t, validateCourseEnums(models.CategoryOther, models.LevelAdvanced))

	cases := []struct {
		name     string
		category string
		level    string
	}{
		{"unknown category", "underwater-basketweaving", models.LevelBeginner},
		{"unknown level", models.CategoryDesign, "grandmaster"},
		{"empty category", "", models.LevelBeginner},
		{"empty level", models.CategoryDesign, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCourseEnums(tc.category, tc.level)
			var appErr *utils.AppError
			if assert.True(t, errors.As(err, &appErr)) {
				assert.Equal(t, utils.CodeInvalidDataFormat, appErr.Code)
				assert.Equal(t, 400, appErr.Status)
			}
		})
	}
}
