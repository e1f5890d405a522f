package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// CourseReference reads hole par reference data
type CourseReference struct {
	db *gorm.DB
}

func NewCourseReference(db *gorm.DB) *CourseReference {
	return &CourseReference{db: db}
}

// GetHolePar returns ok=false when the course or hole is unknown
func (c *CourseReference) GetHolePar(ctx context.Context, courseID string, holeNumber int) (int, bool, error) {
	if courseID == "" {
		return 0, false, nil
	}

	var hole models.CourseHole
	err := c.db.WithContext(ctx).
		Where("course_id = ? AND hole_number = ?", courseID, holeNumber).
		First(&hole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up par for %s hole %d: %w", courseID, holeNumber, err)
	}
	return hole.Par, true, nil
}

// Migrate creates or updates every table owned by this service
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Round{},
		&models.RoundHole{},
		&models.Shot{},
		&models.CourseHole{},
	)
}
