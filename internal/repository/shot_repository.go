package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// HistoryQuery bounds a historical shot fetch
type HistoryQuery struct {
	RoundLimit int
	Since      time.Time
	MaxShots   int
}

// ShotRepository is the gorm-backed shot log
type ShotRepository struct {
	db *gorm.DB
}

func NewShotRepository(db *gorm.DB) *ShotRepository {
	return &ShotRepository{db: db}
}

// FetchForHole returns a hole's shots ordered by shot number
func (r *ShotRepository) FetchForHole(ctx context.Context, roundID uuid.UUID, holeNumber int) ([]models.Shot, error) {
	var shots []models.Shot
	err := r.db.WithContext(ctx).
		Where("round_id = ? AND hole_number = ?", roundID, holeNumber).
		Order("shot_number ASC").
		Find(&shots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shots for hole %d: %w", holeNumber, err)
	}
	return shots, nil
}

// FetchHistorical returns the user's shots from the most recent rounds, bounded by
// round count, time window and a row cap. Results are chronological; when the cap
// applies the newest shots are kept.
func (r *ShotRepository) FetchHistorical(ctx context.Context, userID string, q HistoryQuery) ([]models.Shot, error) {
	if q.RoundLimit <= 0 || q.MaxShots <= 0 {
		return nil, fmt.Errorf("history query must be bounded: round_limit=%d max_shots=%d", q.RoundLimit, q.MaxShots)
	}

	rounds := r.db.WithContext(ctx).Model(&models.Round{}).
		Select("id").
		Where("user_id = ?", userID)
	if !q.Since.IsZero() {
		rounds = rounds.Where("played_at >= ?", q.Since)
	}
	rounds = rounds.Order("played_at DESC").Limit(q.RoundLimit)

	var roundIDs []uuid.UUID
	if err := rounds.Pluck("id", &roundIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to select historical rounds: %w", err)
	}
	if len(roundIDs) == 0 {
		return []models.Shot{}, nil
	}

	var shots []models.Shot
	err := r.db.WithContext(ctx).
		Where("round_id IN ?", roundIDs).
		Order("created_at DESC").Order("hole_number DESC").Order("shot_number DESC").
		Limit(q.MaxShots).
		Find(&shots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical shots: %w", err)
	}

	for i, j := 0, len(shots)-1; i < j; i, j = i+1, j-1 {
		shots[i], shots[j] = shots[j], shots[i]
	}
	return shots, nil
}

// Append assigns the next shot number on the hole and inserts the shot
func (r *ShotRepository) Append(ctx context.Context, shot *models.Shot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last sql.NullInt64
		row := tx.Model(&models.Shot{}).
			Where("round_id = ? AND hole_number = ?", shot.RoundID, shot.HoleNumber).
			Select("MAX(shot_number)").
			Row()
		if err := row.Scan(&last); err != nil {
			return fmt.Errorf("failed to read last shot number: %w", err)
		}

		shot.ShotNumber = 1
		if last.Valid {
			shot.ShotNumber = int(last.Int64) + 1
		}
		if err := tx.Create(shot).Error; err != nil {
			return fmt.Errorf("failed to insert shot: %w", err)
		}
		return stampShotsChanged(tx, shot.RoundID)
	})
}

// Update rewrites the mutable fields of an existing shot; the key is unchanged
func (r *ShotRepository) Update(ctx context.Context, shot *models.Shot) error {
	shot.Normalize()
	if err := shot.Validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"category":               shot.Category,
		"club":                   shot.Club,
		"start_lie":              shot.StartLie,
		"start_distance_to_hole": shot.StartDistanceToHole,
		"end_lie":                shot.EndLie,
		"end_distance_to_hole":   shot.EndDistanceToHole,
		"result_zone":            shot.ResultZone,
		"penalty_strokes":        shot.PenaltyStrokes,
		"holed":                  shot.Holed,
		"shot_shape":             shot.ShotShape,
		"trajectory":             shot.Trajectory,
		"contact_quality":        shot.ContactQuality,
		"distance_error":         shot.DistanceError,
		"lateral_error":          shot.LateralError,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Shot{}).
			Where("round_id = ? AND hole_number = ? AND shot_number = ?", shot.RoundID, shot.HoleNumber, shot.ShotNumber).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update shot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return stampShotsChanged(tx, shot.RoundID)
	})
}

// Delete removes a shot and renumbers the later shots on the hole so numbering
// stays gap-free
func (r *ShotRepository) Delete(ctx context.Context, roundID uuid.UUID, holeNumber, shotNumber int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("round_id = ? AND hole_number = ? AND shot_number = ?", roundID, holeNumber, shotNumber).
			Delete(&models.Shot{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete shot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}

		var later []models.Shot
		err := tx.Where("round_id = ? AND hole_number = ? AND shot_number > ?", roundID, holeNumber, shotNumber).
			Order("shot_number ASC").
			Find(&later).Error
		if err != nil {
			return fmt.Errorf("failed to load later shots: %w", err)
		}

		// ascending order keeps the unique key free at every step
		for _, s := range later {
			err := tx.Model(&models.Shot{}).Where("id = ?", s.ID).
				Update("shot_number", s.ShotNumber-1).Error
			if err != nil {
				return fmt.Errorf("failed to renumber shot %d: %w", s.ShotNumber, err)
			}
		}
		return stampShotsChanged(tx, roundID)
	})
}

// stampShotsChanged records the shot write on the round without touching
// updated_at, which tracks the aggregates
func stampShotsChanged(tx *gorm.DB, roundID uuid.UUID) error {
	err := tx.Model(&models.Round{}).
		Where("id = ?", roundID).
		UpdateColumn("shots_changed_at", time.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("failed to stamp round %s: %w", roundID, err)
	}
	return nil
}

// RoundsChangedSince lists rounds whose shots were written, updated or deleted
// after their aggregates
func (r *ShotRepository) RoundsChangedSince(ctx context.Context, since time.Time, limit int) ([]uuid.UUID, error) {
	var roundIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Round{}).
		Where("shots_changed_at >= ? AND shots_changed_at > updated_at", since).
		Order("shots_changed_at ASC").
		Limit(limit).
		Pluck("id", &roundIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find changed rounds: %w", err)
	}
	return roundIDs, nil
}
