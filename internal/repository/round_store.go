package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// RoundStore persists rounds and their derived hole aggregates
type RoundStore struct {
	db *gorm.DB
}

func NewRoundStore(db *gorm.DB) *RoundStore {
	return &RoundStore{db: db}
}

func (s *RoundStore) CreateRound(ctx context.Context, round *models.Round) error {
	if err := s.db.WithContext(ctx).Create(round).Error; err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetRound returns models.ErrNotFound when the round does not exist
func (s *RoundStore) GetRound(ctx context.Context, roundID uuid.UUID) (*models.Round, error) {
	var round models.Round
	err := s.db.WithContext(ctx).Where("id = ?", roundID).First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load round: %w", err)
	}
	return &round, nil
}

// GetRoundWithHoles loads the round and its hole aggregates ordered by hole
func (s *RoundStore) GetRoundWithHoles(ctx context.Context, roundID uuid.UUID) (*models.Round, error) {
	var round models.Round
	err := s.db.WithContext(ctx).
		Preload("Holes", func(db *gorm.DB) *gorm.DB { return db.Order("hole_number ASC") }).
		Where("id = ?", roundID).
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load round: %w", err)
	}
	return &round, nil
}

// GetHole returns models.ErrNotFound when no aggregate row exists yet
func (s *RoundStore) GetHole(ctx context.Context, roundID uuid.UUID, holeNumber int) (*models.RoundHole, error) {
	var hole models.RoundHole
	err := s.db.WithContext(ctx).
		Where("round_id = ? AND hole_number = ?", roundID, holeNumber).
		First(&hole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load hole: %w", err)
	}
	return &hole, nil
}

// EnsureHole inserts the aggregate row with the given par if it is absent and
// returns the stored row. An existing row keeps its par.
func (s *RoundStore) EnsureHole(ctx context.Context, roundID uuid.UUID, holeNumber, par int) (*models.RoundHole, error) {
	seed := models.RoundHole{RoundID: roundID, HoleNumber: holeNumber, Par: par}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}, {Name: "hole_number"}},
			DoNothing: true,
		}).
		Create(&seed).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to seed hole %d: %v", models.ErrPersistence, holeNumber, err)
	}
	return s.GetHole(ctx, roundID, holeNumber)
}

// UpsertHole writes the derived hole fields
func (s *RoundStore) UpsertHole(ctx context.Context, hole *models.RoundHole) error {
	err := s.db.WithContext(ctx).Model(&models.RoundHole{}).
		Where("round_id = ? AND hole_number = ?", hole.RoundID, hole.HoleNumber).
		Updates(map[string]interface{}{
			"putts":       hole.Putts,
			"penalties":   hole.Penalties,
			"gross_score": hole.GrossScore,
			"fir":         hole.FIR,
			"gir":         hole.GIR,
		}).Error
	if err != nil {
		return fmt.Errorf("%w: failed to write hole %d: %v", models.ErrPersistence, hole.HoleNumber, err)
	}
	return nil
}

// UpsertRoundTotals recomputes par_total and total_score as plain sums over every
// hole of the round. The round row is locked for the duration of the transaction.
func (s *RoundStore) UpsertRoundTotals(ctx context.Context, roundID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var round models.Round
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", roundID).
			First(&round).Error; err != nil {
			return err
		}

		var totals struct {
			ParTotal   int
			TotalScore int
		}
		if err := tx.Model(&models.RoundHole{}).
			Select("COALESCE(SUM(par), 0) AS par_total, COALESCE(SUM(COALESCE(gross_score, 0)), 0) AS total_score").
			Where("round_id = ?", roundID).
			Scan(&totals).Error; err != nil {
			return err
		}

		return tx.Model(&models.Round{}).
			Where("id = ?", roundID).
			Updates(map[string]interface{}{
				"par_total":   totals.ParTotal,
				"total_score": totals.TotalScore,
				"updated_at":  time.Now().UTC(),
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("%w: failed to write round totals: %v", models.ErrPersistence, err)
	}
	return nil
}

// HoleNumbers lists holes that have shots or an aggregate row
func (s *RoundStore) HoleNumbers(ctx context.Context, roundID uuid.UUID) ([]int, error) {
	var fromShots, fromHoles []int
	if err := s.db.WithContext(ctx).Model(&models.Shot{}).
		Where("round_id = ?", roundID).
		Distinct("hole_number").
		Pluck("hole_number", &fromShots).Error; err != nil {
		return nil, fmt.Errorf("failed to list shot holes: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.RoundHole{}).
		Where("round_id = ?", roundID).
		Pluck("hole_number", &fromHoles).Error; err != nil {
		return nil, fmt.Errorf("failed to list aggregate holes: %w", err)
	}

	seen := make(map[int]bool)
	var holes []int
	for _, h := range append(fromShots, fromHoles...) {
		if !seen[h] {
			seen[h] = true
			holes = append(holes, h)
		}
	}
	return holes, nil
}

// RecentTotals returns total scores of the user's most recent completed rounds,
// newest first. A round is complete once every hole has a gross score.
func (s *RoundStore) RecentTotals(ctx context.Context, userID string, limit int) ([]int, error) {
	completed := s.db.Model(&models.RoundHole{}).
		Select("round_id").
		Where("gross_score IS NOT NULL").
		Group("round_id").
		Having("COUNT(*) >= ?", models.HolesPerRound)

	var totals []int
	err := s.db.WithContext(ctx).Model(&models.Round{}).
		Where("user_id = ?", userID).
		Where("id IN (?)", completed).
		Order("played_at DESC").
		Limit(limit).
		Pluck("total_score", &totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent totals: %w", err)
	}
	return totals, nil
}
