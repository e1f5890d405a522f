package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// ShotStore is the writable shot log
type ShotStore interface {
	Append(ctx context.Context, shot *models.Shot) error
	Update(ctx context.Context, shot *models.Shot) error
	Delete(ctx context.Context, roundID uuid.UUID, holeNumber, shotNumber int) error
	FetchForHole(ctx context.Context, roundID uuid.UUID, holeNumber int) ([]models.Shot, error)
}

// RoundReader creates and loads rounds
type RoundReader interface {
	CreateRound(ctx context.Context, round *models.Round) error
	GetRound(ctx context.Context, roundID uuid.UUID) (*models.Round, error)
	GetRoundWithHoles(ctx context.Context, roundID uuid.UUID) (*models.Round, error)
}

// HoleRecomputer is satisfied by aggregate.HoleAggregator
type HoleRecomputer interface {
	Recompute(ctx context.Context, roundID uuid.UUID, holeNumber int) error
}

// CacheInvalidator drops a player's cached analytics
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// ShotService records shots and keeps the hole aggregates in step with the log
type ShotService struct {
	shots      ShotStore
	rounds     RoundReader
	aggregates HoleRecomputer
	analytics  CacheInvalidator
	logger     *logrus.Logger
}

func NewShotService(shots ShotStore, rounds RoundReader, aggregates HoleRecomputer, analytics CacheInvalidator, logger *logrus.Logger) *ShotService {
	return &ShotService{
		shots:      shots,
		rounds:     rounds,
		aggregates: aggregates,
		analytics:  analytics,
		logger:     logger,
	}
}

func (s *ShotService) StartRound(ctx context.Context, round *models.Round) error {
	if round.UserID == "" {
		return fmt.Errorf("%w: user id is required", models.ErrInvalidRound)
	}
	return s.rounds.CreateRound(ctx, round)
}

func (s *ShotService) GetScorecard(ctx context.Context, roundID uuid.UUID) (*models.Round, error) {
	return s.rounds.GetRoundWithHoles(ctx, roundID)
}

func (s *ShotService) HoleShots(ctx context.Context, roundID uuid.UUID, holeNumber int) ([]models.Shot, error) {
	return s.shots.FetchForHole(ctx, roundID, holeNumber)
}

// LogShot converts a parsed intent into the next shot on its hole and
// recomputes the hole. A recompute failure is returned with the stored shot.
func (s *ShotService) LogShot(ctx context.Context, intent models.ShotIntent) (*models.Shot, error) {
	round, err := s.rounds.GetRound(ctx, intent.RoundID)
	if err != nil {
		return nil, err
	}

	shot, err := intent.ToShot()
	if err != nil {
		return nil, err
	}
	shot.UserID = round.UserID

	if err := s.shots.Append(ctx, &shot); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}

	s.logger.WithFields(logrus.Fields{
		"component":   "shot_service",
		"round_id":    shot.RoundID,
		"hole_number": shot.HoleNumber,
		"shot_number": shot.ShotNumber,
		"category":    shot.Category,
	}).Debug("Shot logged")

	return &shot, s.afterWrite(ctx, round.UserID, shot.RoundID, shot.HoleNumber)
}

// UpdateShot rewrites an existing shot in place
func (s *ShotService) UpdateShot(ctx context.Context, shot *models.Shot) error {
	round, err := s.rounds.GetRound(ctx, shot.RoundID)
	if err != nil {
		return err
	}
	if err := s.shots.Update(ctx, shot); err != nil {
		return err
	}
	return s.afterWrite(ctx, round.UserID, shot.RoundID, shot.HoleNumber)
}

// DeleteShot removes a shot; later shots on the hole move up one number
func (s *ShotService) DeleteShot(ctx context.Context, roundID uuid.UUID, holeNumber, shotNumber int) error {
	round, err := s.rounds.GetRound(ctx, roundID)
	if err != nil {
		return err
	}
	if err := s.shots.Delete(ctx, roundID, holeNumber, shotNumber); err != nil {
		return err
	}
	return s.afterWrite(ctx, round.UserID, roundID, holeNumber)
}

// RecomputeHole rebuilds a hole aggregate on demand
func (s *ShotService) RecomputeHole(ctx context.Context, roundID uuid.UUID, holeNumber int) error {
	return s.aggregates.Recompute(ctx, roundID, holeNumber)
}

func (s *ShotService) afterWrite(ctx context.Context, userID string, roundID uuid.UUID, holeNumber int) error {
	if s.analytics != nil {
		s.analytics.Invalidate(ctx, userID)
	}
	if err := s.aggregates.Recompute(ctx, roundID, holeNumber); err != nil {
		s.logger.WithFields(logrus.Fields{
			"component":   "shot_service",
			"round_id":    roundID,
			"hole_number": holeNumber,
			"error":       err.Error(),
		}).Error("Failed to recompute hole aggregate")
		return fmt.Errorf("failed to recompute hole %d: %w", holeNumber, err)
	}
	return nil
}
