package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/shot-analytics/internal/models"
	"github.com/stitts-dev/shot-analytics/internal/repository"
)

const (
	GuardShotHistory  = "shot_history"
	GuardRoundHistory = "round_history"
)

// ShotHistory is the bounded historical shot accessor
type ShotHistory interface {
	FetchHistorical(ctx context.Context, userID string, q repository.HistoryQuery) ([]models.Shot, error)
}

// RoundHistory returns a player's most recent completed round totals, newest first
type RoundHistory interface {
	RecentTotals(ctx context.Context, userID string, limit int) ([]int, error)
}

// Guard wraps an upstream call, typically with a circuit breaker
type Guard interface {
	Execute(name string, fn func() (interface{}, error)) (interface{}, error)
}

// Snapshot is the in-memory history every analytics engine runs over.
// Degraded is set when either dataset came from the reference data.
type Snapshot struct {
	Shots          []models.Shot
	RoundTotals    []int
	ShotsDegraded  bool
	TotalsDegraded bool
	Degraded       bool
}

type HistorySourceConfig struct {
	RoundLimit  int
	Window      time.Duration
	MaxShots    int
	TotalsLimit int
	Timeout     time.Duration
	// FallbackOnEmpty serves the reference dataset to players without history
	FallbackOnEmpty bool
}

// HistorySource loads history from the live stores and substitutes the static
// reference dataset when they fail or have nothing for the player
type HistorySource struct {
	shots    ShotHistory
	rounds   RoundHistory
	guard    Guard
	fallback FallbackData
	cfg      HistorySourceConfig
	logger   *logrus.Logger
	now      func() time.Time
}

func NewHistorySource(shots ShotHistory, rounds RoundHistory, guard Guard, fallback FallbackData, cfg HistorySourceConfig, logger *logrus.Logger) *HistorySource {
	if cfg.TotalsLimit <= 0 {
		cfg.TotalsLimit = 20
	}
	return &HistorySource{
		shots:    shots,
		rounds:   rounds,
		guard:    guard,
		fallback: fallback,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Load never fails: upstream errors are logged and answered with fallback data
func (s *HistorySource) Load(ctx context.Context, userID string) Snapshot {
	snap := s.LoadShots(ctx, userID)

	totals, err := s.liveTotals(ctx, userID)
	if err != nil {
		s.logFallback(userID, GuardRoundHistory, err)
		snap.RoundTotals, snap.TotalsDegraded = s.fallback.RoundTotals, true
	} else {
		snap.RoundTotals = totals
	}
	snap.Degraded = snap.ShotsDegraded || snap.TotalsDegraded
	return snap
}

// LoadShots loads only the shot history, for read models that ignore round totals
func (s *HistorySource) LoadShots(ctx context.Context, userID string) Snapshot {
	var snap Snapshot

	shots, err := s.liveShots(ctx, userID)
	switch {
	case err != nil:
		s.logFallback(userID, GuardShotHistory, err)
		snap.Shots, snap.ShotsDegraded = s.fallback.Shots, true
	case len(shots) == 0 && s.cfg.FallbackOnEmpty:
		snap.Shots, snap.ShotsDegraded = s.fallback.Shots, true
	default:
		snap.Shots = shots
	}
	snap.Degraded = snap.ShotsDegraded
	return snap
}

func (s *HistorySource) liveShots(ctx context.Context, userID string) ([]models.Shot, error) {
	if s.shots == nil {
		return nil, fmt.Errorf("%w: no shot history configured", models.ErrUpstreamUnavailable)
	}
	q := repository.HistoryQuery{
		RoundLimit: s.cfg.RoundLimit,
		MaxShots:   s.cfg.MaxShots,
	}
	if s.cfg.Window > 0 {
		q.Since = s.now().Add(-s.cfg.Window)
	}

	result, err := s.guarded(ctx, GuardShotHistory, func(ctx context.Context) (interface{}, error) {
		return s.shots.FetchHistorical(ctx, userID, q)
	})
	if err != nil {
		return nil, err
	}
	shots, _ := result.([]models.Shot)
	return shots, nil
}

func (s *HistorySource) liveTotals(ctx context.Context, userID string) ([]int, error) {
	if s.rounds == nil {
		return nil, fmt.Errorf("%w: no round history configured", models.ErrUpstreamUnavailable)
	}
	result, err := s.guarded(ctx, GuardRoundHistory, func(ctx context.Context) (interface{}, error) {
		return s.rounds.RecentTotals(ctx, userID, s.cfg.TotalsLimit)
	})
	if err != nil {
		return nil, err
	}
	totals, _ := result.([]int)
	return totals, nil
}

func (s *HistorySource) guarded(ctx context.Context, name string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	call := func() (interface{}, error) { return fn(ctx) }
	var (
		result interface{}
		err    error
	)
	if s.guard != nil {
		result, err = s.guard.Execute(name, call)
	} else {
		result, err = call()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, name, err)
	}
	return result, nil
}

func (s *HistorySource) logFallback(userID, upstream string, err error) {
	s.logger.WithFields(logrus.Fields{
		"component": "history_source",
		"user_id":   userID,
		"upstream":  upstream,
		"error":     err.Error(),
	}).Warn("Upstream history unavailable, serving reference data")
}
