package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// ShotSource supplies the current shot set of a hole
type ShotSource interface {
	FetchForHole(ctx context.Context, roundID uuid.UUID, holeNumber int) ([]models.Shot, error)
}

// AggregateStore persists hole and round aggregates
type AggregateStore interface {
	GetRound(ctx context.Context, roundID uuid.UUID) (*models.Round, error)
	EnsureHole(ctx context.Context, roundID uuid.UUID, holeNumber, par int) (*models.RoundHole, error)
	UpsertHole(ctx context.Context, hole *models.RoundHole) error
	UpsertRoundTotals(ctx context.Context, roundID uuid.UUID) error
	HoleNumbers(ctx context.Context, roundID uuid.UUID) ([]int, error)
}

// ParLookup resolves reference par for a course hole
type ParLookup interface {
	GetHolePar(ctx context.Context, courseID string, holeNumber int) (int, bool, error)
}

// HoleAggregator recomputes derived hole stats and round totals from the shot log
type HoleAggregator struct {
	shots       ShotSource
	store       AggregateStore
	course      ParLookup
	defaultPar  int
	concurrency int
	logger      *logrus.Logger

	holeLocks  *keyedMutex
	roundLocks *keyedMutex
}

type AggregatorConfig struct {
	DefaultPar  int
	Concurrency int
}

func NewHoleAggregator(shots ShotSource, store AggregateStore, course ParLookup, cfg AggregatorConfig, logger *logrus.Logger) *HoleAggregator {
	if cfg.DefaultPar <= 0 {
		cfg.DefaultPar = 4
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &HoleAggregator{
		shots:       shots,
		store:       store,
		course:      course,
		defaultPar:  cfg.DefaultPar,
		concurrency: cfg.Concurrency,
		logger:      logger,
		holeLocks:   newKeyedMutex(),
		roundLocks:  newKeyedMutex(),
	}
}

// Recompute rebuilds one hole's aggregate and the round totals. A missing round
// is not an error. Persistence errors are returned and leave the previous
// aggregate in place until the caller retries.
func (a *HoleAggregator) Recompute(ctx context.Context, roundID uuid.UUID, holeNumber int) error {
	round, err := a.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			a.logger.WithFields(logrus.Fields{
				"component":   "hole_aggregator",
				"round_id":    roundID,
				"hole_number": holeNumber,
			}).Debug("Round not found, skipping recompute")
			return nil
		}
		return fmt.Errorf("failed to load round %s: %w", roundID, err)
	}

	if err := a.recomputeHole(ctx, round, holeNumber); err != nil {
		return err
	}
	return a.recomputeTotals(ctx, roundID)
}

// RecomputeRound rebuilds every hole that has shots or an aggregate row, in
// parallel across holes, then the round totals once
func (a *HoleAggregator) RecomputeRound(ctx context.Context, roundID uuid.UUID) error {
	round, err := a.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load round %s: %w", roundID, err)
	}

	holes, err := a.store.HoleNumbers(ctx, roundID)
	if err != nil {
		return err
	}
	sort.Ints(holes)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, hole := range holes {
		g.Go(func() error {
			return a.recomputeHole(gctx, round, hole)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return a.recomputeTotals(ctx, roundID)
}

func (a *HoleAggregator) recomputeHole(ctx context.Context, round *models.Round, holeNumber int) error {
	unlock := a.holeLocks.Lock(fmt.Sprintf("%s:%d", round.ID, holeNumber))
	defer unlock()

	hole, err := a.store.EnsureHole(ctx, round.ID, holeNumber, a.seedPar(ctx, round.CourseID, holeNumber))
	if err != nil {
		return err
	}

	shots, err := a.shots.FetchForHole(ctx, round.ID, holeNumber)
	if err != nil {
		return fmt.Errorf("failed to load shots for hole %d: %w", holeNumber, err)
	}

	stats := ComputeHole(hole.Par, shots)
	stats.Apply(hole)

	if err := a.store.UpsertHole(ctx, hole); err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"component":   "hole_aggregator",
		"round_id":    round.ID,
		"hole_number": holeNumber,
		"shots":       len(shots),
		"putts":       stats.Putts,
		"penalties":   stats.Penalties,
		"fir":         stats.FIR,
		"gir":         stats.GIR,
	}).Debug("Hole aggregate recomputed")
	return nil
}

func (a *HoleAggregator) recomputeTotals(ctx context.Context, roundID uuid.UUID) error {
	unlock := a.roundLocks.Lock(roundID.String())
	defer unlock()

	if err := a.store.UpsertRoundTotals(ctx, roundID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// seedPar falls back to the default par when reference data is unknown or unavailable
func (a *HoleAggregator) seedPar(ctx context.Context, courseID string, holeNumber int) int {
	if a.course == nil {
		return a.defaultPar
	}
	par, ok, err := a.course.GetHolePar(ctx, courseID, holeNumber)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"component":   "hole_aggregator",
			"course_id":   courseID,
			"hole_number": holeNumber,
			"error":       err.Error(),
		}).Warn("Course reference lookup failed, using default par")
		return a.defaultPar
	}
	if !ok || par <= 0 {
		return a.defaultPar
	}
	return par
}

// keyedMutex serializes work per key while letting different keys run in parallel
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
