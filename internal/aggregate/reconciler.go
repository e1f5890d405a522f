package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ChangedRoundFinder lists rounds whose shots changed after their aggregates were written
type ChangedRoundFinder interface {
	RoundsChangedSince(ctx context.Context, since time.Time, limit int) ([]uuid.UUID, error)
}

// RoundRecomputer is satisfied by HoleAggregator
type RoundRecomputer interface {
	RecomputeRound(ctx context.Context, roundID uuid.UUID) error
}

const reconcileBatchSize = 200

// Reconciler periodically repairs stale aggregates left behind by failed writes.
// Recompute is idempotent so re-running a round that is already current is harmless.
type Reconciler struct {
	finder     ChangedRoundFinder
	recomputer RoundRecomputer
	lookback   time.Duration
	logger     *logrus.Logger
	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
}

func NewReconciler(finder ChangedRoundFinder, recomputer RoundRecomputer, lookback time.Duration, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		finder:     finder,
		recomputer: recomputer,
		lookback:   lookback,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start schedules the sweep
func (r *Reconciler) Start(schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("reconciler is already running")
	}

	_, err := r.cron.AddFunc(schedule, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			r.logger.WithFields(logrus.Fields{
				"component": "reconciler",
				"error":     err.Error(),
			}).Error("Aggregate reconciliation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciler: %w", err)
	}

	r.cron.Start()
	r.isRunning = true

	r.logger.WithFields(logrus.Fields{
		"component": "reconciler",
		"schedule":  schedule,
	}).Info("Aggregate reconciler started")
	return nil
}

// Stop waits for a running sweep to finish
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}
	<-r.cron.Stop().Done()
	r.isRunning = false
}

// RunOnce recomputes every stale round found in the lookback window and returns
// how many were repaired. A failing round does not stop the sweep.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	since := time.Now().UTC().Add(-r.lookback)
	roundIDs, err := r.finder.RoundsChangedSince(ctx, since, reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, roundID := range roundIDs {
		if err := r.recomputer.RecomputeRound(ctx, roundID); err != nil {
			r.logger.WithFields(logrus.Fields{
				"component": "reconciler",
				"round_id":  roundID,
				"error":     err.Error(),
			}).Warn("Failed to reconcile round")
			continue
		}
		repaired++
	}

	if len(roundIDs) > 0 {
		r.logger.WithFields(logrus.Fields{
			"component": "reconciler",
			"found":     len(roundIDs),
			"repaired":  repaired,
		}).Info("Aggregate reconciliation complete")
	}
	return repaired, nil
}
