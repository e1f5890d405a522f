package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/shot-analytics/internal/analytics"
	"github.com/stitts-dev/shot-analytics/internal/models"
	"github.com/stitts-dev/shot-analytics/internal/strategy"
)

// HistoryLoader supplies the history snapshot for a player
type HistoryLoader interface {
	Load(ctx context.Context, userID string) analytics.Snapshot
	LoadShots(ctx context.Context, userID string) analytics.Snapshot
}

// Cache stores JSON-encoded read models
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Report wraps a list read model. Degraded is set when the reference dataset
// answered instead of the player's own history.
type Report[T any] struct {
	Items    []T  `json:"items"`
	Degraded bool `json:"-"`
}

// AnalyticsService is the entry point for every analytics read model
type AnalyticsService struct {
	history    HistoryLoader
	tendencies *analytics.TendencyEngine
	heatMap    *analytics.HeatMapProjector
	suggester  *strategy.ClubSuggester
	pressure   *strategy.PressureClassifier
	decisions  *strategy.DecisionEngine
	cache      Cache
	cacheTTL   time.Duration
	logger     *logrus.Logger
}

func NewAnalyticsService(history HistoryLoader, tables strategy.ReferenceTables, thresholds analytics.TendencyThresholds, cache Cache, cacheTTL time.Duration, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		history:    history,
		tendencies: analytics.NewTendencyEngine(thresholds),
		heatMap:    analytics.NewHeatMapProjector(tables.LateralOffsets),
		suggester:  strategy.NewClubSuggester(tables),
		pressure:   strategy.NewPressureClassifier(tables),
		decisions:  strategy.NewDecisionEngine(tables),
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func (s *AnalyticsService) GetClubPerformance(ctx context.Context, userID string) (Report[models.ClubPerformanceStat], error) {
	return cachedReport(ctx, s, ClubPerformanceCacheKey(userID), userID, analytics.ClubPerformance)
}

func (s *AnalyticsService) GetTendencies(ctx context.Context, userID string) (Report[models.TendencyInsight], error) {
	return cachedReport(ctx, s, TendenciesCacheKey(userID), userID, s.tendencies.Detect)
}

func (s *AnalyticsService) GetHeatMap(ctx context.Context, userID string) (Report[models.HeatMapPoint], error) {
	return cachedReport(ctx, s, HeatMapCacheKey(userID), userID, s.heatMap.Project)
}

// GetClubSuggestions ranks up to three clubs. When the player's shot history is
// not available the reference club table is used instead of reference shots.
func (s *AnalyticsService) GetClubSuggestions(ctx context.Context, shot strategy.ShotContext) Report[models.ClubSuggestion] {
	snap := s.history.LoadShots(ctx, shot.UserID)

	var stats []models.ClubPerformanceStat
	if !snap.ShotsDegraded {
		stats = analytics.ClubPerformance(snap.Shots)
	}
	return Report[models.ClubSuggestion]{
		Items:    s.suggester.Suggest(shot, stats),
		Degraded: snap.Degraded,
	}
}

func (s *AnalyticsService) GetPressureAnalysis(ctx context.Context, shot strategy.ShotContext) models.PressureAnalysis {
	snap := s.history.Load(ctx, shot.UserID)

	analysis := s.pressure.Analyze(shot, snap.Shots, snap.RoundTotals)
	analysis.Degraded = snap.Degraded
	return analysis
}

func (s *AnalyticsService) GetShotDecision(ctx context.Context, shot strategy.ShotContext) models.ShotDecision {
	snap := s.history.Load(ctx, shot.UserID)

	decision := s.decisions.Decide(shot, snap.Shots, snap.RoundTotals)
	decision.Degraded = snap.Degraded
	return decision
}

// Invalidate drops the cached read models of a user after their shots change
func (s *AnalyticsService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, UserAnalyticsKeys(userID)...); err != nil {
		s.logger.WithFields(logrus.Fields{
			"component": "analytics_service",
			"user_id":   userID,
			"error":     err.Error(),
		}).Warn("Failed to invalidate analytics cache")
	}
}

// cachedReport serves a per-user read model from the cache, computing and
// storing it on a miss. Degraded reports are never cached.
func cachedReport[T any](ctx context.Context, s *AnalyticsService, key, userID string, compute func([]models.Shot) []T) (Report[T], error) {
	if s.cache != nil {
		var cached Report[T]
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithFields(logrus.Fields{
				"component": "analytics_service",
				"key":       key,
				"error":     err.Error(),
			}).Warn("Cache read failed, computing analytics")
		}
	}

	if err := ctx.Err(); err != nil {
		return Report[T]{}, err
	}

	snap := s.history.LoadShots(ctx, userID)
	report := Report[T]{
		Items:    compute(snap.Shots),
		Degraded: snap.Degraded,
	}

	if s.cache != nil && !report.Degraded {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.WithFields(logrus.Fields{
				"component": "analytics_service",
				"key":       key,
				"error":     err.Error(),
			}).Warn("Failed to cache analytics")
		}
	}
	return report, nil
}
