package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stitts-dev/shot-analytics/internal/aggregate"
	"github.com/stitts-dev/shot-analytics/internal/analytics"
	"github.com/stitts-dev/shot-analytics/internal/models"
)

type parResult struct {
	par int
	ok  bool
}

// GuardedCourseReference bounds course par lookups with a timeout and a breaker.
// Failures surface as models.ErrUpstreamUnavailable and the aggregator seeds the
// default par instead.
type GuardedCourseReference struct {
	ref     aggregate.ParLookup
	guard   analytics.Guard
	timeout time.Duration
}

func NewGuardedCourseReference(ref aggregate.ParLookup, guard analytics.Guard, timeout time.Duration) *GuardedCourseReference {
	return &GuardedCourseReference{ref: ref, guard: guard, timeout: timeout}
}

func (g *GuardedCourseReference) GetHolePar(ctx context.Context, courseID string, holeNumber int) (int, bool, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	result, err := g.guard.Execute(GuardCourseReference, func() (interface{}, error) {
		par, ok, err := g.ref.GetHolePar(ctx, courseID, holeNumber)
		if err != nil {
			return nil, err
		}
		return parResult{par: par, ok: ok}, nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("%w: course reference: %v", models.ErrUpstreamUnavailable, err)
	}
	r := result.(parResult)
	return r.par, r.ok, nil
}
