package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

func approachFrom(lie models.Lie, zone models.ResultZone, at int) models.Shot {
	return models.Shot{
		Category:            models.CategoryApproach,
		Club:                Club7Iron,
		StartLie:            lie,
		StartDistanceToHole: 150,
		EndDistanceToHole:   10,
		ResultZone:          zone,
		CreatedAt:           epoch.Add(time.Duration(at) * time.Hour),
	}
}

func repeatShot(n int, build func(i int) models.Shot) []models.Shot {
	out := make([]models.Shot, n)
	for i := range out {
		out[i] = build(i)
	}
	return out
}

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name string
		ctx  ShotContext
		want float64
	}{
		{"no risk", ShotContext{HoleNumber: 8, DistanceToPin: 150, Lie: models.LieFairway}, 0},
		{"long shot", ShotContext{HoleNumber: 8, DistanceToPin: 210, Lie: models.LieFairway}, RiskLongDistance},
		{"early hole", ShotContext{HoleNumber: 2, DistanceToPin: 150, Lie: models.LieFairway}, RiskEarlyRound},
		{"wind", ShotContext{HoleNumber: 8, DistanceToPin: 150, Lie: models.LieFairway, Wind: &Wind{Speed: 20, Direction: WindInto}}, RiskHighWind},
		{"every risk at once", ShotContext{
			HoleNumber: 1, DistanceToPin: 230, Lie: "Greenside Bunker", HazardPresent: true,
			Wind: &Wind{Speed: 25, Direction: WindCross},
		}, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RiskScore(tt.ctx), 1e-9)
		})
	}
}

func TestDecisionEngine_Decide(t *testing.T) {
	e := NewDecisionEngine(DefaultReferenceTables())

	reliable := repeatShot(6, func(i int) models.Shot { return approachFrom(models.LieFairway, models.ResultGood, i) })

	tests := []struct {
		name            string
		ctx             ShotContext
		history         []models.Shot
		wantStrategy    models.Strategy
		wantConfidence  float64
		wantProbability float64
		wantAlternative models.Strategy
	}{
		{
			name:            "default is conservative",
			ctx:             ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 150},
			wantStrategy:    models.StrategyConservative,
			wantConfidence:  0.7,
			wantProbability: 0.8,
			wantAlternative: models.StrategyAggressive,
		},
		{
			name:            "low risk and reliable history attacks",
			ctx:             ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 150},
			history:         reliable,
			wantStrategy:    models.StrategyAggressive,
			wantConfidence:  1.0,
			wantProbability: 0.9,
			wantAlternative: models.StrategyConservative,
		},
		{
			name: "high risk stays conservative",
			ctx: ShotContext{HoleNumber: 2, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieHeavyRough,
				DistanceToPin: 210, HazardPresent: true},
			wantStrategy:    models.StrategyConservative,
			wantConfidence:  0.7,
			wantProbability: 0.8,
			wantAlternative: models.StrategyAggressive,
		},
		{
			name:            "out of reach on the second shot lays up",
			ctx:             ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 270},
			wantStrategy:    models.StrategyLayup,
			wantConfidence:  0.7,
			wantProbability: 0.8,
			wantAlternative: models.StrategyAggressive,
		},
		{
			name:            "exactly fifty yards beyond does not lay up",
			ctx:             ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 260},
			wantStrategy:    models.StrategyConservative,
			wantConfidence:  0.7,
			wantProbability: 0.8,
			wantAlternative: models.StrategyAggressive,
		},
		{
			name:            "chasing the round goes aggressive",
			ctx:             ShotContext{HoleNumber: 12, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 150, ScoreToPar: 3},
			wantStrategy:    models.StrategyAggressive,
			wantConfidence:  0.7,
			wantProbability: 0.6,
			wantAlternative: models.StrategyConservative,
		},
		{
			name:            "under par protects the score",
			ctx:             ShotContext{HoleNumber: 12, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 150, ScoreToPar: -1},
			history:         reliable,
			wantStrategy:    models.StrategyConservative,
			wantConfidence:  1.0,
			wantProbability: 0.95,
			wantAlternative: models.StrategyAggressive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Decide(tt.ctx, tt.history, nil)
			assert.Equal(t, tt.wantStrategy, got.Strategy)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.InDelta(t, tt.wantProbability, got.Risk.SuccessProbability, 1e-9)
			assert.Equal(t, tt.wantAlternative, got.Alternative.Strategy)
			assert.NotEmpty(t, got.Alternative.Pros)
			assert.NotEmpty(t, got.Alternative.Cons)
			assert.NotEmpty(t, got.Risk.BestCase)
			assert.NotEmpty(t, got.Risk.WorstCase)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestDecisionEngine_PressureOverridesAggression(t *testing.T) {
	e := NewDecisionEngine(DefaultReferenceTables())

	// long putts are routinely two-putted, short ones under pressure are missed
	history := repeatShot(20, func(i int) models.Shot { return putt(25, true, i) })
	for i, made := range []bool{true, false, false, true, false, false, false, false} {
		history = append(history, putt(4, made, 30+i))
	}

	got := e.Decide(ShotContext{HoleNumber: 9, Par: 4, ShotNumber: 3, Category: models.CategoryPutt, Lie: models.LieGreen, DistanceToPin: 3}, history, nil)

	assert.Equal(t, models.IntensityHigh, got.Pressure)
	assert.Equal(t, models.StrategyConservative, got.Strategy)
	assert.InDelta(t, 22.0/28.0, got.Confidence, 1e-9)
	require.NotEmpty(t, got.Reasoning)
	assert.Contains(t, got.Reasoning[len(got.Reasoning)-1], "high pressure and 25% success")
}

func TestDecisionEngine_LayupUsesPlayerClubs(t *testing.T) {
	e := NewDecisionEngine(DefaultReferenceTables())

	history := repeatShot(4, func(i int) models.Shot {
		return models.Shot{Category: models.CategoryApproach, Club: Club3Wood, StartDistanceToHole: 400, EndDistanceToHole: 160, CreatedAt: epoch}
	})

	got := e.Decide(ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 270}, history, nil)

	assert.Equal(t, models.StrategyConservative, got.Strategy, "a 240 yard 3 wood keeps the green in range")
}

func TestDecisionEngine_AggressiveWorstCaseMentionsHazard(t *testing.T) {
	e := NewDecisionEngine(DefaultReferenceTables())

	got := e.Decide(ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 150, HazardPresent: true, ScoreToPar: 4}, nil, nil)

	assert.Equal(t, models.StrategyAggressive, got.Strategy)
	assert.Contains(t, got.Risk.WorstCase, "hazard")
}

func TestDecisionEngine_InjectedTradeoffs(t *testing.T) {
	tables := DefaultReferenceTables()
	tables.StrategyTradeoffs[models.StrategyAggressive] = StrategyTradeoff{Pros: []string{"Short iron in"}, Cons: []string{"Water long"}}
	e := NewDecisionEngine(tables)
	tables.StrategyTradeoffs[models.StrategyAggressive] = StrategyTradeoff{Pros: []string{"changed"}}

	got := e.Decide(ShotContext{HoleNumber: 8, ShotNumber: 2, Category: models.CategoryApproach, Lie: models.LieFairway, DistanceToPin: 150}, nil, nil)

	require.Equal(t, models.StrategyConservative, got.Strategy)
	assert.Equal(t, models.StrategyAggressive, got.Alternative.Strategy)
	assert.Equal(t, []string{"Short iron in"}, got.Alternative.Pros)
	assert.Equal(t, []string{"Water long"}, got.Alternative.Cons)
}
