package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

var baseTime = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func lateral(m models.LateralMiss) *models.LateralMiss {
	return &m
}

func distanceMiss(m models.DistanceMiss) *models.DistanceMiss {
	return &m
}

func approachShot(start, end float64, endLie models.Lie, at int) models.Shot {
	return models.Shot{
		Category:            models.CategoryApproach,
		Club:                "7 Iron",
		StartDistanceToHole: start,
		EndDistanceToHole:   end,
		EndLie:              endLie,
		CreatedAt:           baseTime.Add(time.Duration(at) * time.Hour),
	}
}

func TestClubPerformance(t *testing.T) {
	shots := []models.Shot{
		approachShot(250, 150, models.LieGreen, 0),
		approachShot(260, 150, models.LieGreen, 1),
		approachShot(255, 150, models.LieGreen, 2),
		{Category: models.CategoryTee, Club: "Driver", StartDistanceToHole: 400, EndDistanceToHole: 150, CreatedAt: baseTime},
		{Category: models.CategoryTee, Club: "Driver", StartDistanceToHole: 400, EndDistanceToHole: 140, CreatedAt: baseTime},
	}

	stats := ClubPerformance(shots)
	require.Len(t, stats, 1, "two-sample driver group is omitted")

	got := stats[0]
	assert.Equal(t, "7 Iron", got.Club)
	assert.Equal(t, models.CategoryApproach, got.Category)
	assert.Equal(t, 3, got.SampleSize)
	assert.Equal(t, 1.0, got.Accuracy)
	assert.InDelta(t, 105.0, got.AverageDistance, 1e-9)
	assert.InDelta(t, 4.08, got.Dispersion, 0.01)
	require.Len(t, got.Trends, 3)
	assert.Equal(t, 100.0, got.Trends[0].Distance)
	assert.Equal(t, 105.0, got.Trends[2].Distance)
}

func TestClubPerformance_FiltersInvalidDistances(t *testing.T) {
	shots := []models.Shot{
		approachShot(150, 150, models.LieGreen, 0),
		approachShot(500, 50, models.LieGreen, 1),
		approachShot(100, 120, models.LieGreen, 2),
		approachShot(150, 10, models.LieGreen, 3),
		approachShot(150, 20, models.LieRough, 4),
		{Category: models.CategoryApproach, StartDistanceToHole: 150, EndDistanceToHole: 10},
	}

	assert.Empty(t, ClubPerformance(shots))
}

func TestClubPerformance_TrendKeepsLastTenChronologically(t *testing.T) {
	var shots []models.Shot
	for i := 14; i >= 0; i-- {
		shots = append(shots, approachShot(float64(200+i), 100, models.LieGreen, i))
	}

	stats := ClubPerformance(shots)
	require.Len(t, stats, 1)
	require.Len(t, stats[0].Trends, TrendPoints)
	assert.Equal(t, 105.0, stats[0].Trends[0].Distance)
	assert.Equal(t, 114.0, stats[0].Trends[TrendPoints-1].Distance)
	assert.Equal(t, 15, stats[0].SampleSize)
}

func TestClubPerformance_SortedBySampleSize(t *testing.T) {
	var shots []models.Shot
	for i := 0; i < 3; i++ {
		shots = append(shots, models.Shot{Category: models.CategoryAroundGreen, Club: "Sand Wedge", StartDistanceToHole: 30, EndDistanceToHole: 5})
	}
	for i := 0; i < 5; i++ {
		shots = append(shots, approachShot(150, 10, models.LieGreen, i))
	}

	stats := ClubPerformance(shots)
	require.Len(t, stats, 2)
	assert.Equal(t, "7 Iron", stats[0].Club)
	assert.Equal(t, "Sand Wedge", stats[1].Club)
}

func TestIsGoodShot(t *testing.T) {
	tests := []struct {
		name string
		shot models.Shot
		want bool
	}{
		{"tee in fairway", models.Shot{Category: models.CategoryTee, EndLie: models.LieFairway}, true},
		{"tee capitalized fairway", models.Shot{Category: models.CategoryTee, EndLie: "Fairway"}, true},
		{"tee in rough rated good", models.Shot{Category: models.CategoryTee, EndLie: models.LieRough, ResultZone: models.ResultGood}, true},
		{"tee in rough acceptable", models.Shot{Category: models.CategoryTee, EndLie: models.LieRough, ResultZone: models.ResultAcceptable}, false},
		{"approach on green", models.Shot{Category: models.CategoryApproach, EndLie: models.LieGreen}, true},
		{"approach in bunker", models.Shot{Category: models.CategoryApproach, EndLie: models.LieGreensideBunker, ResultZone: models.ResultPoor}, false},
		{"chip acceptable", models.Shot{Category: models.CategoryAroundGreen, ResultZone: models.ResultAcceptable}, true},
		{"putt poor", models.Shot{Category: models.CategoryPutt, ResultZone: models.ResultPoor}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGoodShot(tt.shot))
		})
	}
}

func lateralShots(misses ...models.LateralMiss) []models.Shot {
	shots := make([]models.Shot, len(misses))
	for i, m := range misses {
		shots[i] = models.Shot{Category: models.CategoryAroundGreen}
		shots[i].LateralError = lateral(m)
	}
	return shots
}

func TestTendencyEngine_LateralBias(t *testing.T) {
	engine := NewTendencyEngine(DefaultTendencyThresholds())

	t.Run("left bias", func(t *testing.T) {
		insights := engine.Detect(lateralShots(
			models.LateralLeft, models.LateralLeft, models.LateralLeft, models.LateralOnLine, models.LateralRight,
		))
		require.Len(t, insights, 1)
		assert.Equal(t, models.InsightLateralBias, insights[0].Type)
		assert.Equal(t, "Tendency to miss left", insights[0].Title)
		assert.InDelta(t, 0.6, insights[0].Confidence, 1e-9)
		assert.Contains(t, insights[0].Description, "60%")
		assert.Equal(t, 5, insights[0].SampleSize)
	})

	t.Run("all right caps confidence", func(t *testing.T) {
		insights := engine.Detect(lateralShots(
			models.LateralRight, models.LateralFarRight, models.LateralRight, models.LateralRight, models.LateralRight,
		))
		require.Len(t, insights, 1)
		assert.Equal(t, "Tendency to miss right", insights[0].Title)
		assert.Equal(t, 0.9, insights[0].Confidence)
	})

	t.Run("below minimum sample", func(t *testing.T) {
		assert.Empty(t, engine.Detect(lateralShots(models.LateralLeft, models.LateralLeft, models.LateralLeft, models.LateralLeft)))
	})

	t.Run("putts are ignored", func(t *testing.T) {
		shots := lateralShots(models.LateralLeft, models.LateralLeft, models.LateralLeft, models.LateralLeft, models.LateralLeft)
		shots[0].Category = models.CategoryPutt
		assert.Empty(t, engine.Detect(shots))
	})

	t.Run("balanced misses", func(t *testing.T) {
		assert.Empty(t, engine.Detect(lateralShots(
			models.LateralLeft, models.LateralLeft, models.LateralOnLine, models.LateralRight, models.LateralRight,
		)))
	})
}

func TestTendencyEngine_DistanceBias(t *testing.T) {
	engine := NewTendencyEngine(DefaultTendencyThresholds())

	build := func(misses ...models.DistanceMiss) []models.Shot {
		shots := make([]models.Shot, len(misses))
		for i, m := range misses {
			shots[i] = models.Shot{Category: models.CategoryAroundGreen}
			shots[i].DistanceError = distanceMiss(m)
		}
		return shots
	}

	tests := []struct {
		name      string
		shots     []models.Shot
		wantTitle string
	}{
		{
			name:      "short is checked first",
			shots:     build(models.DistanceShort, models.DistanceWayShort, models.DistanceShort, models.DistanceLong, models.DistanceLong),
			wantTitle: "Tendency to come up short",
		},
		{
			name:      "long above its lower threshold",
			shots:     build(models.DistanceLong, models.DistanceWayLong, models.DistancePinHigh, models.DistancePinHigh, models.DistanceShort),
			wantTitle: "Tendency to go long",
		},
		{
			name:  "pin high",
			shots: build(models.DistancePinHigh, models.DistancePinHigh, models.DistancePinHigh, models.DistanceLong, models.DistanceShort),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := engine.Detect(tt.shots)
			if tt.wantTitle == "" {
				assert.Empty(t, insights)
				return
			}
			require.Len(t, insights, 1)
			assert.Equal(t, models.InsightDistanceBias, insights[0].Type)
			assert.Equal(t, tt.wantTitle, insights[0].Title)
		})
	}
}

func TestTendencyEngine_TeeAndApproachAccuracy(t *testing.T) {
	engine := NewTendencyEngine(DefaultTendencyThresholds())

	tee := func(lies ...models.Lie) []models.Shot {
		shots := make([]models.Shot, len(lies))
		for i, l := range lies {
			shots[i] = models.Shot{Category: models.CategoryTee, EndLie: l}
		}
		return shots
	}

	t.Run("tee needs improvement", func(t *testing.T) {
		insights := engine.Detect(tee(models.LieRough, models.LieRough, models.LieFairway))
		require.Len(t, insights, 1)
		assert.Equal(t, "Driving accuracy needs improvement", insights[0].Title)
		assert.Contains(t, insights[0].Description, "33%")
		assert.NotEmpty(t, insights[0].Recommendation)
	})

	t.Run("tee strength", func(t *testing.T) {
		insights := engine.Detect(tee(models.LieFairway, "Fairway", models.LieFairway))
		require.Len(t, insights, 1)
		assert.Equal(t, "Reliable off the tee", insights[0].Title)
		assert.Equal(t, 1.0, insights[0].Confidence)
	})

	t.Run("tee in the middle band is silent", func(t *testing.T) {
		assert.Empty(t, engine.Detect(tee(models.LieFairway, models.LieFairway, models.LieFairway, models.LieRough, models.LieRough)))
	})

	t.Run("approach focus area", func(t *testing.T) {
		shots := []models.Shot{
			approachShot(150, 10, models.LieGreen, 0),
			approachShot(150, 30, models.LieRough, 1),
			approachShot(150, 30, models.LieGreensideBunker, 2),
			approachShot(150, 30, models.LieFringe, 3),
			approachShot(150, 30, models.LieRough, 4),
		}
		insights := engine.Detect(shots)
		require.Len(t, insights, 1)
		assert.Equal(t, models.InsightApproachAccuracy, insights[0].Type)
		assert.Contains(t, insights[0].Description, "20%")
	})

	t.Run("custom thresholds", func(t *testing.T) {
		th := DefaultTendencyThresholds()
		th.MinTeeSamples = 10
		assert.Empty(t, NewTendencyEngine(th).Detect(tee(models.LieRough, models.LieRough, models.LieRough)))
	})
}

func TestHeatMap(t *testing.T) {
	shots := []models.Shot{
		{Category: models.CategoryApproach, Club: "9 Iron", StartDistanceToHole: 150, EndDistanceToHole: 0},
		{Category: models.CategoryTee, StartDistanceToHole: 400, EndDistanceToHole: 150, ShotDetails: models.ShotDetails{LateralError: lateral(models.LateralFarLeft)}},
		{Category: models.CategoryApproach, StartDistanceToHole: 100, EndDistanceToHole: 130, ShotDetails: models.ShotDetails{LateralError: lateral(models.LateralRight)}},
		{Category: models.CategoryAroundGreen, StartDistanceToHole: 0, EndDistanceToHole: 0},
		{Category: models.CategoryPutt, StartDistanceToHole: 10, EndDistanceToHole: 0},
	}

	points := NewHeatMapProjector(nil).Project(shots)
	require.Len(t, points, 4, "putts are excluded")

	assert.Equal(t, 0.0, points[0].X)
	assert.Equal(t, 100.0, points[0].Y)
	assert.Equal(t, "9 Iron", points[0].Club)

	assert.Equal(t, -80.0, points[1].X)
	assert.InDelta(t, 62.5, points[1].Y, 1e-9)

	assert.Equal(t, 40.0, points[2].X)
	assert.Equal(t, 0.0, points[2].Y, "negative progress clamps to zero")

	assert.Equal(t, 100.0, points[3].Y)
}

func TestHeatMapProjector_UsesInjectedOffsets(t *testing.T) {
	offsets := DefaultLateralOffsets()
	offsets[models.LateralLeft] = -25
	projector := NewHeatMapProjector(offsets)
	offsets[models.LateralLeft] = -999

	points := projector.Project([]models.Shot{
		{Category: models.CategoryApproach, StartDistanceToHole: 100, EndDistanceToHole: 10, ShotDetails: models.ShotDetails{LateralError: lateral(models.LateralLeft)}},
	})
	require.Len(t, points, 1)
	assert.Equal(t, -25.0, points[0].X, "the projector keeps its own copy of the table")
	assert.Equal(t, -40.0, DefaultLateralOffsets()[models.LateralLeft])
}

func TestDefaultFallbackData_IsDeterministic(t *testing.T) {
	a := DefaultFallbackData()
	b := DefaultFallbackData()
	assert.Equal(t, a, b)
	require.NotEmpty(t, a.Shots)
	require.NotEmpty(t, a.RoundTotals)

	for _, shot := range a.Shots {
		require.NoError(t, shot.Validate())
	}
	assert.NotEmpty(t, ClubPerformance(a.Shots))
}
