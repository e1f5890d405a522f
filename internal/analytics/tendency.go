package analytics

import (
	"fmt"
	"math"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// TendencyThresholds holds the sample gates and bias cut-offs of the detectors
type TendencyThresholds struct {
	MinLateralSamples    int
	MinDistanceSamples   int
	MinTeeSamples        int
	MinApproachSamples   int
	LateralBias          float64
	ShortBias            float64
	LongBias             float64
	TeeNeedsWork         float64
	TeeStrength          float64
	ApproachFocus        float64
	MaxLateralConfidence float64
}

// DefaultTendencyThresholds are the production detector settings
func DefaultTendencyThresholds() TendencyThresholds {
	return TendencyThresholds{
		MinLateralSamples:    5,
		MinDistanceSamples:   5,
		MinTeeSamples:        3,
		MinApproachSamples:   5,
		LateralBias:          0.4,
		ShortBias:            0.4,
		LongBias:             0.35,
		TeeNeedsWork:         0.5,
		TeeStrength:          0.7,
		ApproachFocus:        0.4,
		MaxLateralConfidence: 0.9,
	}
}

// TendencyEngine runs the independent bias detectors over a shot history
type TendencyEngine struct {
	thresholds TendencyThresholds
}

func NewTendencyEngine(thresholds TendencyThresholds) *TendencyEngine {
	return &TendencyEngine{thresholds: thresholds}
}

// Detect returns the insights whose detectors met their sample gate and fired.
// Detectors below their minimum sample are silently skipped.
func (e *TendencyEngine) Detect(shots []models.Shot) []models.TendencyInsight {
	insights := make([]models.TendencyInsight, 0, 4)
	for _, detect := range []func([]models.Shot) (models.TendencyInsight, bool){
		e.lateralBias,
		e.distanceBias,
		e.teeAccuracy,
		e.approachAccuracy,
	} {
		if insight, ok := detect(shots); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}

func (e *TendencyEngine) lateralBias(shots []models.Shot) (models.TendencyInsight, bool) {
	var total, left, right int
	for _, shot := range shots {
		if shot.Category == models.CategoryPutt {
			continue
		}
		miss, ok := shot.Lateral()
		if !ok {
			continue
		}
		total++
		switch {
		case miss.IsLeft():
			left++
		case miss.IsRight():
			right++
		}
	}
	if total < e.thresholds.MinLateralSamples {
		return models.TendencyInsight{}, false
	}

	leftFraction := float64(left) / float64(total)
	rightFraction := float64(right) / float64(total)

	var side string
	var fraction float64
	switch {
	case leftFraction > e.thresholds.LateralBias:
		side, fraction = "left", leftFraction
	case rightFraction > e.thresholds.LateralBias:
		side, fraction = "right", rightFraction
	default:
		return models.TendencyInsight{}, false
	}

	opposite := "right"
	if side == "right" {
		opposite = "left"
	}
	return models.TendencyInsight{
		Type:           models.InsightLateralBias,
		Category:       "Direction",
		Title:          fmt.Sprintf("Tendency to miss %s", side),
		Description:    fmt.Sprintf("%s of your shots finish %s of target", percent(fraction), side),
		Recommendation: fmt.Sprintf("Aim slightly %s of target and check alignment and clubface at address", opposite),
		Confidence:     math.Min(fraction, e.thresholds.MaxLateralConfidence),
		SampleSize:     total,
	}, true
}

func (e *TendencyEngine) distanceBias(shots []models.Shot) (models.TendencyInsight, bool) {
	var total, short, long int
	for _, shot := range shots {
		miss, ok := shot.Distance()
		if !ok {
			continue
		}
		total++
		switch {
		case miss.IsShort():
			short++
		case miss.IsLong():
			long++
		}
	}
	if total < e.thresholds.MinDistanceSamples {
		return models.TendencyInsight{}, false
	}

	shortFraction := float64(short) / float64(total)
	longFraction := float64(long) / float64(total)

	switch {
	case shortFraction > e.thresholds.ShortBias:
		return models.TendencyInsight{
			Type:           models.InsightDistanceBias,
			Category:       "Distance Control",
			Title:          "Tendency to come up short",
			Description:    fmt.Sprintf("%s of your shots finish short of target", percent(shortFraction)),
			Recommendation: "Take one more club on approach shots",
			Confidence:     shortFraction,
			SampleSize:     total,
		}, true
	case longFraction > e.thresholds.LongBias:
		return models.TendencyInsight{
			Type:           models.InsightDistanceBias,
			Category:       "Distance Control",
			Title:          "Tendency to go long",
			Description:    fmt.Sprintf("%s of your shots finish long of target", percent(longFraction)),
			Recommendation: "Club down or favor a smoother swing when between clubs",
			Confidence:     longFraction,
			SampleSize:     total,
		}, true
	}
	return models.TendencyInsight{}, false
}

func (e *TendencyEngine) teeAccuracy(shots []models.Shot) (models.TendencyInsight, bool) {
	total, hits := countLanding(shots, models.CategoryTee, models.LieFairway)
	if total < e.thresholds.MinTeeSamples {
		return models.TendencyInsight{}, false
	}

	rate := float64(hits) / float64(total)
	switch {
	case rate < e.thresholds.TeeNeedsWork:
		return models.TendencyInsight{
			Type:           models.InsightTeeAccuracy,
			Category:       "Driving",
			Title:          "Driving accuracy needs improvement",
			Description:    fmt.Sprintf("You hit %s of fairways from the tee", percent(rate)),
			Recommendation: "Consider a 3 wood or hybrid off tight tees",
			Confidence:     1 - rate,
			SampleSize:     total,
		}, true
	case rate > e.thresholds.TeeStrength:
		return models.TendencyInsight{
			Type:        models.InsightTeeAccuracy,
			Category:    "Driving",
			Title:       "Reliable off the tee",
			Description: fmt.Sprintf("You hit %s of fairways from the tee", percent(rate)),
			Confidence:  rate,
			SampleSize:  total,
		}, true
	}
	return models.TendencyInsight{}, false
}

func (e *TendencyEngine) approachAccuracy(shots []models.Shot) (models.TendencyInsight, bool) {
	total, hits := countLanding(shots, models.CategoryApproach, models.LieGreen)
	if total < e.thresholds.MinApproachSamples {
		return models.TendencyInsight{}, false
	}

	rate := float64(hits) / float64(total)
	if rate >= e.thresholds.ApproachFocus {
		return models.TendencyInsight{}, false
	}
	return models.TendencyInsight{
		Type:           models.InsightApproachAccuracy,
		Category:       "Approach Play",
		Title:          "Approach play is a focus area",
		Description:    fmt.Sprintf("You hit %s of greens on approach shots", percent(rate)),
		Recommendation: "Aim for the center of the green instead of the flag",
		Confidence:     1 - rate,
		SampleSize:     total,
	}, true
}

func countLanding(shots []models.Shot, category models.ShotCategory, target models.Lie) (total, hits int) {
	for _, shot := range shots {
		if shot.Category != category {
			continue
		}
		total++
		if models.ParseLie(string(shot.EndLie)) == target {
			hits++
		}
	}
	return total, hits
}

func percent(fraction float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(fraction*100)))
}
