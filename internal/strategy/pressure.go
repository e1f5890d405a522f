package strategy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

const (
	closePuttDistance     = 6.0
	closeApproachDistance = 15.0
	shortPuttDistance     = 3.0
	lateShortGameShot     = 3
	closingHoleStart      = 15
	finalHole             = 18
	streakLength          = 3
	longStreakLength      = 4
	longRecoveryDistance  = 150.0

	maxTypeFactors       = 4
	roundHoles           = 18
	milestoneMargin      = 2.0
	MinPressureSamples   = 8
	trendThresholdPoints = 10.0
	strengthDelta        = 0.1
	clubStrengthRate     = 0.7
	clubWeaknessRate     = 0.4
	minClubSituation     = 3

	meanWeight       = 0.6
	maxWeight        = 0.4
	extremeThreshold = 8.5
	highThreshold    = 7.0
	mediumThreshold  = 5.0
)

// PressureClassifier classifies the situation of a shot and summarizes how the
// player has performed in similar situations
type PressureClassifier struct {
	tables ReferenceTables
}

func NewPressureClassifier(tables ReferenceTables) *PressureClassifier {
	return &PressureClassifier{tables: tables.clone()}
}

// Analyze classifies the shot and attaches a performance summary when at least
// MinPressureSamples historical shots match the situation
func (p *PressureClassifier) Analyze(ctx ShotContext, history []models.Shot, roundTotals []int) models.PressureAnalysis {
	ctx = ctx.normalized()
	situation := p.Classify(ctx, roundTotals)

	analysis := models.PressureAnalysis{Situation: situation}
	if perf, ok := p.performance(situation.Type, ctx, history); ok {
		analysis.Performance = &perf
	}
	return analysis
}

// Classify returns the situation type, its factors and intensity
func (p *PressureClassifier) Classify(ctx ShotContext, roundTotals []int) models.PressureSituation {
	ctx = ctx.normalized()
	pressureType := classifyType(ctx)

	factors := p.typeFactors(pressureType, ctx)
	if len(factors) > maxTypeFactors {
		factors = factors[:maxTypeFactors]
	}
	factors = append(factors, p.scoreContextFactors(ctx, roundTotals)...)

	score := intensityScore(factors)
	return models.PressureSituation{
		Type:        pressureType,
		Intensity:   intensityFor(score),
		Score:       score,
		Factors:     factors,
		Description: describeSituation(pressureType, factors),
	}
}

func classifyType(ctx ShotContext) models.PressureType {
	switch {
	case isScoringOpportunity(ctx.Category, ctx.DistanceToPin, ctx.ShotNumber):
		return models.PressureScoringOpportunity
	case ctx.Lie.IsTrouble():
		return models.PressureTroubleRecovery
	case ctx.HoleNumber >= closingHoleStart:
		return models.PressureClosingHole
	case streakOf(ctx.RecentResults) > 0:
		return models.PressureStreakSituation
	}
	return models.PressureCompetitiveMoment
}

func isScoringOpportunity(category models.ShotCategory, distance float64, shotNumber int) bool {
	switch category {
	case models.CategoryPutt:
		return distance <= closePuttDistance
	case models.CategoryApproach:
		return distance <= closeApproachDistance
	case models.CategoryAroundGreen:
		return shotNumber >= lateShortGameShot
	}
	return false
}

// streakOf returns the length of the run of identical results ending the slice,
// or 0 when that run is shorter than streakLength
func streakOf(results []models.ResultZone) int {
	if len(results) == 0 {
		return 0
	}
	last := results[len(results)-1]
	n := 0
	for i := len(results) - 1; i >= 0 && results[i] == last; i-- {
		n++
	}
	if n < streakLength {
		return 0
	}
	return n
}

func (p *PressureClassifier) factor(name, description string) models.PressureFactor {
	return models.PressureFactor{Name: name, Description: description, Weight: p.tables.weight(name)}
}

func (p *PressureClassifier) typeFactors(t models.PressureType, ctx ShotContext) []models.PressureFactor {
	var factors []models.PressureFactor
	switch t {
	case models.PressureScoringOpportunity:
		factors = p.scoringFactors(ctx)
	case models.PressureTroubleRecovery:
		factors = p.troubleFactors(ctx)
	case models.PressureClosingHole:
		factors = p.closingFactors(ctx)
	case models.PressureStreakSituation:
		factors = p.streakFactors(ctx)
	default:
		factors = []models.PressureFactor{p.factor(FactorCompetitive, "Every shot counts toward the round score")}
	}
	if ctx.HazardPresent {
		factors = append(factors, p.factor(FactorHazard, "Hazard in play"))
	}
	return factors
}

func (p *PressureClassifier) scoringFactors(ctx ShotContext) []models.PressureFactor {
	var factors []models.PressureFactor
	switch ctx.Category {
	case models.CategoryPutt:
		if ctx.DistanceToPin <= shortPuttDistance {
			factors = append(factors, p.factor(FactorShortPutt, fmt.Sprintf("Short putt of %.0f feet", ctx.DistanceToPin)))
		}
		if ctx.Par > 0 {
			switch ctx.ShotNumber {
			case ctx.Par - 1:
				factors = append(factors, p.factor(FactorBirdiePutt, "Putt for birdie"))
			case ctx.Par:
				factors = append(factors, p.factor(FactorParPutt, "Putt for par"))
			case ctx.Par + 1:
				factors = append(factors, p.factor(FactorBogeyPutt, "Putt for bogey"))
			}
		}
		if len(factors) == 0 {
			factors = append(factors, p.factor(FactorParPutt, fmt.Sprintf("Makeable putt of %.0f feet", ctx.DistanceToPin)))
		}
	case models.CategoryApproach:
		factors = append(factors, p.factor(FactorCloseApproach, fmt.Sprintf("Close approach from %.0f yards", ctx.DistanceToPin)))
	case models.CategoryAroundGreen:
		factors = append(factors, p.factor(FactorUpAndDown, "Needs an up and down"))
		if ctx.Par > 0 && ctx.ShotNumber >= ctx.Par-1 {
			factors = append(factors, p.factor(FactorParSave, "Chance to save par"))
		}
	}
	return factors
}

func (p *PressureClassifier) troubleFactors(ctx ShotContext) []models.PressureFactor {
	var factors []models.PressureFactor
	switch {
	case ctx.Lie == models.LieRecovery:
		factors = append(factors, p.factor(FactorRecovery, "Blocked out, recovery shot needed"))
	case ctx.Lie == models.LieHeavyRough:
		factors = append(factors, p.factor(FactorHeavyRough, "Ball sitting down in heavy rough"))
	case ctx.Lie.IsBunker():
		factors = append(factors, p.factor(FactorBunker, fmt.Sprintf("Playing from the %s", ctx.Lie.Label())))
	default:
		factors = append(factors, p.factor(FactorRough, "Playing from the rough"))
	}
	if ctx.DistanceToPin > longRecoveryDistance {
		factors = append(factors, p.factor(FactorLongRecovery, fmt.Sprintf("Long recovery of %.0f yards", ctx.DistanceToPin)))
	}
	if ctx.HoleNumber >= closingHoleStart {
		factors = append(factors, p.closingStretch(ctx.HoleNumber))
	}
	return factors
}

func (p *PressureClassifier) closingFactors(ctx ShotContext) []models.PressureFactor {
	factors := []models.PressureFactor{p.closingStretch(ctx.HoleNumber)}
	if ctx.HoleNumber >= finalHole {
		factors = append(factors, p.factor(FactorFinalHole, "Final hole of the round"))
	}
	return factors
}

// closingStretch grows one point per hole from the start of the closing stretch
func (p *PressureClassifier) closingStretch(hole int) models.PressureFactor {
	f := p.factor(FactorClosingStretch, fmt.Sprintf("Hole %d of the closing stretch", hole))
	f.Weight = clampWeight(f.Weight + hole - closingHoleStart)
	return f
}

func (p *PressureClassifier) streakFactors(ctx ShotContext) []models.PressureFactor {
	n := streakOf(ctx.RecentResults)
	last := ctx.RecentResults[len(ctx.RecentResults)-1]

	var f models.PressureFactor
	if last.IsPositive() {
		f = p.factor(FactorHotStreak, fmt.Sprintf("%d %s results in a row", n, strings.ToLower(string(last))))
	} else {
		f = p.factor(FactorColdStreak, fmt.Sprintf("%d %s results in a row", n, strings.ToLower(string(last))))
	}
	if n >= longStreakLength {
		f.Weight = clampWeight(f.Weight + 1)
	}
	return []models.PressureFactor{f}
}

// scoreContextFactors projects the current pace linearly over the remaining holes
func (p *PressureClassifier) scoreContextFactors(ctx ShotContext, roundTotals []int) []models.PressureFactor {
	if ctx.HolesPlayed <= 0 || ctx.CurrentScore <= 0 || ctx.HolesPlayed >= roundHoles {
		return nil
	}
	projected := float64(ctx.CurrentScore) / float64(ctx.HolesPlayed) * roundHoles

	var factors []models.PressureFactor
	if len(roundTotals) > 0 {
		best := roundTotals[0]
		for _, total := range roundTotals[1:] {
			if total < best {
				best = total
			}
		}
		if projected < float64(best) {
			factors = append(factors, p.factor(FactorPersonalBestPace,
				fmt.Sprintf("On pace for %.0f, under your best of %d", projected, best)))
		}
	}
	for _, milestone := range p.tables.ScoreMilestones {
		if math.Abs(projected-float64(milestone)) <= milestoneMargin {
			factors = append(factors, p.factor(FactorMilestonePace,
				fmt.Sprintf("On pace for %.0f, chasing a score under %d", projected, milestone)))
			break
		}
	}
	return factors
}

func intensityScore(factors []models.PressureFactor) float64 {
	if len(factors) == 0 {
		return 0
	}
	weights := make([]float64, len(factors))
	for i, f := range factors {
		weights[i] = float64(f.Weight)
	}
	return meanWeight*stat.Mean(weights, nil) + maxWeight*floats.Max(weights)
}

func intensityFor(score float64) models.PressureIntensity {
	switch {
	case score >= extremeThreshold:
		return models.IntensityExtreme
	case score >= highThreshold:
		return models.IntensityHigh
	case score >= mediumThreshold:
		return models.IntensityMedium
	}
	return models.IntensityLow
}

func describeSituation(t models.PressureType, factors []models.PressureFactor) string {
	label := strings.ReplaceAll(string(t), "_", " ")
	if len(factors) == 0 {
		return label
	}
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Description
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(names, "; "))
}

// matchesSituation is the historical filter for a pressure type
func matchesSituation(t models.PressureType, ctx ShotContext, shot models.Shot) bool {
	switch t {
	case models.PressureScoringOpportunity:
		return isScoringOpportunity(shot.Category, shot.StartDistanceToHole, shot.ShotNumber)
	case models.PressureTroubleRecovery:
		return models.ParseLie(string(shot.StartLie)).IsTrouble()
	case models.PressureClosingHole:
		return shot.HoleNumber >= closingHoleStart
	}
	return shot.Category == ctx.Category
}

func (p *PressureClassifier) performance(t models.PressureType, ctx ShotContext, history []models.Shot) (models.PressurePerformance, bool) {
	var matches []models.Shot
	var baselineTotal, baselineHits int
	for _, shot := range history {
		if shot.Category == ctx.Category {
			baselineTotal++
			if successful(shot) {
				baselineHits++
			}
		}
		if matchesSituation(t, ctx, shot) {
			matches = append(matches, shot)
		}
	}
	if len(matches) < MinPressureSamples {
		return models.PressurePerformance{}, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	success := successRate(matches)
	var baseline float64
	if baselineTotal > 0 {
		baseline = float64(baselineHits) / float64(baselineTotal)
	}
	delta := success - baseline

	perf := models.PressurePerformance{
		SampleSize:       len(matches),
		SuccessRate:      success,
		BaselineRate:     baseline,
		DeltaVsBaseline:  delta,
		Strengths:        []string{},
		Weaknesses:       []string{},
		ImprovementTrend: improvementTrend(matches),
	}

	label := strings.ReplaceAll(string(t), "_", " ")
	switch {
	case delta >= strengthDelta:
		perf.Strengths = append(perf.Strengths, fmt.Sprintf("Performs %d points above baseline in %s situations", points(delta), label))
	case delta <= -strengthDelta:
		perf.Weaknesses = append(perf.Weaknesses, fmt.Sprintf("Performs %d points below baseline in %s situations", points(-delta), label))
	}

	byClub := make(map[string][]models.Shot)
	for _, shot := range matches {
		if shot.Club != "" {
			byClub[shot.Club] = append(byClub[shot.Club], shot)
		}
	}
	clubs := make([]string, 0, len(byClub))
	for club := range byClub {
		clubs = append(clubs, club)
	}
	sort.Strings(clubs)
	for _, club := range clubs {
		shots := byClub[club]
		if len(shots) < minClubSituation {
			continue
		}
		rate := successRate(shots)
		switch {
		case rate >= clubStrengthRate:
			perf.Strengths = append(perf.Strengths, fmt.Sprintf("Reliable with %s (%d%%)", club, points(rate)))
		case rate <= clubWeaknessRate:
			perf.Weaknesses = append(perf.Weaknesses, fmt.Sprintf("Struggles with %s (%d%%)", club, points(rate)))
		}
	}
	return perf, true
}

func successRate(shots []models.Shot) float64 {
	if len(shots) == 0 {
		return 0
	}
	hits := 0
	for _, shot := range shots {
		if successful(shot) {
			hits++
		}
	}
	return float64(hits) / float64(len(shots))
}

// improvementTrend compares the older half of a chronological sample with the newer half
func improvementTrend(chronological []models.Shot) models.TrendDirection {
	half := len(chronological) / 2
	if half == 0 {
		return models.TrendStable
	}
	diff := (successRate(chronological[half:]) - successRate(chronological[:half])) * 100
	switch {
	case diff >= trendThresholdPoints:
		return models.TrendImproving
	case diff <= -trendThresholdPoints:
		return models.TrendDeclining
	}
	return models.TrendStable
}

func points(fraction float64) int {
	return int(math.Round(fraction * 100))
}

func clampWeight(w int) int {
	if w < 1 {
		return 1
	}
	if w > 10 {
		return 10
	}
	return w
}
