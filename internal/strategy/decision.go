package strategy

import (
	"fmt"
	"math"

	"github.com/stitts-dev/shot-analytics/internal/analytics"
	"github.com/stitts-dev/shot-analytics/internal/models"
)

// Risk weights are additive and the total is clamped to [0, 1]
const (
	RiskLongDistance     = 0.25
	RiskDifficultLie     = 0.2
	RiskHazard           = 0.25
	RiskHighWind         = 0.15
	RiskEarlyRound       = 0.1
	longShotDistance     = 200.0
	highWindSpeed        = 15.0
	earlyRoundHoles      = 3
	layupShotNumber      = 2
	layupMismatch        = 50.0
	highRiskScore        = 0.6
	lowRiskScore         = 0.3
	aggressiveConfidence = 0.75
	defaultConfidence    = 0.7
	clutchThreshold      = 0.7
	chasingScoreToPar    = 3
	protectScoreToPar    = -1
	minTendencyShots     = 5
	strategyShift        = 0.10
	minProbability       = 0.05
	maxProbability       = 0.95
)

// DecisionEngine combines risk, tendency, pressure and pace into a strategy call
type DecisionEngine struct {
	tables   ReferenceTables
	pressure *PressureClassifier
}

func NewDecisionEngine(tables ReferenceTables) *DecisionEngine {
	tables = tables.clone()
	return &DecisionEngine{
		tables:   tables,
		pressure: &PressureClassifier{tables: tables},
	}
}

// Decide applies the rules in order. Later rules override earlier ones.
func (e *DecisionEngine) Decide(ctx ShotContext, history []models.Shot, roundTotals []int) models.ShotDecision {
	ctx = ctx.normalized()

	risk := RiskScore(ctx)
	pressure := e.pressure.Analyze(ctx, history, roundTotals)

	confidence := defaultConfidence
	reasoning := make([]string, 0, 6)
	if rate, n, ok := tendencyRate(ctx, history); ok {
		confidence = rate
		reasoning = append(reasoning, fmt.Sprintf("%d%% success from %d similar shots", points(rate), n))
	}

	strategy := models.StrategyConservative
	reasoning = append(reasoning, "Default to the percentage play")

	if risk > highRiskScore {
		strategy = models.StrategyConservative
		reasoning = append(reasoning, fmt.Sprintf("High risk shot (%.2f)", risk))
	}
	if risk < lowRiskScore && confidence > aggressiveConfidence {
		strategy = models.StrategyAggressive
		reasoning = append(reasoning, "Low risk and a reliable record allow attacking")
	}

	clutch := defaultConfidence
	if pressure.Performance != nil {
		clutch = pressure.Performance.SuccessRate
	}
	if pressure.Situation.Intensity.IsHigh() && clutch < clutchThreshold {
		strategy = models.StrategyConservative
		reasoning = append(reasoning, fmt.Sprintf("%s pressure and %d%% success under it", pressure.Situation.Intensity, points(clutch)))
	}

	if ctx.DistanceToPin > longShotDistance && ctx.ShotNumber == layupShotNumber {
		if gap := ctx.DistanceToPin - e.longestLayupClub(history); gap > layupMismatch {
			strategy = models.StrategyLayup
			reasoning = append(reasoning, fmt.Sprintf("Green is %.0f yards beyond your longest fairway club", gap))
		}
	}

	switch {
	case ctx.ScoreToPar >= chasingScoreToPar:
		strategy = models.StrategyAggressive
		reasoning = append(reasoning, fmt.Sprintf("+%d to par, shots need to be won back", ctx.ScoreToPar))
	case ctx.ScoreToPar <= protectScoreToPar:
		strategy = models.StrategyConservative
		reasoning = append(reasoning, fmt.Sprintf("%d to par, protect the score", ctx.ScoreToPar))
	}

	return models.ShotDecision{
		Strategy:    strategy,
		Confidence:  confidence,
		Reasoning:   reasoning,
		Risk:        assessRisk(strategy, risk, confidence, ctx),
		Pressure:    pressure.Situation.Intensity,
		Alternative: e.alternativeTo(strategy),
	}
}

// RiskScore sums the weights of every risk present in the context
func RiskScore(ctx ShotContext) float64 {
	lie := models.ParseLie(string(ctx.Lie))

	var risk float64
	if ctx.DistanceToPin > longShotDistance {
		risk += RiskLongDistance
	}
	if lie.IsTrouble() || lie == models.LieHazard {
		risk += RiskDifficultLie
	}
	if ctx.HazardPresent {
		risk += RiskHazard
	}
	if ctx.Wind != nil && ctx.Wind.Speed > highWindSpeed {
		risk += RiskHighWind
	}
	if ctx.HoleNumber > 0 && ctx.HoleNumber <= earlyRoundHoles {
		risk += RiskEarlyRound
	}
	return math.Max(0, math.Min(1, risk))
}

// tendencyRate is the success rate of historical shots of the same category and lie
func tendencyRate(ctx ShotContext, history []models.Shot) (float64, int, bool) {
	var matched []models.Shot
	for _, shot := range history {
		if shot.Category == ctx.Category && models.ParseLie(string(shot.StartLie)) == ctx.Lie {
			matched = append(matched, shot)
		}
	}
	if len(matched) < minTendencyShots {
		return 0, 0, false
	}
	return successRate(matched), len(matched), true
}

// longestLayupClub is the longest average carry among fairway clubs, excluding
// driver and putter. Reference priors cover players without history.
func (e *DecisionEngine) longestLayupClub(history []models.Shot) float64 {
	var longest float64
	for _, st := range analytics.ClubPerformance(history) {
		if st.Club == ClubDriver || st.Club == ClubPutter {
			continue
		}
		longest = math.Max(longest, st.AverageDistance)
	}
	if longest > 0 {
		return longest
	}
	for _, p := range e.tables.ClubPriors {
		if p.Club == ClubDriver || p.Club == ClubPutter {
			continue
		}
		longest = math.Max(longest, p.Distance)
	}
	return longest
}

func assessRisk(strategy models.Strategy, risk, confidence float64, ctx ShotContext) models.RiskAssessment {
	probability := confidence
	switch strategy {
	case models.StrategyAggressive:
		probability -= strategyShift
	default:
		probability += strategyShift
	}
	probability = math.Max(minProbability, math.Min(maxProbability, probability))

	assessment := models.RiskAssessment{
		RiskScore:          risk,
		SuccessProbability: probability,
	}
	switch strategy {
	case models.StrategyAggressive:
		assessment.BestCase = "Sets up a birdie chance"
		assessment.WorstCase = "Miss in a bad spot costs a stroke or more"
		if ctx.HazardPresent {
			assessment.WorstCase = "Finds the hazard, penalty stroke and a double bogey in play"
		}
	case models.StrategyLayup:
		assessment.BestCase = "Wedge into the green from a full-swing yardage"
		assessment.WorstCase = "Par becomes the ceiling"
	default:
		assessment.BestCase = "Safe position with a straightforward next shot"
		assessment.WorstCase = "Longer next shot, bogey at worst"
	}
	return assessment
}

// alternativeTo returns the opposite strategy. Layup is answered with going for it.
func (e *DecisionEngine) alternativeTo(strategy models.Strategy) models.StrategyAlternative {
	opposite := models.StrategyConservative
	if strategy != models.StrategyAggressive {
		opposite = models.StrategyAggressive
	}
	t := e.tables.StrategyTradeoffs[opposite]
	return models.StrategyAlternative{
		Strategy: opposite,
		Pros:     append([]string(nil), t.Pros...),
		Cons:     append([]string(nil), t.Cons...),
	}
}
