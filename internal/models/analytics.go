package models

import "time"

// DistanceTrendPoint is one dated distance sample of a club
type DistanceTrendPoint struct {
	Date     time.Time `json:"date"`
	Distance float64   `json:"distance"`
}

// ClubPerformanceStat summarizes one (club, category) group of shots
type ClubPerformanceStat struct {
	Club            string               `json:"club"`
	Category        ShotCategory         `json:"category"`
	SampleSize      int                  `json:"sample_size"`
	AverageDistance float64              `json:"average_distance"`
	Dispersion      float64              `json:"dispersion"`
	Accuracy        float64              `json:"accuracy"`
	Trends          []DistanceTrendPoint `json:"trends"`
}

// InsightType identifies which detector produced a tendency insight
type InsightType string

const (
	InsightLateralBias      InsightType = "lateral_bias"
	InsightDistanceBias     InsightType = "distance_bias"
	InsightTeeAccuracy      InsightType = "tee_accuracy"
	InsightApproachAccuracy InsightType = "approach_accuracy"
)

// TendencyInsight is a statistically flagged bias in a player's outcomes
type TendencyInsight struct {
	Type           InsightType `json:"type"`
	Category       string      `json:"category"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation,omitempty"`
	Confidence     float64     `json:"confidence"`
	SampleSize     int         `json:"sample_size"`
}

// HeatMapPoint places a shot in normalized dispersion space
type HeatMapPoint struct {
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Club       string       `json:"club"`
	Category   ShotCategory `json:"category"`
	ResultZone ResultZone   `json:"result_zone"`
}

// ClubSuggestion is one ranked club for a situational context
type ClubSuggestion struct {
	Club             string  `json:"club"`
	Score            float64 `json:"score"`
	AdjustedDistance float64 `json:"adjusted_distance"`
	AdjustedAccuracy float64 `json:"adjusted_accuracy"`
	SampleSize       int     `json:"sample_size"`
	Reasoning        string  `json:"reasoning"`
}

// WindAdjustment is the club/aim change recommended for the wind
type WindAdjustment struct {
	ClubAdjustment     string  `json:"club_adjustment,omitempty"`
	DistanceAdjustment float64 `json:"distance_adjustment"`
	AimAdjustment      string  `json:"aim_adjustment,omitempty"`
}

// PressureType is the classified psychological context of a shot
type PressureType string

const (
	PressureScoringOpportunity PressureType = "scoring_opportunity"
	PressureTroubleRecovery    PressureType = "trouble_recovery"
	PressureClosingHole        PressureType = "closing_hole"
	PressureStreakSituation    PressureType = "streak_situation"
	PressureCompetitiveMoment  PressureType = "competitive_moment"
)

// PressureIntensity buckets the combined factor weights
type PressureIntensity string

const (
	IntensityLow     PressureIntensity = "low"
	IntensityMedium  PressureIntensity = "medium"
	IntensityHigh    PressureIntensity = "high"
	IntensityExtreme PressureIntensity = "extreme"
)

// IsHigh is true for high and extreme intensity
func (i PressureIntensity) IsHigh() bool {
	return i == IntensityHigh || i == IntensityExtreme
}

// PressureFactor contributes a weight in [1, 10] to a situation's intensity
type PressureFactor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}

type PressureSituation struct {
	Type        PressureType      `json:"type"`
	Intensity   PressureIntensity `json:"intensity"`
	Score       float64           `json:"score"`
	Factors     []PressureFactor  `json:"factors"`
	Description string            `json:"description"`
}

// TrendDirection compares the older and newer halves of a sample
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// PressurePerformance summarizes historical results in matching situations
type PressurePerformance struct {
	SampleSize       int            `json:"sample_size"`
	SuccessRate      float64        `json:"success_rate"`
	BaselineRate     float64        `json:"baseline_rate"`
	DeltaVsBaseline  float64        `json:"delta_vs_baseline"`
	Strengths        []string       `json:"strengths"`
	Weaknesses       []string       `json:"weaknesses"`
	ImprovementTrend TrendDirection `json:"improvement_trend"`
}

type PressureAnalysis struct {
	Situation   PressureSituation    `json:"situation"`
	Performance *PressurePerformance `json:"performance,omitempty"`
	Degraded    bool                 `json:"-"`
}

// Strategy is the course-management approach recommended for a shot
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyAggressive   Strategy = "aggressive"
	StrategyLayup        Strategy = "layup"
)

type RiskAssessment struct {
	RiskScore          float64 `json:"risk_score"`
	SuccessProbability float64 `json:"success_probability"`
	WorstCase          string  `json:"worst_case"`
	BestCase           string  `json:"best_case"`
}

type StrategyAlternative struct {
	Strategy Strategy `json:"strategy"`
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
}

// ShotDecision is the combined strategy recommendation for the current shot
type ShotDecision struct {
	Strategy    Strategy            `json:"strategy"`
	Confidence  float64             `json:"confidence"`
	Reasoning   []string            `json:"reasoning"`
	Risk        RiskAssessment      `json:"risk"`
	Pressure    PressureIntensity   `json:"pressure"`
	Alternative StrategyAlternative `json:"alternative"`
	Degraded    bool                `json:"-"`
}
