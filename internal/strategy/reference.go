package strategy

import (
	"github.com/stitts-dev/shot-analytics/internal/analytics"
	"github.com/stitts-dev/shot-analytics/internal/models"
)

// Club names used by the reference tables and category filters
const (
	ClubDriver        = "Driver"
	Club3Wood         = "3 Wood"
	Club5Wood         = "5 Wood"
	ClubHybrid        = "Hybrid"
	Club4Iron         = "4 Iron"
	Club5Iron         = "5 Iron"
	Club6Iron         = "6 Iron"
	Club7Iron         = "7 Iron"
	Club8Iron         = "8 Iron"
	Club9Iron         = "9 Iron"
	ClubPitchingWedge = "Pitching Wedge"
	ClubSandWedge     = "Sand Wedge"
	ClubLobWedge      = "Lob Wedge"
	ClubPutter        = "Putter"
)

// LieMultiplier scales a club's distance and accuracy for the lie it is played from
type LieMultiplier struct {
	Distance float64
	Accuracy float64
}

// ClubPrior is a reference club average used when a player has no history
type ClubPrior struct {
	Club     string
	Distance float64
	Accuracy float64
}

// Pressure factor names. Their weights live in ReferenceTables.PressureWeights.
const (
	FactorShortPutt        = "short_putt"
	FactorBirdiePutt       = "birdie_putt"
	FactorParPutt          = "par_putt"
	FactorBogeyPutt        = "bogey_putt"
	FactorCloseApproach    = "close_approach"
	FactorUpAndDown        = "up_and_down"
	FactorParSave          = "par_save"
	FactorHeavyRough       = "heavy_rough"
	FactorBunker           = "bunker"
	FactorRough            = "rough"
	FactorRecovery         = "recovery"
	FactorLongRecovery     = "long_recovery"
	FactorHazard           = "hazard"
	FactorClosingStretch   = "closing_stretch"
	FactorFinalHole        = "final_hole"
	FactorHotStreak        = "hot_streak"
	FactorColdStreak       = "cold_streak"
	FactorCompetitive      = "competitive_round"
	FactorPersonalBestPace = "personal_best_pace"
	FactorMilestonePace    = "milestone_pace"
)

// StrategyTradeoff lists the pros and cons of a strategy
type StrategyTradeoff struct {
	Pros []string
	Cons []string
}

// ReferenceTables holds the fixed heuristics of the analytics and strategy
// engines. Engines copy the tables at construction so callers cannot mutate
// them afterwards.
type ReferenceTables struct {
	LieMultipliers    map[models.Lie]LieMultiplier
	ClubPriors        []ClubPrior
	PressureWeights   map[string]int
	ScoreMilestones   []int
	StrategyTradeoffs map[models.Strategy]StrategyTradeoff
	LateralOffsets    map[models.LateralMiss]float64
}

// DefaultReferenceTables returns a fresh copy of the production tables
func DefaultReferenceTables() ReferenceTables {
	return ReferenceTables{
		LieMultipliers: map[models.Lie]LieMultiplier{
			models.LieTeeBox:          {Distance: 1.0, Accuracy: 1.0},
			models.LieFairway:         {Distance: 1.0, Accuracy: 1.0},
			models.LieGreen:           {Distance: 1.0, Accuracy: 1.0},
			models.LieFringe:          {Distance: 0.95, Accuracy: 0.95},
			models.LieRough:           {Distance: 0.9, Accuracy: 0.85},
			models.LieHeavyRough:      {Distance: 0.75, Accuracy: 0.70},
			models.LieFairwayBunker:   {Distance: 0.85, Accuracy: 0.75},
			models.LieGreensideBunker: {Distance: 0.70, Accuracy: 0.60},
			models.LieRecovery:        {Distance: 0.6, Accuracy: 0.5},
			models.LieHazard:          {Distance: 0.5, Accuracy: 0.4},
		},
		ClubPriors: []ClubPrior{
			{ClubDriver, 230, 0.55},
			{Club3Wood, 210, 0.60},
			{Club5Wood, 195, 0.62},
			{ClubHybrid, 185, 0.65},
			{Club4Iron, 175, 0.60},
			{Club5Iron, 165, 0.62},
			{Club6Iron, 155, 0.65},
			{Club7Iron, 145, 0.68},
			{Club8Iron, 135, 0.70},
			{Club9Iron, 125, 0.72},
			{ClubPitchingWedge, 110, 0.75},
			{ClubSandWedge, 90, 0.75},
			{ClubLobWedge, 70, 0.72},
			{ClubPutter, 20, 0.80},
		},
		PressureWeights: map[string]int{
			FactorShortPutt:        8,
			FactorBirdiePutt:       7,
			FactorParPutt:          6,
			FactorBogeyPutt:        5,
			FactorCloseApproach:    6,
			FactorUpAndDown:        6,
			FactorParSave:          7,
			FactorHeavyRough:       7,
			FactorBunker:           6,
			FactorRough:            5,
			FactorRecovery:         8,
			FactorLongRecovery:     6,
			FactorHazard:           7,
			FactorClosingStretch:   5,
			FactorFinalHole:        9,
			FactorHotStreak:        6,
			FactorColdStreak:       7,
			FactorCompetitive:      4,
			FactorPersonalBestPace: 9,
			FactorMilestonePace:    7,
		},
		// round totals players chase, lowest first
		ScoreMilestones: []int{70, 80, 90, 100},
		StrategyTradeoffs: map[models.Strategy]StrategyTradeoff{
			models.StrategyConservative: {
				Pros: []string{"Keeps big numbers off the card", "Plays to the widest target"},
				Cons: []string{"Fewer birdie chances", "Leaves longer approach shots"},
			},
			models.StrategyAggressive: {
				Pros: []string{"Creates scoring chances", "Shorter next shot"},
				Cons: []string{"Brings hazards and penalties into play", "Bigger miss when it goes wrong"},
			},
			models.StrategyLayup: {
				Pros: []string{"Leaves a preferred yardage", "Avoids the long forced carry"},
				Cons: []string{"Gives up the chance to reach the green", "Adds a shot on most holes"},
			},
		},
		LateralOffsets: analytics.DefaultLateralOffsets(),
	}
}

func (t ReferenceTables) clone() ReferenceTables {
	out := ReferenceTables{
		LieMultipliers:    make(map[models.Lie]LieMultiplier, len(t.LieMultipliers)),
		ClubPriors:        append([]ClubPrior(nil), t.ClubPriors...),
		PressureWeights:   make(map[string]int, len(t.PressureWeights)),
		ScoreMilestones:   append([]int(nil), t.ScoreMilestones...),
		StrategyTradeoffs: make(map[models.Strategy]StrategyTradeoff, len(t.StrategyTradeoffs)),
		LateralOffsets:    make(map[models.LateralMiss]float64, len(t.LateralOffsets)),
	}
	for k, v := range t.LieMultipliers {
		out.LieMultipliers[k] = v
	}
	for k, v := range t.PressureWeights {
		out.PressureWeights[k] = v
	}
	for k, v := range t.StrategyTradeoffs {
		out.StrategyTradeoffs[k] = StrategyTradeoff{
			Pros: append([]string(nil), v.Pros...),
			Cons: append([]string(nil), v.Cons...),
		}
	}
	for k, v := range t.LateralOffsets {
		out.LateralOffsets[k] = v
	}
	return out
}

// lieMultiplier defaults to no adjustment for unlisted lies
func (t ReferenceTables) lieMultiplier(lie models.Lie) LieMultiplier {
	if m, ok := t.LieMultipliers[models.ParseLie(string(lie))]; ok {
		return m
	}
	return LieMultiplier{Distance: 1, Accuracy: 1}
}

// weight returns the table weight clamped to [1, 10]
func (t ReferenceTables) weight(factor string) int {
	w, ok := t.PressureWeights[factor]
	if !ok {
		w = 5
	}
	if w < 1 {
		return 1
	}
	if w > 10 {
		return 10
	}
	return w
}
