package strategy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

const (
	DistanceMatchWeight   = 0.6
	AccuracyWeight        = 0.3
	ReliabilityWeight     = 0.1
	DistanceMatchWindow   = 50.0
	ReliableSampleSize    = 20.0
	MinSuggestionScore    = 0.1
	MaxSuggestions        = 3
	idealDistanceMargin   = 5.0
	goodDistanceMargin    = 15.0
	highAccuracyThreshold = 0.7
	fairAccuracyThreshold = 0.5
)

var (
	teeClubs         = []string{ClubDriver, Club3Wood, Club5Wood, ClubHybrid}
	aroundGreenClubs = []string{ClubPitchingWedge, ClubSandWedge, ClubLobWedge, Club9Iron}
	puttClubs        = []string{ClubPutter}
)

type clubCandidate struct {
	club       string
	distance   float64
	accuracy   float64
	sampleSize int
}

// ClubSuggester ranks clubs for a shot from the player's club statistics
type ClubSuggester struct {
	tables ReferenceTables
}

func NewClubSuggester(tables ReferenceTables) *ClubSuggester {
	return &ClubSuggester{tables: tables.clone()}
}

// Suggest returns up to MaxSuggestions clubs, best first. Reference priors are
// used when stats is empty. Equal inputs always produce equal output.
func (s *ClubSuggester) Suggest(ctx ShotContext, stats []models.ClubPerformanceStat) []models.ClubSuggestion {
	ctx = ctx.normalized()
	multiplier := s.tables.lieMultiplier(ctx.Lie)

	var windDelta float64
	if ctx.Wind != nil {
		windDelta = AdjustForWind(*ctx.Wind).DistanceAdjustment
	}

	suggestions := make([]models.ClubSuggestion, 0, MaxSuggestions)
	for _, c := range s.candidates(stats) {
		if !clubFitsCategory(c.club, ctx.Category) {
			continue
		}

		adjustedDistance := c.distance*multiplier.Distance + windDelta
		adjustedAccuracy := c.accuracy * multiplier.Accuracy
		distanceMatch := math.Max(0, 1-math.Abs(adjustedDistance-ctx.DistanceToPin)/DistanceMatchWindow)
		reliability := math.Min(1, float64(c.sampleSize)/ReliableSampleSize)

		score := DistanceMatchWeight*distanceMatch + AccuracyWeight*adjustedAccuracy + ReliabilityWeight*reliability
		if score <= MinSuggestionScore {
			continue
		}

		suggestions = append(suggestions, models.ClubSuggestion{
			Club:             c.club,
			Score:            score,
			AdjustedDistance: adjustedDistance,
			AdjustedAccuracy: adjustedAccuracy,
			SampleSize:       c.sampleSize,
			Reasoning:        reasoning(c, ctx, adjustedDistance, adjustedAccuracy, multiplier),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Club < suggestions[j].Club
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// candidates keeps one entry per club: the stat group with the most samples
func (s *ClubSuggester) candidates(stats []models.ClubPerformanceStat) []clubCandidate {
	if len(stats) == 0 {
		out := make([]clubCandidate, len(s.tables.ClubPriors))
		for i, p := range s.tables.ClubPriors {
			out[i] = clubCandidate{club: p.Club, distance: p.Distance, accuracy: p.Accuracy}
		}
		return out
	}

	best := make(map[string]models.ClubPerformanceStat, len(stats))
	for _, st := range stats {
		if cur, ok := best[st.Club]; !ok || st.SampleSize > cur.SampleSize {
			best[st.Club] = st
		}
	}
	out := make([]clubCandidate, 0, len(best))
	for club, st := range best {
		out = append(out, clubCandidate{
			club:       club,
			distance:   st.AverageDistance,
			accuracy:   st.Accuracy,
			sampleSize: st.SampleSize,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].club < out[j].club })
	return out
}

func clubFitsCategory(club string, category models.ShotCategory) bool {
	switch category {
	case models.CategoryPutt:
		return contains(puttClubs, club)
	case models.CategoryTee:
		return contains(teeClubs, club)
	case models.CategoryAroundGreen:
		return contains(aroundGreenClubs, club)
	default:
		return club != ClubDriver && club != ClubPutter
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func reasoning(c clubCandidate, ctx ShotContext, distance, accuracy float64, m LieMultiplier) string {
	parts := make([]string, 0, 4)

	gap := distance - ctx.DistanceToPin
	switch {
	case math.Abs(gap) <= idealDistanceMargin:
		parts = append(parts, fmt.Sprintf("Ideal distance match (%.0f yds)", distance))
	case math.Abs(gap) <= goodDistanceMargin:
		parts = append(parts, fmt.Sprintf("Good distance match (%.0f yds)", distance))
	case gap < 0:
		parts = append(parts, fmt.Sprintf("Comes up %.0f yds short of the target", -gap))
	default:
		parts = append(parts, fmt.Sprintf("Carries %.0f yds past the target", gap))
	}

	pct := int(math.Round(accuracy * 100))
	switch {
	case accuracy >= highAccuracyThreshold:
		parts = append(parts, fmt.Sprintf("high accuracy (%d%%)", pct))
	case accuracy >= fairAccuracyThreshold:
		parts = append(parts, fmt.Sprintf("moderate accuracy (%d%%)", pct))
	default:
		parts = append(parts, fmt.Sprintf("low accuracy (%d%%)", pct))
	}

	if m.Distance != 1 || m.Accuracy != 1 {
		parts = append(parts, fmt.Sprintf("adjusted for %s lie", ctx.Lie.Label()))
	}

	if c.sampleSize == 0 {
		parts = append(parts, "based on reference averages")
	} else {
		parts = append(parts, fmt.Sprintf("from %d of your shots", c.sampleSize))
	}
	return strings.Join(parts, ", ")
}
