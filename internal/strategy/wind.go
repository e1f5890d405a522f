package strategy

import (
	"fmt"
	"math"
	"strings"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// WindDirection is the wind relative to the line of play
type WindDirection string

const (
	WindCalm  WindDirection = "calm"
	WindInto  WindDirection = "into"
	WindDown  WindDirection = "down"
	WindCross WindDirection = "cross"
)

// ParseWindDirection accepts the canonical values plus common golfer phrasing
func ParseWindDirection(raw string) (WindDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "calm", "none":
		return WindCalm, nil
	case "into", "headwind", "head", "against":
		return WindInto, nil
	case "down", "downwind", "tailwind", "helping", "with":
		return WindDown, nil
	case "cross", "crosswind", "left_to_right", "right_to_left", "left-to-right", "right-to-left":
		return WindCross, nil
	}
	return "", fmt.Errorf("unknown wind direction %q", raw)
}

type Wind struct {
	Speed     float64       `json:"speed"`
	Direction WindDirection `json:"direction"`
}

const (
	// windSpeedUnit is the speed that moves one club-step of distance
	windSpeedUnit = 10.0
	// maxWindSteps caps the wind effect
	maxWindSteps     = 2.0
	intoYardsPerStep = 10.0
	downYardsPerStep = 8.0
)

// AdjustForWind returns the club and distance change for a wind condition.
// A negative distance adjustment means the ball will fly shorter.
func AdjustForWind(w Wind) models.WindAdjustment {
	if w.Speed <= 0 {
		return models.WindAdjustment{}
	}
	steps := math.Min(w.Speed/windSpeedUnit, maxWindSteps)

	switch w.Direction {
	case WindInto:
		return models.WindAdjustment{
			ClubAdjustment:     "one more club",
			DistanceAdjustment: -steps * intoYardsPerStep,
		}
	case WindDown:
		return models.WindAdjustment{
			ClubAdjustment:     "one less club",
			DistanceAdjustment: steps * downYardsPerStep,
		}
	case WindCross:
		return models.WindAdjustment{
			AimAdjustment: fmt.Sprintf("aim %.0f yards into the crosswind", math.Round(steps*windSpeedUnit)),
		}
	}
	return models.WindAdjustment{}
}
