package strategy

import (
	"github.com/stitts-dev/shot-analytics/internal/models"
)

// ShotContext describes the shot about to be played. Club suggestions use the
// distance, lie, category and wind; pressure and decision use the rest.
type ShotContext struct {
	UserID        string              `json:"user_id"`
	HoleNumber    int                 `json:"hole_number"`
	Par           int                 `json:"par"`
	ShotNumber    int                 `json:"shot_number"`
	Category      models.ShotCategory `json:"category"`
	Lie           models.Lie          `json:"lie"`
	DistanceToPin float64             `json:"distance_to_pin"`
	HazardPresent bool                `json:"hazard_present"`
	Wind          *Wind               `json:"wind,omitempty"`
	// CurrentScore is strokes taken in the round so far over HolesPlayed holes
	CurrentScore  int                 `json:"current_score"`
	HolesPlayed   int                 `json:"holes_played"`
	ScoreToPar    int                 `json:"score_to_par"`
	RecentResults []models.ResultZone `json:"recent_results,omitempty"`
}

// normalized returns a copy with a canonical lie
func (c ShotContext) normalized() ShotContext {
	c.Lie = models.ParseLie(string(c.Lie))
	return c
}

// successful is the outcome rule shared by pressure and decision summaries
func successful(shot models.Shot) bool {
	return shot.Holed || shot.ResultZone.IsPositive()
}
