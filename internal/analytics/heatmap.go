package analytics

import (
	"math"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// DefaultLateralOffsets places each lateral miss bucket on the x axis. Unset maps to 0.
func DefaultLateralOffsets() map[models.LateralMiss]float64 {
	return map[models.LateralMiss]float64{
		models.LateralFarLeft:  -80,
		models.LateralLeft:     -40,
		models.LateralOnLine:   0,
		models.LateralRight:    40,
		models.LateralFarRight: 80,
	}
}

// HeatMapProjector projects shots into dispersion space with an injected
// offset table
type HeatMapProjector struct {
	offsets map[models.LateralMiss]float64
}

// NewHeatMapProjector copies offsets; nil uses DefaultLateralOffsets
func NewHeatMapProjector(offsets map[models.LateralMiss]float64) *HeatMapProjector {
	if offsets == nil {
		offsets = DefaultLateralOffsets()
	}
	copied := make(map[models.LateralMiss]float64, len(offsets))
	for k, v := range offsets {
		copied[k] = v
	}
	return &HeatMapProjector{offsets: copied}
}

// Project maps every non-putt shot to a point. x is the lateral bucket offset
// and y the percentage of the remaining distance covered.
func (p *HeatMapProjector) Project(shots []models.Shot) []models.HeatMapPoint {
	points := make([]models.HeatMapPoint, 0, len(shots))
	for _, shot := range shots {
		if shot.Category == models.CategoryPutt {
			continue
		}
		points = append(points, p.projectShot(shot))
	}
	return points
}

func (p *HeatMapProjector) projectShot(shot models.Shot) models.HeatMapPoint {
	var x float64
	if miss, ok := shot.Lateral(); ok {
		x = p.offsets[miss]
	}

	y := 100.0
	if shot.StartDistanceToHole != 0 {
		y = shot.DistanceGained() / shot.StartDistanceToHole * 100
		y = math.Max(0, math.Min(100, y))
	}

	return models.HeatMapPoint{
		X:          x,
		Y:          y,
		Club:       shot.Club,
		Category:   shot.Category,
		ResultZone: shot.ResultZone,
	}
}
