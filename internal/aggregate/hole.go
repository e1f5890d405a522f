package aggregate

import (
	"github.com/stitts-dev/shot-analytics/internal/models"
)

// minParForFIR is the lowest par where a fairway can be hit from the tee
const minParForFIR = 4

// HoleStats are the derived values of one hole
type HoleStats struct {
	Putts          int
	Penalties      int
	LastShotNumber *int
	GrossScore     *int
	FIR            bool
	GIR            bool
}

// ComputeHole derives the hole aggregate from its shot set and par. It is pure:
// the same shots and par always produce the same stats, regardless of order.
func ComputeHole(par int, shots []models.Shot) HoleStats {
	var stats HoleStats

	girCutoff := par - 2
	for _, shot := range shots {
		if shot.Category == models.CategoryPutt {
			stats.Putts++
		}
		stats.Penalties += shot.Penalty()

		if stats.LastShotNumber == nil || shot.ShotNumber > *stats.LastShotNumber {
			n := shot.ShotNumber
			stats.LastShotNumber = &n
		}

		endLie := models.ParseLie(string(shot.EndLie))
		if par >= minParForFIR && shot.ShotNumber == 1 && endLie == models.LieFairway {
			stats.FIR = true
		}
		if shot.ShotNumber <= girCutoff && endLie == models.LieGreen {
			stats.GIR = true
		}
	}

	if stats.LastShotNumber != nil {
		gross := *stats.LastShotNumber + stats.Penalties
		stats.GrossScore = &gross
	}
	return stats
}

// Apply copies the derived stats onto a hole aggregate row
func (s HoleStats) Apply(hole *models.RoundHole) {
	hole.Putts = s.Putts
	hole.Penalties = s.Penalties
	hole.GrossScore = s.GrossScore
	hole.FIR = s.FIR
	hole.GIR = s.GIR
}
