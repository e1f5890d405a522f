package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/shot-analytics/internal/models"
	"github.com/stitts-dev/shot-analytics/internal/testutil"
)

func shot(number int, category models.ShotCategory, endLie models.Lie) models.Shot {
	return models.Shot{ShotNumber: number, Category: category, EndLie: endLie}
}

func TestComputeHole(t *testing.T) {
	tests := []struct {
		name       string
		par        int
		shots      []models.Shot
		wantGross  *int
		wantFIR    bool
		wantGIR    bool
		wantPutts  int
		wantPenalt int
	}{
		{
			name: "par 4 fairway then green, two putts",
			par:  4,
			shots: []models.Shot{
				shot(1, models.CategoryTee, models.LieFairway),
				shot(2, models.CategoryApproach, models.LieGreen),
				shot(3, models.CategoryPutt, models.LieGreen),
				shot(4, models.CategoryPutt, models.LieHoled),
			},
			wantGross: testutil.IntPtr(4),
			wantFIR:   true,
			wantGIR:   true,
			wantPutts: 2,
		},
		{
			name: "par 5 tee shot in rough never hits the fairway",
			par:  5,
			shots: []models.Shot{
				shot(1, models.CategoryTee, models.LieRough),
				shot(2, models.CategoryApproach, models.LieFairway),
				shot(3, models.CategoryApproach, models.LieGreen),
				shot(4, models.CategoryPutt, models.LieHoled),
			},
			wantGross: testutil.IntPtr(4),
			wantFIR:   false,
			wantGIR:   true,
			wantPutts: 1,
		},
		{
			name: "penalty strokes add to the last shot number",
			par:  4,
			shots: []models.Shot{
				shot(1, models.CategoryTee, models.LieHazard),
				{ShotNumber: 2, Category: models.CategoryApproach, EndLie: models.LieRough, PenaltyStrokes: testutil.IntPtr(2)},
				shot(3, models.CategoryApproach, models.LieGreen),
				shot(4, models.CategoryPutt, models.LieGreen),
				shot(5, models.CategoryPutt, models.LieHoled),
			},
			wantGross:  testutil.IntPtr(7),
			wantPutts:  2,
			wantPenalt: 2,
		},
		{
			name:      "no shots",
			par:       4,
			shots:     nil,
			wantGross: nil,
		},
		{
			name: "par 3 only counts a green from the tee",
			par:  3,
			shots: []models.Shot{
				shot(1, models.CategoryTee, models.LieFairway),
				shot(2, models.CategoryAroundGreen, models.LieGreen),
				shot(3, models.CategoryPutt, models.LieHoled),
			},
			wantGross: testutil.IntPtr(3),
			wantFIR:   false,
			wantGIR:   false,
			wantPutts: 1,
		},
		{
			name: "capitalized lies are normalized",
			par:  4,
			shots: []models.Shot{
				shot(1, models.CategoryTee, models.Lie("Fairway")),
				shot(2, models.CategoryApproach, models.Lie("Green")),
			},
			wantGross: testutil.IntPtr(2),
			wantFIR:   true,
			wantGIR:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeHole(tt.par, tt.shots)

			if tt.wantGross == nil {
				assert.Nil(t, stats.GrossScore)
			} else {
				require.NotNil(t, stats.GrossScore)
				assert.Equal(t, *tt.wantGross, *stats.GrossScore)
			}
			assert.Equal(t, tt.wantFIR, stats.FIR)
			assert.Equal(t, tt.wantGIR, stats.GIR)
			assert.Equal(t, tt.wantPutts, stats.Putts)
			assert.Equal(t, tt.wantPenalt, stats.Penalties)
		})
	}
}

func TestComputeHole_OrderIndependent(t *testing.T) {
	shots := []models.Shot{
		shot(3, models.CategoryPutt, models.LieHoled),
		shot(1, models.CategoryTee, models.LieFairway),
		shot(2, models.CategoryApproach, models.LieGreen),
	}
	reversed := []models.Shot{shots[2], shots[1], shots[0]}

	assert.Equal(t, ComputeHole(4, shots), ComputeHole(4, reversed))
}
