package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

// FallbackData is the deterministic dataset served when live history is unavailable
type FallbackData struct {
	Shots       []models.Shot
	RoundTotals []int
}

type referenceShot struct {
	category models.ShotCategory
	club     string
	startLie models.Lie
	start    float64
	endLie   models.Lie
	end      float64
	zone     models.ResultZone
	lateral  models.LateralMiss
	distance models.DistanceMiss
	holed    bool
}

// referenceRound is one representative hole sequence for a mid-handicap player
var referenceRound = []referenceShot{
	{models.CategoryTee, "Driver", models.LieTeeBox, 410, models.LieFairway, 160, models.ResultGood, models.LateralOnLine, models.DistancePinHigh, false},
	{models.CategoryApproach, "7 Iron", models.LieFairway, 160, models.LieGreen, 18, models.ResultGood, models.LateralLeft, models.DistanceShort, false},
	{models.CategoryPutt, "Putter", models.LieGreen, 18, models.LieGreen, 2, models.ResultAcceptable, "", "", false},
	{models.CategoryPutt, "Putter", models.LieGreen, 2, models.LieHoled, 0, models.ResultGood, "", "", true},
	{models.CategoryTee, "Driver", models.LieTeeBox, 520, models.LieRough, 275, models.ResultPoor, models.LateralRight, models.DistancePinHigh, false},
	{models.CategoryApproach, "3 Wood", models.LieRough, 275, models.LieFairway, 70, models.ResultAcceptable, models.LateralOnLine, models.DistanceShort, false},
	{models.CategoryApproach, "Pitching Wedge", models.LieFairway, 70, models.LieGreen, 12, models.ResultGood, models.LateralOnLine, models.DistancePinHigh, false},
	{models.CategoryPutt, "Putter", models.LieGreen, 12, models.LieHoled, 0, models.ResultGood, "", "", true},
	{models.CategoryTee, "7 Iron", models.LieTeeBox, 165, models.LieGreensideBunker, 15, models.ResultPoor, models.LateralLeft, models.DistanceShort, false},
	{models.CategoryAroundGreen, "Sand Wedge", models.LieGreensideBunker, 15, models.LieGreen, 6, models.ResultAcceptable, models.LateralOnLine, models.DistanceLong, false},
	{models.CategoryPutt, "Putter", models.LieGreen, 6, models.LieHoled, 0, models.ResultGood, "", "", true},
	{models.CategoryTee, "Driver", models.LieTeeBox, 395, models.LieFairway, 150, models.ResultGood, models.LateralLeft, models.DistancePinHigh, false},
	{models.CategoryApproach, "8 Iron", models.LieFairway, 150, models.LieFringe, 25, models.ResultAcceptable, models.LateralRight, models.DistanceShort, false},
	{models.CategoryAroundGreen, "Pitching Wedge", models.LieFringe, 25, models.LieGreen, 4, models.ResultGood, models.LateralOnLine, models.DistancePinHigh, false},
	{models.CategoryPutt, "Putter", models.LieGreen, 4, models.LieHoled, 0, models.ResultGood, "", "", true},
	{models.CategoryTee, "3 Wood", models.LieTeeBox, 380, models.LieFairway, 155, models.ResultGood, models.LateralOnLine, models.DistancePinHigh, false},
	{models.CategoryApproach, "7 Iron", models.LieFairway, 155, models.LieGreen, 30, models.ResultAcceptable, models.LateralLeft, models.DistanceLong, false},
	{models.CategoryPutt, "Putter", models.LieGreen, 30, models.LieGreen, 3, models.ResultAcceptable, "", "", false},
	{models.CategoryPutt, "Putter", models.LieGreen, 3, models.LieHoled, 0, models.ResultGood, "", "", true},
}

// referenceRounds is how many copies of referenceRound make up the dataset
const referenceRounds = 3

var referenceEpoch = time.Date(2024, time.March, 1, 14, 0, 0, 0, time.UTC)

// DefaultFallbackData builds the reference dataset. Every call returns equal data.
func DefaultFallbackData() FallbackData {
	shots := make([]models.Shot, 0, len(referenceRound)*referenceRounds)
	for r := 0; r < referenceRounds; r++ {
		roundID := uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(r)})
		playedAt := referenceEpoch.AddDate(0, 0, 7*r)

		hole, shotNumber := 1, 1
		for i, ref := range referenceRound {
			shot := models.Shot{
				ID:                  uuid.NewSHA1(roundID, []byte{byte(i)}),
				UserID:              "reference",
				RoundID:             roundID,
				HoleNumber:          hole,
				ShotNumber:          shotNumber,
				Category:            ref.category,
				Club:                ref.club,
				StartLie:            ref.startLie,
				StartDistanceToHole: ref.start,
				EndLie:              ref.endLie,
				EndDistanceToHole:   ref.end,
				ResultZone:          ref.zone,
				Holed:               ref.holed,
				CreatedAt:           playedAt.Add(time.Duration(i) * 4 * time.Minute),
			}
			if ref.lateral != "" {
				lateral := ref.lateral
				shot.LateralError = &lateral
			}
			if ref.distance != "" {
				distance := ref.distance
				shot.DistanceError = &distance
			}
			shots = append(shots, shot)

			shotNumber++
			if ref.holed {
				hole++
				shotNumber = 1
			}
		}
	}

	return FallbackData{
		Shots:       shots,
		RoundTotals: []int{88, 91, 86, 90, 93, 87, 89, 92, 85, 90},
	}
}
