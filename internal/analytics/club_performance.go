package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

const (
	// MinClubSamples is the smallest group reported by ClubPerformance
	MinClubSamples = 3
	// MaxValidDistance excludes mis-entered distances (yards, exclusive)
	MaxValidDistance = 400.0
	// TrendPoints is how many recent samples make up a club's trend
	TrendPoints = 10
)

type clubKey struct {
	club     string
	category models.ShotCategory
}

type clubSample struct {
	shot     models.Shot
	distance float64
}

// ClubPerformance computes distance, accuracy and dispersion per (club, category).
// Groups with fewer than MinClubSamples valid distances are left out.
func ClubPerformance(shots []models.Shot) []models.ClubPerformanceStat {
	groups := make(map[clubKey][]clubSample)
	for _, shot := range shots {
		if shot.Club == "" {
			continue
		}
		distance := shot.DistanceGained()
		if distance <= 0 || distance >= MaxValidDistance {
			continue
		}
		key := clubKey{club: shot.Club, category: shot.Category}
		groups[key] = append(groups[key], clubSample{shot: shot, distance: distance})
	}

	stats := make([]models.ClubPerformanceStat, 0, len(groups))
	for key, samples := range groups {
		if len(samples) < MinClubSamples {
			continue
		}
		stats = append(stats, buildClubStat(key, samples))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].SampleSize != stats[j].SampleSize {
			return stats[i].SampleSize > stats[j].SampleSize
		}
		if stats[i].Club != stats[j].Club {
			return stats[i].Club < stats[j].Club
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

func buildClubStat(key clubKey, samples []clubSample) models.ClubPerformanceStat {
	distances := make([]float64, len(samples))
	good := 0
	for i, s := range samples {
		distances[i] = s.distance
		if IsGoodShot(s.shot) {
			good++
		}
	}

	mean, std := stat.PopMeanStdDev(distances, nil)

	return models.ClubPerformanceStat{
		Club:            key.club,
		Category:        key.category,
		SampleSize:      len(samples),
		AverageDistance: mean,
		Dispersion:      std,
		Accuracy:        float64(good) / float64(len(samples)),
		Trends:          distanceTrend(samples),
	}
}

func distanceTrend(samples []clubSample) []models.DistanceTrendPoint {
	ordered := make([]clubSample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].shot.CreatedAt.Before(ordered[j].shot.CreatedAt)
	})
	if len(ordered) > TrendPoints {
		ordered = ordered[len(ordered)-TrendPoints:]
	}

	trend := make([]models.DistanceTrendPoint, len(ordered))
	for i, s := range ordered {
		trend[i] = models.DistanceTrendPoint{Date: s.shot.CreatedAt, Distance: s.distance}
	}
	return trend
}

// IsGoodShot applies the per-category accuracy rule: tee shots count when they
// find the fairway, approaches when they find the green, anything else when the
// result zone is Good or Acceptable. A Good result zone always counts.
func IsGoodShot(shot models.Shot) bool {
	endLie := models.ParseLie(string(shot.EndLie))
	switch shot.Category {
	case models.CategoryTee:
		return endLie == models.LieFairway || shot.ResultZone == models.ResultGood
	case models.CategoryApproach:
		return endLie == models.LieGreen || shot.ResultZone == models.ResultGood
	default:
		return shot.ResultZone.IsPositive()
	}
}
