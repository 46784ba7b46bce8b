// Package stats derives read-only summaries from an account's stored
// evaluations.
package stats

import (
	"fmt"
	"sort"

	"egehub/models"
)

// Point is one entry of the score trend. Index, not timestamp, drives
// horizontal placement so points are evenly spaced regardless of the real
// gaps between submissions.
type Point struct {
	Index int    `json:"index"`
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// Average returns the mean total score formatted to one decimal place,
// "0" for an empty history.
func Average(records []models.StoredEvaluation) string {
	if len(records) == 0 {
		return "0"
	}
	total := 0
	for _, r := range records {
		total += r.Result.TotalScore
	}
	return fmt.Sprintf("%.1f", float64(total)/float64(len(records)))
}

// Best returns the highest total score, 0 for an empty history.
func Best(records []models.StoredEvaluation) int {
	best := 0
	for _, r := range records {
		if r.Result.TotalScore > best {
			best = r.Result.TotalScore
		}
	}
	return best
}

// TimeSeries returns the records in ascending submission order, mapped to
// chart points. The input slice is not modified.
func TimeSeries(records []models.StoredEvaluation) []Point {
	sorted := make([]models.StoredEvaluation, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	points := make([]Point, len(sorted))
	for i, r := range sorted {
		points[i] = Point{
			Index: i,
			Score: r.Result.TotalScore,
			Date:  r.CreatedAt.Format("02.01.2006"),
		}
	}
	return points
}
