// Package rating holds the one definition of a book's average rating. Callers
// that already have reviews in memory use Average; callers that ask the
// database for SUM/COUNT pass the totals to Mean. Both end in Mean, so the
// two paths cannot drift apart.
package rating

import "github.com/Skotchmaster/book_catalog/internal/models"

const (
	Min = 1
	Max = 10
)

// Mean returns sum/count, or 0 when there is nothing to average.
func Mean(sum, count int64) float64 {
	if count <= 0 {
		return 0.0
	}
	return float64(sum) / float64(count)
}

func Average(reviews []models.Review) float64 {
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	return Mean(sum, int64(len(reviews)))
}

// Valid reports whether v is an acceptable review score.
func Valid(v int) bool {
	return v >= Min && v <= Max
}
