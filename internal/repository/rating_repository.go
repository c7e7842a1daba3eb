package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
)

// RatingSummary holds every numeric rating for a movie plus their mean,
// rounded to one decimal place.
type RatingSummary struct {
	Average    float64
	AllRatings []float64
}

type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// ForMovie collects the ratings of one movie.  The rating column is scanned
// as text because historical rows contain junk values; entries that do not
// parse as numbers are skipped silently, excluded from both the list and
// the average.  A movie with zero rating rows maps to ErrNotFound.
func (r *RatingRepo) ForMovie(ctx context.Context, movieID uint64) (RatingSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT rating FROM ratings WHERE movie_id = ?", movieID)
	if err != nil {
		return RatingSummary{}, err
	}
	defer rows.Close()

	var (
		summary RatingSummary
		total   float64
		seen    int
	)
	for rows.Next() {
		seen++
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return RatingSummary{}, err
		}
		if !raw.Valid {
			continue
		}
		v, err := strconv.ParseFloat(raw.String, 64)
		if err != nil {
			continue // non-numeric rating
		}
		summary.AllRatings = append(summary.AllRatings, v)
		total += v
	}
	if err := rows.Err(); err != nil {
		return RatingSummary{}, err
	}
	if seen == 0 {
		return RatingSummary{}, fmt.Errorf("no ratings for movie %d: %w", movieID, ErrNotFound)
	}
	if n := len(summary.AllRatings); n > 0 {
		summary.Average = math.Round(total/float64(n)*10) / 10
	}
	return summary, nil
}
