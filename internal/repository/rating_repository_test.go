package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingRepo(t *testing.T) (*RatingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRatingRepo(db), mock
}

func TestRatingRepoSkipsNonNumeric(t *testing.T) {
	repo, mock := newRatingRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT rating FROM ratings WHERE movie_id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).
			AddRow("4").AddRow("5").AddRow("bad").AddRow("3"))

	summary, err := repo.ForMovie(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 3}, summary.AllRatings)
	assert.Equal(t, 4.0, summary.Average)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepoRoundsToOneDecimal(t *testing.T) {
	repo, mock := newRatingRepo(t)

	// (4+4+5)/3 = 4.333... -> 4.3
	mock.ExpectQuery(regexp.QuoteMeta("SELECT rating FROM ratings WHERE movie_id = ?")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).
			AddRow("4").AddRow("4").AddRow("5"))

	summary, err := repo.ForMovie(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 4.3, summary.Average)
}

func TestRatingRepoNoRows(t *testing.T) {
	repo, mock := newRatingRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT rating FROM ratings WHERE movie_id = ?")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}))

	_, err := repo.ForMovie(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRatingRepoAllNonNumeric(t *testing.T) {
	repo, mock := newRatingRepo(t)

	// Rows exist, so this is not a NotFound; there is just nothing to average.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT rating FROM ratings WHERE movie_id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).
			AddRow("terrible").AddRow("n/a"))

	summary, err := repo.ForMovie(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, summary.AllRatings)
	assert.Zero(t, summary.Average)
}
