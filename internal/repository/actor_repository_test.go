package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActorRepo(t *testing.T) (*ActorRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewActorRepo(db), mock
}

func TestActorRepoGetByNameCaseInsensitive(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, gender, profile_path FROM actors WHERE LOWER(name) = LOWER(?) LIMIT 1`)).
		WithArgs("keanu reeves").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "gender", "profile_path"}).
			AddRow(3, "Keanu Reeves", "male", nil))

	a, err := repo.GetByName(context.Background(), "keanu reeves")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), a.ID)
	assert.Equal(t, "Keanu Reeves", a.Name)
	assert.False(t, a.ProfilePath.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActorRepoGetByNameNotFound(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery("SELECT id, name, gender, profile_path FROM actors").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "gender", "profile_path"}))

	_, err := repo.GetByName(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActorRepoRoles(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT actor_id, movie_id, character_name FROM roles WHERE actor_id = ? ORDER BY movie_id`)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"actor_id", "movie_id", "character_name"}).
			AddRow(3, 1, "Neo").
			AddRow(3, 9, "John Wick"))

	roles, err := repo.Roles(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Neo", roles[0].CharacterName)
	assert.Equal(t, uint64(9), roles[1].MovieID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActorRepoListPaginates(t *testing.T) {
	repo, mock := newActorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, gender, profile_path FROM actors ORDER BY id LIMIT ? OFFSET ?`)).
		WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "gender", "profile_path"}).
			AddRow(5, "Carrie-Anne Moss", "female", "/moss.jpg").
			AddRow(6, "Laurence Fishburne", "male", nil))

	actors, err := repo.List(context.Background(), 2, 4)
	require.NoError(t, err)
	require.Len(t, actors, 2)
	assert.True(t, actors[0].ProfilePath.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}
