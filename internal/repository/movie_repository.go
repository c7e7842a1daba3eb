// Package repository: movie persistence.  Movies relate to genres through
// the movie_genres join table; a movie may carry several genres and a genre
// may label several movies.  Genre names are unique case-insensitively,
// matching how they are looked up.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// MinReleaseYear is the oldest release year the store accepts.
const MinReleaseYear = 1800

// DefaultListLimit bounds list queries when the caller supplies no limit.
const DefaultListLimit = 2000

// Movie mirrors the 'movies' table plus its resolved genre names.
// Description and PosterPath are nullable columns.
type Movie struct {
	ID          uint64
	Title       string
	ReleaseYear int
	Description sql.NullString
	PosterPath  sql.NullString
	Genres      []string
}

// MovieUpdate names the fields of an update; nil pointer fields are left
// untouched by the generated SET clause.
type MovieUpdate struct {
	ID          uint64
	Title       *string
	Description *string
	ReleaseYear *int
	Genre       *string
}

// querier is satisfied by both *sql.DB and *sql.Tx so the genre helpers can
// run standalone or inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MovieRepo manages persistence for movies and genres.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// List returns up to limit movies starting at row offset, each with its
// genre list attached.  The join produces one row per movie/genre pair;
// rows are regrouped by movie id preserving first-seen order.  LIMIT and
// OFFSET are bound parameters, never interpolated into the statement text.
func (r *MovieRepo) List(ctx context.Context, limit, offset int) ([]Movie, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	// Limit the movies in a subquery so LIMIT counts movies, not join rows.
	const q = `SELECT m.id, m.title, m.release_year, m.description, m.poster_path, g.name
               FROM (SELECT id, title, release_year, description, poster_path
                     FROM movies ORDER BY id LIMIT ? OFFSET ?) m
               LEFT JOIN movie_genres mg ON mg.movie_id = m.id
               LEFT JOIN genres g ON g.id = mg.genre_id
               ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []Movie
		index  = map[uint64]int{} // movie id -> position in result
	)
	for rows.Next() {
		var (
			m     Movie
			genre sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.Description, &m.PosterPath, &genre); err != nil {
			return nil, err
		}
		if i, seen := index[m.ID]; seen {
			if genre.Valid {
				result[i].Genres = append(result[i].Genres, genre.String)
			}
			continue
		}
		if genre.Valid {
			m.Genres = append(m.Genres, genre.String)
		}
		index[m.ID] = len(result)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the total number of movie rows.
func (r *MovieRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n)
	return n, err
}

// GetByID fetches one movie with its genre list.  Zero rows map to ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (Movie, error) {
	const q = `SELECT id, title, release_year, description, poster_path FROM movies WHERE id = ?`
	var m Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.Description, &m.PosterPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Movie{}, fmt.Errorf("movie %d: %w", id, ErrNotFound)
		}
		return Movie{}, err
	}
	genres, err := r.Genres(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	m.Genres = genres
	return m, nil
}

// Add inserts a movie, makes sure its genre exists and links the two, all
// inside one transaction so a failure never leaves a movie without its
// genre link.  Description and poster start out NULL.  The id assigned by
// the database is returned.
func (r *MovieRepo) Add(ctx context.Context, title string, releaseYear int, genre string) (uint64, error) {
	if releaseYear < MinReleaseYear {
		return 0, fmt.Errorf("release year %d is before %d: %w", releaseYear, MinReleaseYear, ErrValidation)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO movies (title, release_year) VALUES (?, ?)",
		title, releaseYear)
	if err != nil {
		return 0, err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	var genreID uint64
	genreID, err = ensureGenre(ctx, tx, genre)
	if err != nil {
		return 0, err
	}
	if err = ensureMovieGenreLink(ctx, tx, genreID, uint64(id)); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update changes only the supplied fields of a movie.  When a genre is
// supplied it is created if absent and linked if unlinked; existing genre
// links are never removed.  The whole operation runs in one transaction.
func (r *MovieRepo) Update(ctx context.Context, up MovieUpdate) error {
	if up.ID == 0 {
		return fmt.Errorf("movie id is required: %w", ErrValidation)
	}
	if up.ReleaseYear != nil && *up.ReleaseYear < MinReleaseYear {
		return fmt.Errorf("release year %d is before %d: %w", *up.ReleaseYear, MinReleaseYear, ErrValidation)
	}

	var (
		set  []string
		args []any
	)
	if up.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *up.Title)
	}
	if up.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *up.Description)
	}
	if up.ReleaseYear != nil {
		set = append(set, "release_year = ?")
		args = append(args, *up.ReleaseYear)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(set) > 0 {
		args = append(args, up.ID)
		_, err = tx.ExecContext(ctx,
			"UPDATE movies SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return err
		}
	}
	if up.Genre != nil {
		var genreID uint64
		genreID, err = ensureGenre(ctx, tx, *up.Genre)
		if err != nil {
			return err
		}
		if err = ensureMovieGenreLink(ctx, tx, genreID, up.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a movie.  Genre links, roles and ratings go with it via
// ON DELETE CASCADE.  Deleting a missing row is reported as
// ErrOperationFailed.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete movie %d: %w", id, ErrOperationFailed)
	}
	return nil
}

// Genres returns the genre names linked to one movie.
func (r *MovieRepo) Genres(ctx context.Context, movieID uint64) ([]string, error) {
	const q = `SELECT g.name FROM genres g
               JOIN movie_genres mg ON mg.genre_id = g.id
               WHERE mg.movie_id = ?
               ORDER BY g.id`
	return r.genreNames(ctx, q, movieID)
}

// AllGenres returns every genre name in the store.
func (r *MovieRepo) AllGenres(ctx context.Context) ([]string, error) {
	return r.genreNames(ctx, "SELECT name FROM genres ORDER BY id")
}

func (r *MovieRepo) genreNames(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasGenre reports whether a genre with the given name exists.  The match
// is case-insensitive: "Action" and "action" are the same genre.
func (r *MovieRepo) HasGenre(ctx context.Context, name string) (bool, error) {
	return hasGenre(ctx, r.db, name)
}

// CreateGenre inserts a new genre row.
func (r *MovieRepo) CreateGenre(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", name)
	return err
}

// HasMovieGenreConnection reports whether the movie is already linked to
// the named genre.
func (r *MovieRepo) HasMovieGenreConnection(ctx context.Context, genre string, movieID uint64) (bool, error) {
	const q = `SELECT 1 FROM movie_genres mg
               JOIN genres g ON g.id = mg.genre_id
               WHERE mg.movie_id = ? AND LOWER(g.name) = LOWER(?) LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, movieID, genre).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateMovieHasGenre links a movie to the named genre, creating the genre
// first when it does not exist yet.
func (r *MovieRepo) CreateMovieHasGenre(ctx context.Context, genre string, movieID uint64) error {
	genreID, err := ensureGenre(ctx, r.db, genre)
	if err != nil {
		return err
	}
	return ensureMovieGenreLink(ctx, r.db, genreID, movieID)
}

// ensureGenre returns the id of the genre with the given name, inserting
// the row when the case-insensitive lookup finds nothing.
func ensureGenre(ctx context.Context, q querier, name string) (uint64, error) {
	var id uint64
	err := q.QueryRowContext(ctx,
		"SELECT id FROM genres WHERE LOWER(name) = LOWER(?) LIMIT 1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := q.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// ensureMovieGenreLink creates the movie/genre link unless it already exists.
func ensureMovieGenreLink(ctx context.Context, q querier, genreID, movieID uint64) error {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM movie_genres WHERE movie_id = ? AND genre_id = ? LIMIT 1",
		movieID, genreID).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)",
		movieID, genreID)
	return err
}

// hasGenre is the case-insensitive existence check behind HasGenre.
func hasGenre(ctx context.Context, q querier, name string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM genres WHERE LOWER(name) = LOWER(?) LIMIT 1", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
