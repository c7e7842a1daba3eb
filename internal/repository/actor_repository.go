package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Actor mirrors the 'actors' table.
type Actor struct {
	ID          uint64
	Name        string
	Gender      string
	ProfilePath sql.NullString
}

// Role mirrors the 'roles' join table: the character an actor plays in a
// movie.
type Role struct {
	ActorID       uint64
	MovieID       uint64
	CharacterName string
}

type ActorRepo struct{ db *sql.DB }

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

// List returns up to limit actors starting at row offset.
func (r *ActorRepo) List(ctx context.Context, limit, offset int) ([]Actor, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT id, name, gender, profile_path FROM actors ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Actor
	for rows.Next() {
		var a Actor
		if err := rows.Scan(&a.ID, &a.Name, &a.Gender, &a.ProfilePath); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Count returns the total number of actor rows.
func (r *ActorRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM actors").Scan(&n)
	return n, err
}

// GetByName fetches an actor by name, matched case-insensitively (unlike
// username lookups).  Zero rows map to ErrNotFound.
func (r *ActorRepo) GetByName(ctx context.Context, name string) (Actor, error) {
	const q = `SELECT id, name, gender, profile_path FROM actors WHERE LOWER(name) = LOWER(?) LIMIT 1`
	var a Actor
	err := r.db.QueryRowContext(ctx, q, name).Scan(&a.ID, &a.Name, &a.Gender, &a.ProfilePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Actor{}, fmt.Errorf("actor %q: %w", name, ErrNotFound)
		}
		return Actor{}, err
	}
	return a, nil
}

// Roles returns every character the actor has played, ordered by movie.
func (r *ActorRepo) Roles(ctx context.Context, actorID uint64) ([]Role, error) {
	const q = `SELECT actor_id, movie_id, character_name FROM roles WHERE actor_id = ? ORDER BY movie_id`
	rows, err := r.db.QueryContext(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ActorID, &role.MovieID, &role.CharacterName); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}
