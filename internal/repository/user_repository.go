package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// User mirrors the 'users' table.  Password holds the opaque bcrypt hash,
// never the plaintext.
type User struct {
	ID       uint64
	Username string
	Password string
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByUsername fetches a user by exact username.  The BINARY comparison
// keeps the lookup case-sensitive even under MySQL's default
// case-insensitive collation; genre and actor lookups deliberately do the
// opposite.  Zero rows map to ErrNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE BINARY username = ? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return User{}, err
	}
	return u, nil
}

// Create inserts a user with an already-hashed password.  A duplicate
// username surfaces as ErrConflict.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, passwordHash)
	if err != nil {
		// MySQL error 1062 = duplicate entry for a unique key.
		if strings.Contains(err.Error(), "1062") {
			return fmt.Errorf("username %q already exists: %w", username, ErrConflict)
		}
		return err
	}
	return nil
}

// Delete removes a user by id.  Deleting a missing row is reported as
// ErrOperationFailed rather than silently succeeding.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete user %d: %w", id, ErrOperationFailed)
	}
	return nil
}
