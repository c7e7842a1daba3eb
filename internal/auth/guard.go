package auth

import (
	"context"
	"crypto/rsa"
	"errors"

	"github.com/moviegraph/moviegraph/internal/repository"
)

// ErrMissingToken is returned when an operation requiring authentication is
// attempted without a bearer token.  Handlers should translate this into an
// HTTP 401 response.
var ErrMissingToken = errors.New("access token needed for this operation, login to get one")

// ErrForbidden is returned when a token verifies but its embedded user id
// does not match the stored account, or when the caller is not allowed to
// act on the requested account.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// UserSource is the slice of the user repository the guard needs.  Keeping
// it an interface lets tests authenticate against a fake store.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (repository.User, error)
}

// Guard resolves a bearer token to a stored user.  It is stateless; every
// call verifies the token and re-checks the identity against the store.
type Guard struct {
	users UserSource
	key   *rsa.PublicKey
}

// NewGuard constructs a Guard over the given user source and verification key.
func NewGuard(users UserSource, key *rsa.PublicKey) *Guard {
	return &Guard{users: users, key: key}
}

// Authenticate verifies token and returns the matching stored user.
// It fails with ErrMissingToken when token is empty, propagates
// ErrInvalidToken/ErrMalformedToken from parsing and ErrNotFound from the
// user lookup, and fails with ErrForbidden when the token's id does not
// match the stored user's id even though signature and username are valid.
func (g *Guard) Authenticate(ctx context.Context, token string) (repository.User, error) {
	if token == "" {
		return repository.User{}, ErrMissingToken
	}
	ident, err := ParseToken(g.key, token)
	if err != nil {
		return repository.User{}, err
	}
	u, err := g.users.GetByUsername(ctx, ident.Username)
	if err != nil {
		return repository.User{}, err
	}
	if ident.ID != u.ID {
		return repository.User{}, ErrForbidden
	}
	return u, nil
}
