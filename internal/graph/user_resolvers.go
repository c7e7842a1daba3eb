package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/moviegraph/moviegraph/internal/auth"
	"github.com/moviegraph/moviegraph/internal/repository"
)

const (
	minUsernameLen = 4
	minPasswordLen = 10
)

func (r *Resolver) resolveUserOperations(p graphql.ResolveParams) (interface{}, error) {
	return `Available operations for user is:
- newUser(username: String!, password: String!)
    Create a new user to be able to modify movies.
- login(username: String!, password: String!): JWT!
    Login to a user to get a JWT key for authentication.
- deleteUser(username: String!)
    Delete your own user account (requires authentication).`, nil
}

func (r *Resolver) resolveNewUser(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)

	shortUser := len(username) < minUsernameLen
	shortPass := len(password) < minPasswordLen
	switch {
	case shortUser && shortPass:
		return nil, fmt.Errorf("username and password not long enough, username needs at least %d characters and password %d: %w",
			minUsernameLen, minPasswordLen, repository.ErrValidation)
	case shortUser:
		return nil, fmt.Errorf("username not long enough, it needs at least %d characters: %w",
			minUsernameLen, repository.ErrValidation)
	case shortPass:
		return nil, fmt.Errorf("password not long enough, it needs at least %d characters: %w",
			minPasswordLen, repository.ErrValidation)
	}

	hash, err := auth.HashPassword(password, r.BcryptCost)
	if err != nil {
		return nil, err
	}
	if err := r.Users.Create(p.Context, username, hash); err != nil {
		return nil, err
	}
	return "A user was successfully created, login to get an authentication key!", nil
}

func (r *Resolver) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", repository.ErrValidation)
	}

	user, err := r.Users.GetByUsername(p.Context, username)
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.Password, password) {
		return nil, auth.ErrInvalidCredentials
	}
	return auth.NewToken(r.SigningKey, user.ID, user.Username, r.TokenTTL)
}

func (r *Resolver) resolveDeleteUser(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.Auth.Authenticate(p.Context, TokenFrom(p.Context))
	if err != nil {
		return nil, err
	}
	username, _ := p.Args["username"].(string)
	// Users may only delete their own account; the name must match the
	// authenticated identity exactly.
	if username != user.Username {
		return nil, fmt.Errorf("cannot delete another user's account: %w", auth.ErrForbidden)
	}
	if err := r.Users.Delete(p.Context, user.ID); err != nil {
		return nil, err
	}
	return "User successfully deleted", nil
}
