package graph

import (
	"context"

	"github.com/moviegraph/moviegraph/internal/queue"
	"github.com/moviegraph/moviegraph/internal/repository"
)

// The resolver depends on narrow interfaces instead of the concrete
// repositories so tests can drive it with fakes.  The repository types
// satisfy these without adapters.

// MovieStore is the movie slice of the data access layer.
type MovieStore interface {
	List(ctx context.Context, limit, offset int) ([]repository.Movie, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id uint64) (repository.Movie, error)
	Add(ctx context.Context, title string, releaseYear int, genre string) (uint64, error)
	Update(ctx context.Context, up repository.MovieUpdate) error
	Delete(ctx context.Context, id uint64) error
	AllGenres(ctx context.Context) ([]string, error)
}

// ActorStore is the actor slice of the data access layer.
type ActorStore interface {
	List(ctx context.Context, limit, offset int) ([]repository.Actor, error)
	Count(ctx context.Context) (int, error)
	GetByName(ctx context.Context, name string) (repository.Actor, error)
	Roles(ctx context.Context, actorID uint64) ([]repository.Role, error)
}

// RatingStore is the rating slice of the data access layer.
type RatingStore interface {
	ForMovie(ctx context.Context, movieID uint64) (repository.RatingSummary, error)
}

// UserStore is the user slice of the data access layer.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (repository.User, error)
	Create(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, id uint64) error
}

// Authenticator resolves a bearer token to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (repository.User, error)
}

// EventPublisher emits domain events after successful mutations.  A nil
// publisher disables eventing.
type EventPublisher interface {
	MovieAdded(ctx context.Context, ev queue.MovieAddedEvent) error
}
