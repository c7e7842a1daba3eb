// Package graph builds the GraphQL schema and implements its resolvers on
// top of the repositories and the auth guard.
package graph

import (
	"crypto/rsa"
	"time"

	"github.com/graphql-go/graphql"
)

// Resolver bundles everything the schema's resolve functions need.
type Resolver struct {
	Movies  MovieStore
	Actors  ActorStore
	Ratings RatingStore
	Users   UserStore
	Auth    Authenticator

	// Token issuing (login).
	SigningKey *rsa.PrivateKey
	TokenTTL   time.Duration

	BcryptCost int

	// Optional; nil disables movie.added events.
	Events EventPublisher
}

// NewSchema assembles the executable schema from the resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	roleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Role",
		Fields: graphql.Fields{
			"movieId":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"characterName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	movieType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Movie",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"releaseYear": &graphql.Field{Type: graphql.Int},
			"description": &graphql.Field{Type: graphql.String},
			"posterPath":  &graphql.Field{Type: graphql.String},
			"genres":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	actorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Actor",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"gender":      &graphql.Field{Type: graphql.String},
			"profilePath": &graphql.Field{Type: graphql.String},
			"roles": &graphql.Field{
				Type:        graphql.NewList(roleType),
				Description: "Characters this actor has played.",
				Resolve:     r.resolveActorRoles,
			},
		},
	})

	movieListType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MovieList",
		Fields: graphql.Fields{
			"movies":     &graphql.Field{Type: graphql.NewList(movieType)},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	actorListType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ActorList",
		Fields: graphql.Fields{
			"actors":     &graphql.Field{Type: graphql.NewList(actorType)},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	ratingSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RatingSummary",
		Fields: graphql.Fields{
			"average":    &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"allRatings": &graphql.Field{Type: graphql.NewList(graphql.Float)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"movies": &graphql.Field{
				Type: movieListType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 1,
						Description:  "1-based page number",
					},
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: defaultPageLimit,
						Description:  "Movies per page",
					},
				},
				Resolve: r.resolveMovies,
			},
			"actors": &graphql.Field{
				Type: actorListType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 1,
						Description:  "1-based page number",
					},
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: defaultPageLimit,
						Description:  "Actors per page",
					},
				},
				Resolve: r.resolveActors,
			},
			"genres": &graphql.Field{
				Type:    graphql.NewList(graphql.String),
				Resolve: r.resolveGenres,
			},
			"userOperations": &graphql.Field{
				Type:    graphql.String,
				Resolve: r.resolveUserOperations,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"movie": &graphql.Field{
				Type: movieType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.resolveMovie,
			},
			"actor": &graphql.Field{
				Type: actorType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveActor,
			},
			"addMovie": &graphql.Field{
				Type: graphql.Int,
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"releaseYear": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"genre":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveAddMovie,
			},
			"updateMovie": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"releaseYear": &graphql.ArgumentConfig{Type: graphql.Int},
					"genre":       &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveUpdateMovie,
			},
			"deleteMovie": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.resolveDeleteMovie,
			},
			"ratings": &graphql.Field{
				Type: ratingSummaryType,
				Args: graphql.FieldConfigArgument{
					"movieId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.resolveRatings,
			},
			"newUser": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveNewUser,
			},
			"login": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveLogin,
			},
			"deleteUser": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveDeleteUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
