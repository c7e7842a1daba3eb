// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/moviegraph/moviegraph/internal/config"
	"github.com/moviegraph/moviegraph/internal/handler"
	"github.com/moviegraph/moviegraph/internal/middleware"
)

// RegisterRoutes wires up the GraphQL endpoint and the health check.  The
// whole API surface is the single /graphql route; authentication happens
// inside resolvers, so no auth middleware is applied here.  The Redis
// client may be nil, in which case caching and rate limiting are disabled.
func RegisterRoutes(e *echo.Echo, gql *handler.GraphQLHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewGraphQLCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/graphql", limiter, cache)
	g.POST("", gql.Serve)
	// GET supports ?query= for quick inspection and cacheable reads.
	g.GET("", gql.Serve)
}
