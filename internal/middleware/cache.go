// Package middleware provides the Redis-backed response cache and rate
// limiter applied to the GraphQL endpoint.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/moviegraph/moviegraph/internal/config"
)

// captureWriter tees the response body while forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.size += len(b)
	if cw.limit <= 0 || cw.size <= cw.limit {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

// NewGraphQLCache caches GraphQL responses in Redis.  The cache key is a
// hash of the method, path and request payload: the JSON body for POST, the
// raw query string for GET.  Three classes of request are never cached:
// anything carrying an Authorization header (responses may be
// caller-specific), requests whose POST body or GET query param contains a
// mutation, and responses larger than the configured limit.  With a nil
// Redis client the middleware is a pass-through, matching how the rest of
// the app degrades without Redis.
func NewGraphQLCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if r.Header.Get("Authorization") != "" {
				return next(c)
			}

			var payload []byte
			switch r.Method {
			case http.MethodPost:
				body, err := io.ReadAll(r.Body)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "read body")
				}
				// Hand the handler an untouched body.
				r.Body = io.NopCloser(bytes.NewReader(body))
				if strings.Contains(string(body), "mutation") {
					return next(c)
				}
				payload = body
			case http.MethodGet:
				// The query param is URL-decoded here; the raw query string
				// would hide "mutation" behind percent escapes.
				if strings.Contains(c.QueryParam("query"), "mutation") {
					return next(c)
				}
				payload = []byte(r.URL.RawQuery)
			default:
				return next(c)
			}

			sum := sha1.Sum(append([]byte(r.Method+":"+c.Path()+":"), payload...))
			key := fmt.Sprintf("%s:%x", cfg.Prefix, sum)
			ctx := r.Context()

			if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(http.StatusOK)
				_, _ = c.Response().Write(cached)
				return nil
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && (cfg.MaxBodyBytes <= 0 || cw.size <= cfg.MaxBodyBytes) {
				// Detached context: the request may be done but the entry
				// should still land.
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
