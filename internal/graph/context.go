package graph

import "context"

// ctxKey is private so only this package can place values under it.
type ctxKey int

const tokenKey ctxKey = iota

// WithToken stores the raw bearer token in the context.  The HTTP handler
// calls this before executing a query so resolvers can authenticate.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the bearer token stored in the context, or "" when the
// request carried none.
func TokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey).(string); ok {
		return v
	}
	return ""
}
