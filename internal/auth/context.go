package auth

import "context"

type ctxKey int

const claimsKey ctxKey = 0

// WithClaims returns a context carrying verified claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFrom returns the claims attached by the auth middleware, or nil when
// the request never passed through it.
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}
