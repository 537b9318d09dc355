package httpapi

import (
	"context"

	"github.com/learnbatch/learnbatch/internal/service"
)

type ctxKey string

const claimsKey ctxKey = "lb.claims"

// WithClaims stores verified token claims in context.
func WithClaims(ctx context.Context, c *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromCtx fetches verified token claims from context.
func ClaimsFromCtx(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*service.Claims)
	return c, ok && c != nil
}
