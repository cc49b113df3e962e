package utils

import (
	"context"

	"cabin-booking/pkg/token"
)

type contextKey string

const claimsKey contextKey = "claims"

// SetClaimsContext stores verified link-token claims for downstream handlers.
func SetClaimsContext(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaimsFromContext returns the verified claims, if any.
func GetClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
