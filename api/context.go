package api

import (
	"context"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds the verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims returns the claims set by the auth middleware, or nil on
// public routes
func ctxGetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// ctxGetUserID returns the authenticated user id, or nil on public routes
func ctxGetUserID(ctx context.Context) *int64 {
	claims := ctxGetClaims(ctx)
	if claims == nil {
		return nil
	}
	id := claims.ID
	return &id
}
