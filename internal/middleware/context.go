// AngelaMos | 2026
// context.go

package middleware

import "context"

type contextKey string

const claimsHolderKey contextKey = "claims_holder"

// claimsHolder lets outer middleware observe claims set further down the chain.
type claimsHolder struct {
	claims *AccessTokenClaims
}

func withClaimsHolder(ctx context.Context, h *claimsHolder) context.Context {
	return context.WithValue(ctx, claimsHolderKey, h)
}

func getClaimsHolder(ctx context.Context) *claimsHolder {
	if h, ok := ctx.Value(claimsHolderKey).(*claimsHolder); ok {
		return h
	}
	return nil
}
