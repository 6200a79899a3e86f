package middleware

import (
	"context"

	pkgAuth "github.com/hillview-school/school-cms/pkg/auth"
)

type contextKey string

const ctxClaims contextKey = "admin_claims"

// ClaimsFromContext returns the verified token claims, or nil outside
// authenticated routes.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	claims, _ := ctx.Value(ctxClaims).(*pkgAuth.AccessTokenClaims)
	return claims
}

func AdminIDFromContext(ctx context.Context) uint {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.AdminID
	}
	return 0
}

// WithClaims injects verified claims into the context.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
