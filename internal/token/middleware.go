package token

import (
	"context"
	"net/http"
	"strings"
)

type claimsCtxKey struct{}

// RequireBearer verifies the Authorization bearer token with the codec and
// stores its claims in the request context for downstream handlers.
func RequireBearer(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimSpace(authz[len("Bearer "):])
			cl, ok := codec.Verify(raw)
			if !ok {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), cl)))
		})
	}
}

// WithClaims stores verified token claims in context.
func WithClaims(ctx context.Context, cl Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, cl)
}

// ClaimsFrom extracts verified token claims from context.
func ClaimsFrom(ctx context.Context) (Claims, bool) {
	if v := ctx.Value(claimsCtxKey{}); v != nil {
		if cl, ok := v.(Claims); ok {
			return cl, true
		}
	}
	return Claims{}, false
}
