package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userContextKey contextKey = "riskwatch_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

// BearerToken extracts the token from an Authorization header, or "" when the
// header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// BearerMiddleware authenticates requests from the token alone; no store
// lookup happens, matching the stateless session model.
func BearerMiddleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			claims, err := issuer.Verify(token)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			user := &User{
				ID:    claims.UserID,
				Email: claims.Email,
			}
			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
