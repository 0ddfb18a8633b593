package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	authtoken "casting-tracker/internal/auth"
)

type ctxKey struct{}

type Verifier interface {
	Verify(raw string) (*authtoken.Claims, error)
}

// RequireAdmin accepts a token from the named cookie or from an
// "Authorization: Bearer" header and stores the user id in the context.
func RequireAdmin(cookieName string, v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFrom(r, cookieName)
			if raw == "" {
				requireAuth(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				requireAuth(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

// UserID returns the authenticated administrator, or "" on public routes.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func tokenFrom(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func requireAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": "unauthorized"})
}
