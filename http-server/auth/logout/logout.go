package logout

import (
	"net/http"

	"github.com/go-chi/render"
)

// Logout expires the session cookie.
func Logout(cookieName string, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})

		render.JSON(w, r, map[string]string{"status": "logged out"})
	}
}
