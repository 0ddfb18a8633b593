package login

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/tomasen/realip"

	"casting-tracker/internal/auth"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*storage.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
	TTL() time.Duration
}

type Cookie struct {
	Name   string
	Secure bool
}

type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *storage.User `json:"user"`
}

// Login checks administrator credentials sent as JSON or as a form and
// sets the session cookie. The token is also returned in the body.
func Login(log *slog.Logger, users UserProvider, tokens TokenIssuer, cookie Cookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		req, err := decode(r)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		log := log.With(slog.String("op", op), slog.String("ip", realip.FromRequest(r)))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		u, err := users.GetUserByEmail(ctx, strings.ToLower(req.Email))
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("login rejected: unknown email")
			resp.Error(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		ok, err := auth.CheckPassword(u.PasswordHash, req.Password)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}
		if !ok {
			log.Info("login rejected: wrong password", slog.String("user_id", u.ID))
			resp.Error(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := tokens.Issue(u.ID)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}
		expires := time.Now().Add(tokens.TTL())

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    token,
			Path:     "/",
			Expires:  expires,
			MaxAge:   int(tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		log.Info("user logged in", slog.String("user_id", u.ID))
		render.JSON(w, r, Response{Token: token, ExpiresAt: expires.UTC(), User: u})
	}
}

func decode(r *http.Request) (*Request, error) {
	var req Request

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
		if err := request.Validate(&req); err != nil {
			return nil, err
		}
	default:
		if err := request.Decode(r, &req); err != nil {
			return nil, err
		}
	}
	return &req, nil
}
