package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/auth"
	"casting-tracker/internal/storage"
)

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func admin(t *testing.T) *storage.User {
	t.Helper()
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	return &storage.User{ID: "u1", Name: "Admin", Email: "admin@example.com", PasswordHash: hash}
}

func handler(users UserProvider) http.HandlerFunc {
	return Login(slog.Default(), users, auth.NewTokenManager("test-secret", 12*time.Hour), Cookie{Name: "auth"})
}

func TestLogin_JSON(t *testing.T) {
	users := new(MockUserProvider)
	users.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(admin(t), nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email": "Admin@example.com", "password": "admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "10.0.0.7")
	handler(users).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body Response
	require.NoError(t, render.DecodeJSON(rr.Body, &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "u1", body.User.ID)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth", cookies[0].Name)
	assert.Equal(t, body.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 12*3600, cookies[0].MaxAge)

	claims, err := auth.NewTokenManager("test-secret", time.Hour).Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestLogin_Form(t *testing.T) {
	users := new(MockUserProvider)
	users.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(admin(t), nil)

	form := url.Values{"email": {"admin@example.com"}, "password": {"admin123"}}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler(users).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogin_Rejected(t *testing.T) {
	cases := []struct {
		name string
		user *storage.User
		err  error
	}{
		{"wrong password", nil, nil},
		{"unknown email", nil, fmt.Errorf("x: %w", storage.ErrNotFound)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserProvider)
			if tc.err != nil {
				users.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(nil, tc.err)
			} else {
				users.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(admin(t), nil)
			}

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email": "admin@example.com", "password": "nope"}`))
			handler(users).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			var body map[string]string
			require.NoError(t, render.DecodeJSON(rr.Body, &body))
			assert.Equal(t, "invalid credentials", body["error"])
			assert.Empty(t, rr.Result().Cookies())
		})
	}
}

func TestLogin_StorageFailure(t *testing.T) {
	users := new(MockUserProvider)
	users.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	rr := httptest.NewRecorder()
	handler(users).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email": "admin@example.com", "password": "x"}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	rr := httptest.NewRecorder()
	handler(new(MockUserProvider)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
