package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/auth"
	"casting-tracker/internal/storage"
)

type MockUserUpdater struct {
	mock.Mock
}

func (m *MockUserUpdater) GetUser(ctx context.Context, id string) (*storage.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func (m *MockUserUpdater) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate, at time.Time) error {
	return m.Called(ctx, id, upd, at).Error(0)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

func serve(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Patch("/api/users/{id}", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/users/u1", strings.NewReader(body)))
	return rr
}

func TestUpdateUser_HashesPasswordAndLowercasesEmail(t *testing.T) {
	users := new(MockUserUpdater)
	auditor := new(MockAuditor)

	var upd storage.UserUpdate
	users.On("GetUser", mock.Anything, "u1").Return(&storage.User{ID: "u1", Email: "old@example.com"}, nil)
	users.On("UpdateUser", mock.Anything, "u1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { upd = args.Get(2).(storage.UserUpdate) }).
		Return(nil)
	auditor.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == "UPDATE" && e.Entity == "User" && e.EntityID == "u1"
	})).Return()

	rr := serve(UpdateUser(slog.Default(), users, auditor), `{"email": "New@Example.COM", "password": "s3cret!"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
	require.NotNil(t, upd.Email)
	assert.Equal(t, "new@example.com", *upd.Email)
	assert.Nil(t, upd.Name)
	require.NotNil(t, upd.PasswordHash)
	ok, err := auth.CheckPassword(*upd.PasswordHash, "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)
	auditor.AssertExpectations(t)
}

func TestUpdateUser_Validation(t *testing.T) {
	users := new(MockUserUpdater)

	rr := serve(UpdateUser(slog.Default(), users, new(MockAuditor)), `{"email": "nope", "password": "123"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email must be a valid email")
	users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	users := new(MockUserUpdater)
	auditor := new(MockAuditor)
	users.On("GetUser", mock.Anything, "u1").Return(&storage.User{ID: "u1"}, nil)
	users.On("UpdateUser", mock.Anything, "u1", mock.Anything, mock.Anything).Return(storage.ErrExists)

	rr := serve(UpdateUser(slog.Default(), users, auditor), `{"email": "taken@example.com"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
