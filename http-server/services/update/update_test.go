package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/storage"
)

type MockServiceUpdater struct {
	mock.Mock
}

func (m *MockServiceUpdater) GetServiceWithPieces(ctx context.Context, id string) (*storage.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Service), args.Error(1)
}

func (m *MockServiceUpdater) UpdateService(ctx context.Context, id string, upd storage.ServiceUpdate, at time.Time) error {
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
	r.Patch("/api/services/{id}", h)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/services/s1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	return rr
}

func TestUpdateService_Success(t *testing.T) {
	services := new(MockServiceUpdater)
	auditor := new(MockAuditor)

	before := &storage.Service{ID: "s1", Client: "Old", Active: true}
	after := &storage.Service{ID: "s1", Client: "New", Active: false}

	services.On("GetServiceWithPieces", mock.Anything, "s1").Return(before, nil).Once()
	services.On("UpdateService", mock.Anything, "s1", mock.MatchedBy(func(u storage.ServiceUpdate) bool {
		return u.Client != nil && *u.Client == "New" &&
			u.Active != nil && !*u.Active &&
			u.Description == nil
	}), mock.AnythingOfType("time.Time")).Return(nil)
	services.On("GetServiceWithPieces", mock.Anything, "s1").Return(after, nil).Once()
	auditor.On("Record", mock.Anything, audit.Entry{
		Action: "UPDATE", Entity: "Service", EntityID: "s1", Before: before, After: after,
	}).Return()

	rr := serve(UpdateService(slog.Default(), services, auditor), `{"client": "New", "active": false}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got storage.Service
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	assert.Equal(t, "New", got.Client)
	services.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestUpdateService_NotFound(t *testing.T) {
	services := new(MockServiceUpdater)
	auditor := new(MockAuditor)
	services.On("GetServiceWithPieces", mock.Anything, "s1").Return(nil, fmt.Errorf("x: %w", storage.ErrNotFound))

	rr := serve(UpdateService(slog.Default(), services, auditor), `{"client": "New"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	services.AssertNotCalled(t, "UpdateService", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateService_EmptyClient(t *testing.T) {
	rr := serve(UpdateService(slog.Default(), new(MockServiceUpdater), new(MockAuditor)), `{"client": ""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
