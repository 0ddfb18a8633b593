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
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/storage"
)

type MockRawMaterialUpdater struct {
	mock.Mock
}

func (m *MockRawMaterialUpdater) GetRawMaterial(ctx context.Context, id string) (*storage.RawMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialUpdater) UpdateRawMaterial(ctx context.Context, id string, upd storage.RawMaterialUpdate, at time.Time) error {
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
	r.Put("/api/raw-materials/{id}", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/raw-materials/rm1", strings.NewReader(body)))
	return rr
}

func TestUpdateRawMaterial(t *testing.T) {
	materials := new(MockRawMaterialUpdater)
	auditor := new(MockAuditor)

	before := &storage.RawMaterial{ID: "rm1", Name: "Bronze", Value: 10}
	after := &storage.RawMaterial{ID: "rm1", Name: "Bronze", Value: 12.5}
	materials.On("GetRawMaterial", mock.Anything, "rm1").Return(before, nil).Once()
	materials.On("UpdateRawMaterial", mock.Anything, "rm1", mock.MatchedBy(func(u storage.RawMaterialUpdate) bool {
		return u.Name == nil && u.Value != nil && *u.Value == 12.5
	}), mock.Anything).Return(nil)
	materials.On("GetRawMaterial", mock.Anything, "rm1").Return(after, nil).Once()
	auditor.On("Record", mock.Anything, audit.Entry{
		Action: "UPDATE", Entity: "RawMaterial", EntityID: "rm1", Before: before, After: after,
	}).Return()

	rr := serve(UpdateRawMaterial(slog.Default(), materials, auditor), `{"value": 12.5}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got storage.RawMaterial
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	assert.Equal(t, 12.5, got.Value)
	materials.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestUpdateRawMaterial_NegativeValue(t *testing.T) {
	rr := serve(UpdateRawMaterial(slog.Default(), new(MockRawMaterialUpdater), new(MockAuditor)), `{"value": -1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
