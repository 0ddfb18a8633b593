package delete

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/storage"
)

type MockRawMaterialDeleter struct {
	mock.Mock
}

func (m *MockRawMaterialDeleter) GetRawMaterial(ctx context.Context, id string) (*storage.RawMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialDeleter) DeleteRawMaterial(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

func serve(h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Delete("/api/raw-materials/{id}", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/raw-materials/rm1", nil))
	return rr
}

func TestDeleteRawMaterial(t *testing.T) {
	materials := new(MockRawMaterialDeleter)
	auditor := new(MockAuditor)

	before := &storage.RawMaterial{ID: "rm1", Name: "Casting sand"}
	materials.On("GetRawMaterial", mock.Anything, "rm1").Return(before, nil)
	materials.On("DeleteRawMaterial", mock.Anything, "rm1").Return(nil)
	auditor.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == "DELETE" && e.Entity == "RawMaterial" && e.Before == before && e.After == nil
	})).Return()

	rr := serve(DeleteRawMaterial(slog.Default(), materials, auditor))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	materials.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestDeleteRawMaterial_Errors(t *testing.T) {
	tests := []struct {
		name    string
		getErr  error
		delErr  error
		status  int
		message string
	}{
		{name: "missing", getErr: storage.ErrNotFound, status: http.StatusNotFound, message: "raw material not found"},
		{name: "linked to a service", delErr: fmt.Errorf("x: %w", storage.ErrInUse), status: http.StatusConflict, message: "raw material is still referenced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			materials := new(MockRawMaterialDeleter)
			auditor := new(MockAuditor)
			if tt.getErr != nil {
				materials.On("GetRawMaterial", mock.Anything, "rm1").Return(nil, tt.getErr)
			} else {
				materials.On("GetRawMaterial", mock.Anything, "rm1").Return(&storage.RawMaterial{ID: "rm1"}, nil)
				materials.On("DeleteRawMaterial", mock.Anything, "rm1").Return(tt.delErr)
			}

			rr := serve(DeleteRawMaterial(slog.Default(), materials, auditor))

			assert.Equal(t, tt.status, rr.Code)
			var body map[string]string
			require.NoError(t, render.DecodeJSON(rr.Body, &body))
			assert.Equal(t, tt.message, body["error"])
			auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		})
	}
}
