package save

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/storage"
)

type MockRawMaterialCreator struct {
	mock.Mock
}

func (m *MockRawMaterialCreator) CreateRawMaterial(ctx context.Context, rm *storage.RawMaterial) error {
	return m.Called(ctx, rm).Error(0)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/raw-materials", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func TestSaveRawMaterial(t *testing.T) {
	materials := new(MockRawMaterialCreator)
	auditor := new(MockAuditor)

	materials.On("CreateRawMaterial", mock.Anything, mock.MatchedBy(func(rm *storage.RawMaterial) bool {
		return rm.ID != "" && rm.Name == "Bronze ingot" && rm.Value == 54.9 && !rm.CreatedAt.IsZero()
	})).Return(nil)
	auditor.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == "CREATE" && e.Entity == "RawMaterial" && e.EntityID != "" && e.Before == nil
	})).Return()

	rr := post(SaveRawMaterial(slog.Default(), materials, auditor), `{"name": "Bronze ingot", "value": 54.9}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got storage.RawMaterial
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	assert.Equal(t, "Bronze ingot", got.Name)
	materials.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestSaveRawMaterial_Validation(t *testing.T) {
	materials := new(MockRawMaterialCreator)

	rr := post(SaveRawMaterial(slog.Default(), materials, new(MockAuditor)), `{"name": "", "value": -1}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	require.NoError(t, render.DecodeJSON(rr.Body, &body))
	assert.Equal(t, "name is required, value must be at least 0", body["error"])
	materials.AssertNotCalled(t, "CreateRawMaterial", mock.Anything, mock.Anything)
}

func TestSaveRawMaterial_Duplicate(t *testing.T) {
	materials := new(MockRawMaterialCreator)
	auditor := new(MockAuditor)
	materials.On("CreateRawMaterial", mock.Anything, mock.Anything).Return(fmt.Errorf("x: %w", storage.ErrExists))

	rr := post(SaveRawMaterial(slog.Default(), materials, auditor), `{"name": "Bronze ingot", "value": 1}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
