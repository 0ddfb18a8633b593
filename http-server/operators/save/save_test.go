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

type MockOperatorCreator struct {
	mock.Mock
}

func (m *MockOperatorCreator) CreateOperator(ctx context.Context, o *storage.Operator) error {
	return m.Called(ctx, o).Error(0)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/operators", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func TestSaveOperator_Success(t *testing.T) {
	creator := new(MockOperatorCreator)
	auditor := new(MockAuditor)

	creator.On("CreateOperator", mock.Anything, mock.MatchedBy(func(o *storage.Operator) bool {
		return o.ID != "" && o.Name == "Ana" && o.Code == "1001"
	})).Return(nil)
	auditor.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == "CREATE" && e.Entity == "Operator"
	})).Return()

	rr := post(SaveOperator(slog.Default(), creator, auditor), `{"name": "Ana", "code": "1001"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got storage.Operator
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	assert.Equal(t, "1001", got.Code)
	creator.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestSaveOperator_InvalidCode(t *testing.T) {
	creator := new(MockOperatorCreator)

	for _, code := range []string{"12", "12345", "12a4", "1.23", "-123", "+123", "1e10"} {
		rr := post(SaveOperator(slog.Default(), creator, new(MockAuditor)), fmt.Sprintf(`{"name": "Ana", "code": %q}`, code))
		assert.Equal(t, http.StatusBadRequest, rr.Code, code)
	}
	creator.AssertNotCalled(t, "CreateOperator", mock.Anything, mock.Anything)
}

func TestSaveOperator_SignedCodeMessage(t *testing.T) {
	rr := post(SaveOperator(slog.Default(), new(MockOperatorCreator), new(MockAuditor)), `{"name": "Ana", "code": "-123"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	require.NoError(t, render.DecodeJSON(rr.Body, &body))
	assert.Equal(t, "code must contain only digits", body["error"])
}

func TestSaveOperator_DuplicateCode(t *testing.T) {
	creator := new(MockOperatorCreator)
	creator.On("CreateOperator", mock.Anything, mock.Anything).Return(fmt.Errorf("x: %w", storage.ErrExists))

	rr := post(SaveOperator(slog.Default(), creator, new(MockAuditor)), `{"name": "Ana", "code": "1001"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	var body map[string]string
	require.NoError(t, render.DecodeJSON(rr.Body, &body))
	assert.Equal(t, "operator already exists", body["error"])
}
