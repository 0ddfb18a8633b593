package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/tracking"
)

func TestFail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &tracking.Error{Kind: tracking.ErrValidation, Message: "piece_id is required"}, http.StatusBadRequest, "piece_id is required"},
		{"tracking not found", &tracking.Error{Kind: tracking.ErrNotFound, Message: "no open production interval"}, http.StatusNotFound, "no open production interval"},
		{"invalid state", &tracking.Error{Kind: tracking.ErrInvalidState, Message: "preparation not started"}, http.StatusConflict, "preparation not started"},
		{"storage not found", fmt.Errorf("storage.sqlstore.GetOperator: %w", storage.ErrNotFound), http.StatusNotFound, "operator not found"},
		{"exists", fmt.Errorf("op: %w", storage.ErrExists), http.StatusConflict, "operator already exists"},
		{"in use", fmt.Errorf("op: %w", storage.ErrInUse), http.StatusConflict, "operator is still referenced"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			Fail(rr, req, slog.Default(), "test", "operator", tc.err)

			assert.Equal(t, tc.status, rr.Code)
			var body ErrorResponse
			require.NoError(t, render.DecodeJSON(rr.Body, &body))
			assert.Equal(t, tc.msg, body.Error)
		})
	}
}
