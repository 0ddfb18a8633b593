package sessions

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/tracking"
)

type MockSessionTracker struct {
	mock.Mock
}

func (m *MockSessionTracker) call(name string, ctx context.Context, operatorID, serviceID string) (*tracking.SessionView, error) {
	args := m.MethodCalled(name, ctx, operatorID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.SessionView), args.Error(1)
}

func (m *MockSessionTracker) StartSession(ctx context.Context, o, s string) (*tracking.SessionView, error) {
	return m.call("start", ctx, o, s)
}

func (m *MockSessionTracker) PauseSession(ctx context.Context, o, s string) (*tracking.SessionView, error) {
	return m.call("pause", ctx, o, s)
}

func (m *MockSessionTracker) ResumeSession(ctx context.Context, o, s string) (*tracking.SessionView, error) {
	return m.call("resume", ctx, o, s)
}

func (m *MockSessionTracker) EndSession(ctx context.Context, o, s string) (*tracking.SessionView, error) {
	return m.call("end", ctx, o, s)
}

func (m *MockSessionTracker) CurrentSession(ctx context.Context, o, s string) (*tracking.SessionView, error) {
	return m.call("current", ctx, o, s)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/production/sessions", strings.NewReader(body)))
	return rr
}

func view(state tracking.SessionState) *tracking.SessionView {
	return &tracking.SessionView{
		OperationSession: &storage.OperationSession{ID: "sess-1", OperatorID: "o1", ServiceID: "s1", StartedAt: time.Now()},
		State:            state,
	}
}

func TestChangeSession_Actions(t *testing.T) {
	cases := []struct {
		action string
		state  tracking.SessionState
		status int
	}{
		{"start", tracking.SessionRunning, http.StatusCreated},
		{"pause", tracking.SessionPaused, http.StatusOK},
		{"resume", tracking.SessionRunning, http.StatusOK},
		{"end", tracking.SessionEnded, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			tracker := new(MockSessionTracker)
			tracker.On(tc.action, mock.Anything, "o1", "s1").Return(view(tc.state), nil)

			rr := post(ChangeSession(slog.Default(), tracker),
				`{"operator_id": "o1", "service_id": "s1", "action": "`+tc.action+`"}`)

			assert.Equal(t, tc.status, rr.Code)
			var body map[string]any
			require.NoError(t, render.DecodeJSON(rr.Body, &body))
			assert.Equal(t, tc.state.String(), body["state"])
			assert.Equal(t, "sess-1", body["id"])
			tracker.AssertExpectations(t)
		})
	}
}

func TestChangeSession_UnknownAction(t *testing.T) {
	tracker := new(MockSessionTracker)

	rr := post(ChangeSession(slog.Default(), tracker), `{"operator_id": "o1", "service_id": "s1", "action": "stop"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	tracker.AssertNotCalled(t, "start", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeSession_Conflict(t *testing.T) {
	tracker := new(MockSessionTracker)
	tracker.On("start", mock.Anything, "o1", "s1").
		Return(nil, &tracking.Error{Kind: tracking.ErrConflict, Message: "session already running"})

	rr := post(ChangeSession(slog.Default(), tracker), `{"operator_id": "o1", "service_id": "s1", "action": "start"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	var body map[string]string
	require.NoError(t, render.DecodeJSON(rr.Body, &body))
	assert.Equal(t, "session already running", body["error"])
}

func TestGetSession_NotStarted(t *testing.T) {
	tracker := new(MockSessionTracker)
	tracker.On("current", mock.Anything, "o1", "s1").Return(nil, nil)

	rr := httptest.NewRecorder()
	GetSession(slog.Default(), tracker).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/production/sessions?operator_id=o1&service_id=s1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, render.DecodeJSON(rr.Body, &body))
	assert.Equal(t, "not_started", body["state"])
}
