package tracking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/tracking"
)

func at(d time.Duration) *time.Time {
	v := t0.Add(d)
	return &v
}

func TestIntervalSeconds(t *testing.T) {
	assert.Equal(t, int64(90), tracking.IntervalSeconds(t0, t0.Add(90*time.Second)))
	assert.Equal(t, int64(90), tracking.IntervalSeconds(t0, t0.Add(90*time.Second+999*time.Millisecond)), "floored")
	assert.Equal(t, int64(0), tracking.IntervalSeconds(t0, t0.Add(-time.Minute)), "reversed")
	assert.Equal(t, int64(0), tracking.IntervalSeconds(t0, t0))
}

func TestSessionSeconds(t *testing.T) {
	tests := []struct {
		name    string
		session storage.OperationSession
		now     time.Time
		want    int64
	}{
		{
			name:    "pause and resume",
			session: storage.OperationSession{StartedAt: t0, PauseStartedAt: at(100 * time.Second), PauseEndedAt: at(400 * time.Second), EndedAt: at(500 * time.Second)},
			want:    200,
		},
		{
			name:    "running without pause uses now",
			session: storage.OperationSession{StartedAt: t0},
			now:     t0.Add(75 * time.Second),
			want:    75,
		},
		{
			name:    "open pause is not subtracted",
			session: storage.OperationSession{StartedAt: t0, PauseStartedAt: at(10 * time.Second)},
			now:     t0.Add(60 * time.Second),
			want:    60,
		},
		{
			name:    "reversed pause counts as zero",
			session: storage.OperationSession{StartedAt: t0, PauseStartedAt: at(50 * time.Second), PauseEndedAt: at(20 * time.Second), EndedAt: at(100 * time.Second)},
			want:    100,
		},
		{
			name:    "pause longer than session clamps at zero",
			session: storage.OperationSession{StartedAt: t0, PauseStartedAt: at(0), PauseEndedAt: at(time.Hour), EndedAt: at(time.Minute)},
			want:    0,
		},
		{
			name:    "end before start",
			session: storage.OperationSession{StartedAt: t0, EndedAt: at(-time.Minute)},
			want:    0,
		},
		{
			name:    "fractional seconds floor on each side",
			session: storage.OperationSession{StartedAt: t0, PauseStartedAt: at(1500 * time.Millisecond), PauseEndedAt: at(2900 * time.Millisecond), EndedAt: at(10900 * time.Millisecond)},
			want:    9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tracking.SessionSeconds(tt.session, tt.now))
		})
	}
}

func TestTotalSecondsAndCompleteTime(t *testing.T) {
	sessions := []storage.OperationSession{
		{StartedAt: t0, EndedAt: at(time.Hour)},
		{StartedAt: t0.Add(2 * time.Hour), PauseStartedAt: at(150 * time.Minute), PauseEndedAt: at(160 * time.Minute), EndedAt: at(3 * time.Hour)},
	}

	assert.Equal(t, int64(3600+3000), tracking.TotalSeconds(sessions, t0))
	assert.Equal(t, int64(0), tracking.TotalSeconds(nil, t0))

	ct := tracking.ComputeCompleteTime(sessions, 600, t0)
	assert.Equal(t, int64(600), ct.PreparationSeconds)
	assert.Equal(t, int64(6600), ct.ProductionSeconds)
	assert.Equal(t, int64(7200), ct.TotalSeconds)
	assert.Equal(t, "02:00:00", ct.Total)
	assert.Equal(t, "00:10:00", ct.Preparation)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00:00", tracking.FormatClock(0))
	assert.Equal(t, "01:01:01", tracking.FormatClock(3661))
	assert.Equal(t, "27:46:40", tracking.FormatClock(100000))
	assert.Equal(t, "00:00:00", tracking.FormatClock(-5))

	assert.Equal(t, "0s", tracking.FormatShort(0))
	assert.Equal(t, "45s", tracking.FormatShort(45))
	assert.Equal(t, "2m 5s", tracking.FormatShort(125))
	assert.Equal(t, "1h 0m 1s", tracking.FormatShort(3601))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, tracking.SessionNotStarted, tracking.StateOf(nil))
	assert.Equal(t, tracking.SessionRunning, tracking.StateOf(&storage.OperationSession{StartedAt: t0}))
	assert.Equal(t, tracking.SessionPaused, tracking.StateOf(&storage.OperationSession{StartedAt: t0, PauseStartedAt: at(time.Minute)}))
	assert.Equal(t, tracking.SessionRunning, tracking.StateOf(&storage.OperationSession{StartedAt: t0, PauseStartedAt: at(time.Minute), PauseEndedAt: at(2 * time.Minute)}))
	assert.Equal(t, tracking.SessionEnded, tracking.StateOf(&storage.OperationSession{StartedAt: t0, EndedAt: at(time.Hour)}))
	assert.Equal(t, "paused", tracking.SessionPaused.String())
}
