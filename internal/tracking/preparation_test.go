package tracking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/tracking"
)

func TestPreparation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(t, 1)

	_, err := f.tracker.FinishPreparation(ctx, svc.ID)
	assert.ErrorIs(t, err, tracking.ErrInvalidState)

	status, err := f.tracker.PreparationStatus(ctx, svc.ID)
	require.NoError(t, err)
	assert.False(t, status.Started)

	status, err = f.tracker.StartPreparation(ctx, svc.ID)
	require.NoError(t, err)
	assert.True(t, status.Started)
	assert.False(t, status.Finished)

	_, err = f.tracker.StartPreparation(ctx, svc.ID)
	assert.ErrorIs(t, err, tracking.ErrInvalidState)

	f.clock.Advance(42*time.Minute + 500*time.Millisecond)
	status, err = f.tracker.FinishPreparation(ctx, svc.ID)
	require.NoError(t, err)
	assert.True(t, status.Finished)
	assert.Equal(t, int64(42*60), *status.Seconds)

	_, err = f.tracker.FinishPreparation(ctx, svc.ID)
	assert.ErrorIs(t, err, tracking.ErrInvalidState)
	var terr *tracking.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "preparation already finished", terr.Message)

	times, err := f.tracker.ServiceTimes(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42*60), times.PreparationSeconds)
	assert.Equal(t, times.PreparationSeconds, times.TotalSeconds)

	_, err = f.tracker.StartPreparation(ctx, "missing")
	assert.ErrorIs(t, err, tracking.ErrNotFound)
}
