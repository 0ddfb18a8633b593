package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisPublisher_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	pub := NewRedisPublisher(client, "test-stream", slog.New(slog.NewTextHandler(io.Discard, nil)))

	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: "test-stream",
		Values: []interface{}{
			"type", "production.finish",
			"at", "2025-03-01T08:00:00Z",
			"service_id", "svc-1",
			"piece_id", "piece-1",
			"operator_id", "op-1",
		},
	}).SetVal("1-0")

	pub.Publish(context.Background(), Event{
		Type:       "production.finish",
		ServiceID:  "svc-1",
		PieceID:    "piece-1",
		OperatorID: "op-1",
		At:         at,
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPublisher_PublishErrorIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	pub := NewRedisPublisher(client, "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: DefaultStream,
		Values: []interface{}{"type", "session.start", "at", "2025-03-01T08:00:00Z"},
	}).SetErr(errors.New("connection refused"))

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), Event{
			Type: "session.start",
			At:   time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
