package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultStream = "casting-tracker:events"

type RedisPublisher struct {
	client redis.Cmdable
	stream string
	log    *slog.Logger
}

func NewRedisPublisher(client redis.Cmdable, stream string, log *slog.Logger) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream, log: log}
}

// Publish appends the event to the stream. Failures are logged and dropped.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) {
	const op = "events.RedisPublisher.Publish"

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values(e),
	}).Err()
	if err != nil {
		p.log.Error("failed to publish event",
			slog.String("op", op),
			slog.String("type", e.Type),
			slog.String("error", err.Error()),
		)
	}
}

func values(e Event) []interface{} {
	v := []interface{}{"type", e.Type, "at", e.At.UTC().Format(time.RFC3339Nano)}
	for _, kv := range [][2]string{
		{"service_id", e.ServiceID},
		{"piece_id", e.PieceID},
		{"operator_id", e.OperatorID},
		{"record_id", e.RecordID},
	} {
		if kv[1] != "" {
			v = append(v, kv[0], kv[1])
		}
	}
	return v
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	const op = "events.Connect"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", op, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return client, nil
}
