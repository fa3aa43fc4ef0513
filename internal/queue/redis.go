package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list workers consume from.
const DefaultQueueKey = "reelgen:jobs:generate_video"

// RedisEnqueuer implements Enqueuer on top of a Redis list. Work items
// are pushed as JSON; workers pop from the other end.
type RedisEnqueuer struct {
	client   *redis.Client
	queueKey string
	logger   *slog.Logger
}

// Ensure RedisEnqueuer implements the Enqueuer interface
var _ Enqueuer = (*RedisEnqueuer)(nil)

// NewRedisEnqueuer creates a Redis-backed enqueuer. An empty queueKey
// selects DefaultQueueKey. If logger is nil, the process default is used.
func NewRedisEnqueuer(client *redis.Client, queueKey string, log *slog.Logger) *RedisEnqueuer {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if queueKey == "" {
		queueKey = DefaultQueueKey
	}
	if log == nil {
		log = slog.Default()
	}

	return &RedisEnqueuer{
		client:   client,
		queueKey: queueKey,
		logger:   log.With(slog.String("component", "redis_enqueuer")),
	}
}

// Enqueue implements Enqueuer.Enqueue by pushing the JSON-encoded spec
// onto the queue list. The push is awaited so the caller only receives
// success once the queue backend has accepted the item.
func (e *RedisEnqueuer) Enqueue(ctx context.Context, spec GenerationSpec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode generation spec: %w", err)
	}

	if err := e.client.RPush(ctx, e.queueKey, payload).Err(); err != nil {
		e.logger.Error("failed to enqueue generation spec",
			slog.String("error", err.Error()),
			slog.String("video_id", spec.VideoID.String()),
			slog.String("queue_key", e.queueKey))
		return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	e.logger.Info("generation spec enqueued",
		slog.String("video_id", spec.VideoID.String()),
		slog.String("job_name", spec.JobName))
	return nil
}

// Ping verifies connectivity to the queue backend. Called once at
// startup so a misconfigured queue fails fast.
func (e *RedisEnqueuer) Ping(ctx context.Context) error {
	if err := e.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}
	return nil
}
