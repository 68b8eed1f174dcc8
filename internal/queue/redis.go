// Package queue delivers "process this video" tasks to the worker pool.
// Delivery is at-least-once: a redelivered task re-runs the whole pipeline.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/domain"
)

// Task is one unit of queued work.
type Task struct {
	ID         string    `json:"id"`
	VideoID    int64     `json:"video_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`

	// payload is the exact wire bytes the task was delivered as, kept so
	// Ack can remove that entry from the in-flight list.
	payload []byte
}

// Queue is the submission queue consumed by the worker pool.
type Queue interface {
	// Enqueue adds a task for a video and returns the queue-assigned id.
	Enqueue(ctx context.Context, videoID domain.VideoID) (string, error)

	// Dequeue blocks up to timeout for the next task. Returns
	// domain.ErrNoTasks when none arrived in time. A dequeued task stays
	// in flight until acked; unacked tasks are redelivered.
	Dequeue(ctx context.Context, timeout time.Duration) (*Task, error)

	// Ack marks a dequeued task as done so it is never redelivered.
	Ack(ctx context.Context, task *Task) error
}

// RedisQueue implements Queue over a pair of Redis lists. Tasks wait on the
// main list and are moved atomically (BLMOVE) onto a processing list while a
// worker holds them, so a worker crash leaves the task parked rather than
// lost. Recover pushes parked tasks back onto the main list at startup.
type RedisQueue struct {
	client        *redis.Client
	key           string
	processingKey string
}

// NewRedisQueue connects to Redis and verifies the connection.
func NewRedisQueue(cfg config.RedisConfig) (*RedisQueue, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisQueue{
		client:        client,
		key:           cfg.QueueKey,
		processingKey: cfg.QueueKey + ":processing",
	}, nil
}

// Enqueue adds a task for a video and returns the queue-assigned id.
func (q *RedisQueue) Enqueue(ctx context.Context, videoID domain.VideoID) (string, error) {
	task := Task{
		ID:         uuid.NewString(),
		VideoID:    int64(videoID),
		EnqueuedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("marshal task: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}

	return task.ID, nil
}

// Dequeue blocks up to timeout for the next task, moving it onto the
// processing list until Ack.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	payload, err := q.client.BLMove(ctx, q.key, q.processingKey, "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNoTasks
	}
	if err != nil {
		return nil, fmt.Errorf("blmove: %w", err)
	}

	var task Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	task.payload = []byte(payload)

	return &task, nil
}

// Ack removes a delivered task from the processing list.
func (q *RedisQueue) Ack(ctx context.Context, task *Task) error {
	if err := q.client.LRem(ctx, q.processingKey, 1, task.payload).Err(); err != nil {
		return fmt.Errorf("lrem: %w", err)
	}
	return nil
}

// Recover requeues tasks parked on the processing list by a previous run
// that died mid-pipeline. Call once at startup, before workers start.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	recovered := 0
	for {
		err := q.client.LMove(ctx, q.processingKey, q.key, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return recovered, nil
		}
		if err != nil {
			return recovered, fmt.Errorf("lmove: %w", err)
		}
		recovered++
	}
}

// Len returns the number of queued tasks.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Close closes the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
