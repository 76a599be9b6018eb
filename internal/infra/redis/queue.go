package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawsuite/notify/internal/core/domain"
)

// retryKey is the sorted set of pending retry jobs, scored by due time.
const retryKey = "notify:retries"

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Queue is the scheduled-retry queue. Jobs are members of a ZSET scored
// by their due unix time, so popping due work is a range query.
type Queue struct {
	rdb *redis.Client
}

// Job is one scheduled re-delivery of a failed trigger.
type Job struct {
	ID         string           `json:"id"`
	Event      domain.EventType `json:"event"`
	Payload    json.RawMessage  `json:"payload"`
	RetryCount int              `json:"retry_count"`
	LastError  string           `json:"last_error,omitempty"`
}

// NewQueue creates a new retry queue client.
func NewQueue(cfg Config) (*Queue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Queue{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (q *Queue) Close() error {
	return q.rdb.Close()
}

// Health checks if the queue is reachable.
func (q *Queue) Health(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

// Schedule enqueues a job to run at the given time.
func (q *Queue) Schedule(ctx context.Context, job Job, due time.Time) error {
	member, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal retry job: %w", err)
	}

	z := redis.Z{Score: float64(due.Unix()), Member: string(member)}
	if err := q.rdb.ZAdd(ctx, retryKey, z).Err(); err != nil {
		return fmt.Errorf("zadd failed: %w", err)
	}
	return nil
}

// PopDue removes and returns up to limit jobs whose due time has passed.
// An unparseable member is dropped rather than poisoning the queue.
func (q *Queue) PopDue(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	opt := &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.Unix()),
		Count: int64(limit),
	}
	members, err := q.rdb.ZRangeByScore(ctx, retryKey, opt).Result()
	if err != nil {
		return nil, fmt.Errorf("zrangebyscore failed: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	jobs := make([]Job, 0, len(members))
	for _, member := range members {
		if err := q.rdb.ZRem(ctx, retryKey, member).Err(); err != nil {
			return jobs, fmt.Errorf("zrem failed: %w", err)
		}
		var job Job
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Depth returns the number of pending jobs.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.rdb.ZCard(ctx, retryKey).Result()
}
