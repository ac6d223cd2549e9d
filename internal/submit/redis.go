package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Redis keys.
const (
	QueueKey     = "seatwork:submissions"
	latestPrefix = "seatwork:latest:"
	queuedPrefix = "seatwork:queued:"
)

// queuedTTL bounds how long a session is remembered as already queued.
const queuedTTL = 7 * 24 * time.Hour

// enqueueScript pushes the payload only the first time a session is seen,
// and always refreshes the latest copy. KEYS: marker, queue, latest.
// ARGV: payload, marker TTL in seconds. Returns 1 when pushed.
var enqueueScript = redis.NewScript(`
local pushed = 0
if redis.call('SET', KEYS[1], '1', 'NX', 'EX', ARGV[2]) then
	redis.call('RPUSH', KEYS[2], ARGV[1])
	pushed = 1
end
redis.call('SET', KEYS[3], ARGV[1])
return pushed
`)

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return rdb, nil
}

// RedisQueue pushes submissions onto a list for a downstream consumer and
// keeps the latest submission per key.
type RedisQueue struct {
	rdb *redis.Client
	key string
	log zerolog.Logger
}

// NewRedisQueue creates a queue on QueueKey.
func NewRedisQueue(rdb *redis.Client, log zerolog.Logger) *RedisQueue {
	return &RedisQueue{
		rdb: rdb,
		key: QueueKey,
		log: log.With().Str("component", "submit_queue").Logger(),
	}
}

// LatestKey returns the key holding the latest submission for the triple.
func LatestKey(userID, mode, itemID string) string {
	return latestPrefix + userID + ":" + mode + ":" + itemID
}

// QueuedKey returns the marker recording that a session was pushed.
func QueuedKey(sessionID string) string {
	return queuedPrefix + sessionID
}

// Submit pushes sub onto the queue once per session. A retry of the same
// session only refreshes the latest copy.
func (q *RedisQueue) Submit(ctx context.Context, sub quiz.Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	keys := []string{QueuedKey(sub.SessionID), q.key, LatestKey(sub.UserID, sub.Mode, sub.ItemID)}
	pushed, err := enqueueScript.Run(ctx, q.rdb, keys, payload, int64(queuedTTL/time.Second)).Int()
	if err != nil {
		return fmt.Errorf("enqueue submission: %w", err)
	}

	q.log.Debug().
		Str("session_id", sub.SessionID).
		Int("score", sub.Score).
		Bool("duplicate", pushed == 0).
		Msg("submission queued")
	return nil
}

// Pending returns the number of queued submissions.
func (q *RedisQueue) Pending(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue length: %w", err)
	}
	return n, nil
}

// Latest returns the latest queued submission for the triple, or nil.
func (q *RedisQueue) Latest(ctx context.Context, userID, mode, itemID string) (*quiz.Submission, error) {
	raw, err := q.rdb.Get(ctx, LatestKey(userID, mode, itemID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest submission: %w", err)
	}
	var sub quiz.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	return &sub, nil
}
