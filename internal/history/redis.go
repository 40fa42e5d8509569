// ABOUTME: Redis-backed history store for multi-process deployments
// ABOUTME: One JSON value per session with a sliding TTL
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/support-desk/internal/models"
	"github.com/harper/support-desk/internal/util"
	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "support:session:"
	sessionTTL    = 24 * time.Hour
)

// RedisStore keeps session histories in Redis so any server instance can
// continue a conversation. Histories expire after a day of inactivity.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis at addr and verifies the connection,
// retrying briefly so the server can come up alongside Redis.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	var lastErr error
	for attempt := 0; attempt <= 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(500*time.Millisecond, attempt)):
			case <-ctx.Done():
				_ = rdb.Close()
				return nil, ctx.Err()
			}
		}
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			return &RedisStore{rdb: rdb}, nil
		}
	}
	_ = rdb.Close()
	return nil, fmt.Errorf("connecting to redis at %s: %w", addr, lastErr)
}

// Load returns the session's history; a missing key is an empty history.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]models.Message, error) {
	data, err := s.rdb.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	var history []models.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("unmarshaling session %s: %w", sessionID, err)
	}
	return history, nil
}

// Save replaces the session's history and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, history []models.Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling session %s: %w", sessionID, err)
	}
	if err := s.rdb.Set(ctx, sessionPrefix+sessionID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
