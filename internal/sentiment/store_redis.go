package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

const (
	windowKeyFmt = "fairwaylive:%s:mood"
	latestKeyFmt = "fairwaylive:%s:mood:players"
)

// RedisStore shares the mood window across server instances. The window is a
// Redis list trimmed to historyCapacity; per-player latest values live in a
// hash keyed by player id.
type RedisStore struct {
	rdb       *goredis.Client
	sessionID string
}

func NewRedisStore(rdb *goredis.Client, sessionID string) *RedisStore {
	return &RedisStore{rdb: rdb, sessionID: sessionID}
}

func (s *RedisStore) windowKey() string {
	return fmt.Sprintf(windowKeyFmt, s.sessionID)
}

func (s *RedisStore) latestKey() string {
	return fmt.Sprintf(latestKeyFmt, s.sessionID)
}

func (s *RedisStore) Append(ctx context.Context, sample domain.SentimentSample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, s.windowKey(), data)
	pipe.LTrim(ctx, s.windowKey(), int64(-historyCapacity), -1)
	pipe.HSet(ctx, s.latestKey(), sample.PlayerID, sample.Value)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append mood sample: %w", err)
	}
	return nil
}

func (s *RedisStore) Average(ctx context.Context) (float64, error) {
	entries, err := s.rdb.LRange(ctx, s.windowKey(), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("read mood window: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	sum := 0.0
	counted := 0
	for _, raw := range entries {
		var sample domain.SentimentSample
		if err := json.Unmarshal([]byte(raw), &sample); err != nil {
			continue // corrupt entry, skip
		}
		sum += sample.Value
		counted++
	}
	if counted == 0 {
		return 0, nil
	}
	return sum / float64(counted), nil
}

func (s *RedisStore) Latest(ctx context.Context, playerID string) (float64, bool, error) {
	raw, err := s.rdb.HGet(ctx, s.latestKey(), playerID).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read latest sentiment: %w", err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("latest sentiment has invalid value %q: %w", raw, err)
	}
	return v, true, nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.windowKey(), s.latestKey()).Err(); err != nil {
		return fmt.Errorf("reset mood store: %w", err)
	}
	return nil
}
