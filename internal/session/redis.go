package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisHistoryMax bounds the stored history list. It stays well above
// every read window, diary summaries included.
const redisHistoryMax = 200

// RedisStore implements Store on Redis. The session lives in a hash,
// the history in a list trimmed to the newest redisHistoryMax entries.
type RedisStore struct {
	client *redis.Client
	locks  *keyedMutex
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, locks: newKeyedMutex()}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

func historyKey(userID string) string {
	return fmt.Sprintf("session:%s:messages", userID)
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", sessionKey(userID), err)
	}

	sess := &Session{UserID: userID, Profile: make(map[string]string)}
	if raw := fields["last_visit"]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err == nil {
			sess.LastVisit = &t
		}
	}
	if raw := fields["profile"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.Profile); err != nil {
			return nil, fmt.Errorf("decoding profile: %w", err)
		}
	}
	return sess, nil
}

func (s *RedisStore) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	key := historyKey(userID)

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	vals, err := s.client.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	msgs := make([]Message, 0, len(vals))
	for _, v := range vals {
		var m Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue // skip malformed entries
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, userID string, msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	key := historyKey(userID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, -redisHistoryMax, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("appending message to %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) SetLastVisit(ctx context.Context, userID string, t time.Time) error {
	err := s.client.HSet(ctx, sessionKey(userID), "last_visit", t.Format(time.RFC3339Nano)).Err()
	if err != nil {
		return fmt.Errorf("hset %s: %w", sessionKey(userID), err)
	}
	return nil
}

func (s *RedisStore) MergeProfile(ctx context.Context, userID string, patch map[string]string) (map[string]string, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := NormalizeProfile(sess.Profile, patch)
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	if err := s.client.HSet(ctx, sessionKey(userID), "profile", string(data)).Err(); err != nil {
		return nil, fmt.Errorf("hset %s: %w", sessionKey(userID), err)
	}
	return merged, nil
}
