package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using pgx. Profile merges take a
// per-user lock so concurrent patches cannot lose writes.
type PostgresStore struct {
	pool  *pgxpool.Pool
	locks *keyedMutex
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, locks: newKeyedMutex()}
}

// ensure creates the session row if the user is new.
func (s *PostgresStore) ensure(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ensuring session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*Session, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	var sess Session
	var profile json.RawMessage
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, last_visit, profile FROM sessions WHERE user_id = $1`,
		userID,
	).Scan(&sess.UserID, &sess.LastVisit, &profile)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	sess.Profile = make(map[string]string)
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &sess.Profile); err != nil {
			return nil, fmt.Errorf("decoding profile: %w", err)
		}
	}
	return &sess, nil
}

func (s *PostgresStore) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	query := `SELECT role, content, created_at FROM session_messages
	          WHERE user_id = $1 ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returns newest first, callers want oldest first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *PostgresStore) AppendMessage(ctx context.Context, userID string, msg Message) error {
	if err := s.ensure(ctx, userID); err != nil {
		return err
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_messages (user_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4)`,
		userID, msg.Role, msg.Content, ts,
	)
	if err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetLastVisit(ctx context.Context, userID string, t time.Time) error {
	if err := s.ensure(ctx, userID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE sessions SET last_visit = $2, updated_at = now() WHERE user_id = $1`,
		userID, t,
	)
	if err != nil {
		return fmt.Errorf("updating last visit: %w", err)
	}
	return nil
}

func (s *PostgresStore) MergeProfile(ctx context.Context, userID string, patch map[string]string) (map[string]string, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := NormalizeProfile(sess.Profile, patch)
	profileBytes, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE sessions SET profile = $2, updated_at = now() WHERE user_id = $1`,
		userID, profileBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return merged, nil
}
