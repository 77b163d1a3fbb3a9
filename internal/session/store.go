package session

import (
	"context"
	"sync"
	"time"
)

// Store persists sessions. Implementations must serialize writes for
// the same user so concurrent turns cannot interleave a
// read-modify-write.
type Store interface {
	// Load returns the user's session, creating an empty one if the
	// user is new.
	Load(ctx context.Context, userID string) (*Session, error)

	// History returns the user's most recent messages, oldest first,
	// capped at limit. limit <= 0 means no cap.
	History(ctx context.Context, userID string, limit int) ([]Message, error)

	// AppendMessage adds one message to the user's history.
	AppendMessage(ctx context.Context, userID string, msg Message) error

	// SetLastVisit records the time of the user's latest turn.
	SetLastVisit(ctx context.Context, userID string, t time.Time) error

	// MergeProfile normalizes the patch over the stored profile and
	// returns the merged result.
	MergeProfile(ctx context.Context, userID string, patch map[string]string) (map[string]string, error)
}

// keyedMutex hands out one mutex per key so stores can lock a single
// user without blocking the rest.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
