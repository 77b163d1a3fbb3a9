package dedup

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 10 * time.Minute

// userSet holds one user's seen items in a category with per-item
// expiry. Each set has its own lock so users do not contend.
type userSet struct {
	mu    sync.Mutex
	items map[string]time.Time
}

// MemoryStore is an in-process Store. A background sweeper drops
// expired entries so long-running processes do not accumulate every
// item ever shown.
type MemoryStore struct {
	ttl  time.Duration
	now  func() time.Time
	stop chan struct{}

	mu   sync.RWMutex
	sets map[string]*userSet
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
		sets: make(map[string]*userSet),
	}
	go s.sweep()
	return s
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() {
	close(s.stop)
}

func setKey(category, userID string) string {
	return category + ":" + userID
}

func (s *MemoryStore) getSet(key string, create bool) *userSet {
	s.mu.RLock()
	set := s.sets[key]
	s.mu.RUnlock()
	if set != nil || !create {
		return set
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if set = s.sets[key]; set == nil {
		set = &userSet{items: make(map[string]time.Time)}
		s.sets[key] = set
	}
	return set
}

func (s *MemoryStore) Contains(_ context.Context, category, userID, item string) (bool, error) {
	set := s.getSet(setKey(category, userID), false)
	if set == nil {
		return false, nil
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	expiry, ok := set.items[item]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(set.items, item)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Add(_ context.Context, category, userID string, items []string) error {
	if len(items) == 0 {
		return nil
	}

	set := s.getSet(setKey(category, userID), true)
	expiry := s.now().Add(s.ttl)

	set.mu.Lock()
	defer set.mu.Unlock()
	for _, item := range items {
		set.items[item] = expiry
	}
	return nil
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryStore) removeExpired() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, set := range s.sets {
		set.mu.Lock()
		for item, expiry := range set.items {
			if now.After(expiry) {
				delete(set.items, item)
			}
		}
		empty := len(set.items) == 0
		set.mu.Unlock()
		if empty {
			delete(s.sets, key)
		}
	}
}
