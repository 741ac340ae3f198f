package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/german-fros/tablero-api/internal/platform/resilience"
)

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Store is a TTL cache with an optional entry cap. When the cap is set,
// inserting past capacity evicts the least recently used entry; both reads
// and writes refresh recency.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	recency    *list.List
	ttl        time.Duration
	maxEntries int
	flight     resilience.SingleFlight
}

// NewStore builds a store with the given TTL and entry cap. ttl <= 0 means
// entries never expire; maxEntries <= 0 means the store is unbounded.
func NewStore(ttl time.Duration, maxEntries int) *Store {
	return &Store{
		entries:    make(map[string]*list.Element),
		recency:    list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.removeLocked(elem)
		return nil, false
	}
	s.recency.MoveToFront(elem)

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		s.recency.MoveToFront(elem)
		return
	}

	elem := s.recency.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	s.entries[key] = elem

	if s.maxEntries > 0 {
		for len(s.entries) > s.maxEntries {
			oldest := s.recency.Back()
			if oldest == nil {
				break
			}
			s.removeLocked(oldest)
		}
	}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.entries[key]; ok {
		s.removeLocked(elem)
	}
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, elem := range s.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.removeLocked(elem)
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(s.entries, e.key)
	s.recency.Remove(elem)
}

// GetOrLoad returns the cached value for key, or runs loader to compute and
// cache it. Concurrent loads for the same key are collapsed into one call.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
