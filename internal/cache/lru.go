package cache

import (
	"container/list"
	"sync"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
)

// KeySet is a bounded, least-recently-used membership set. The writer uses
// it to remember which profile addresses are known to exist, so repeat
// follows skip the stub insert. Rows are never deleted from profiles, so
// entries do not expire.
type KeySet[K comparable] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List
}

// NewKeySet returns a set holding at most capacity keys. A non-positive
// capacity yields a set that never remembers anything.
func NewKeySet[K comparable](capacity int) *KeySet[K] {
	if capacity < 0 {
		capacity = 0
	}
	return &KeySet[K]{
		capacity: capacity,
		items:    make(map[K]*list.Element, min(capacity, 1024)),
		order:    list.New(),
	}
}

// Contains reports membership and refreshes the key on a hit.
func (s *KeySet[K]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		metrics.ProfileCacheMisses.Inc()
		return false
	}
	s.order.MoveToFront(elem)
	metrics.ProfileCacheHits.Inc()
	return true
}

// Add inserts keys, evicting the least recently used ones past capacity.
func (s *KeySet[K]) Add(keys ...K) {
	if s.capacity == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if elem, ok := s.items[key]; ok {
			s.order.MoveToFront(elem)
			continue
		}
		for s.order.Len() >= s.capacity {
			oldest := s.order.Back()
			s.order.Remove(oldest)
			delete(s.items, oldest.Value.(K))
		}
		s.items[key] = s.order.PushFront(key)
	}
}

// Remove forgets keys, for example after a rollback made them unreliable.
func (s *KeySet[K]) Remove(keys ...K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if elem, ok := s.items[key]; ok {
			s.order.Remove(elem)
			delete(s.items, key)
		}
	}
}

func (s *KeySet[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
