package report

import (
	"container/list"
	"sync"
)

// LRUStore is an in-memory LRU cache that delegates to a backing Store
// on miss. Recent reports stay loadable without touching disk.
type LRUStore struct {
	mu   sync.Mutex
	cap  int
	back Store

	order *list.List // most recent at front; values are *cached
	items map[string]*list.Element
}

type cached struct {
	key    string
	report *RunReport
}

// NewLRUStore creates an LRU cache with the given capacity delegating
// to back on cache misses. Capacity must be >= 1.
func NewLRUStore(cap int, back Store) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		back:  back,
		order: list.New(),
		items: make(map[string]*list.Element, cap),
	}
}

// Save writes the report to the cache and delegates to the backing store.
func (s *LRUStore) Save(report *RunReport) error {
	s.mu.Lock()
	s.insert(report.ID, report)
	s.mu.Unlock()

	return s.back.Save(report)
}

// Load checks the cache first. On miss, loads from the backing store
// and promotes the report into the cache.
func (s *LRUStore) Load(runID string) (*RunReport, error) {
	s.mu.Lock()
	if el, ok := s.items[runID]; ok {
		s.order.MoveToFront(el)
		r := el.Value.(*cached).report
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	report, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.insert(runID, report)
	s.mu.Unlock()
	return report, nil
}

// insert adds or refreshes an entry and evicts past capacity.
// Callers must hold mu.
func (s *LRUStore) insert(key string, report *RunReport) {
	if el, ok := s.items[key]; ok {
		el.Value.(*cached).report = report
		s.order.MoveToFront(el)
		return
	}
	s.items[key] = s.order.PushFront(&cached{key: key, report: report})
	if s.order.Len() > s.cap {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*cached).key)
	}
}
