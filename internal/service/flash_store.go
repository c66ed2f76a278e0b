package service

import (
	"sync"
	"time"
)

// FlashStore holds per-session flash queues across the redirect boundary.
// Queues not drained within the TTL are dropped by Sweep.
type FlashStore struct {
	mu     sync.Mutex
	queues map[string]flashQueue
	ttl    time.Duration
	nowFn  func() time.Time
}

type flashQueue struct {
	flashes []Flash
	touched time.Time
}

func NewFlashStore(ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &FlashStore{
		queues: make(map[string]flashQueue),
		ttl:    ttl,
		nowFn:  time.Now,
	}
}

// Push appends flashes to the session's queue.
func (s *FlashStore) Push(sessionID string, flashes ...Flash) {
	if sessionID == "" || len(flashes) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[sessionID]
	q.flashes = append(q.flashes, flashes...)
	q.touched = s.nowFn()
	s.queues[sessionID] = q
}

// Drain returns and clears the session's queued flashes.
func (s *FlashStore) Drain(sessionID string) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[sessionID]
	if !ok {
		return nil
	}
	delete(s.queues, sessionID)
	return q.flashes
}

// Sweep drops queues that have not been touched within the TTL.
func (s *FlashStore) Sweep() {
	cutoff := s.nowFn().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range s.queues {
		if q.touched.Before(cutoff) {
			delete(s.queues, id)
		}
	}
}
