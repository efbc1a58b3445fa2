package session

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Locker serializes turns per session id. Waiting honours ctx.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  *semaphore.Weighted
	refs int
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

// Lock blocks until id is free or ctx is done. The returned func releases the lock
// and must be called exactly once.
func (l *Locker) Lock(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[id]
	if !ok {
		s = &slot{sem: semaphore.NewWeighted(1)}
		l.slots[id] = s
	}
	s.refs++
	l.mu.Unlock()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		l.release(id, s, false)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(id, s, true) })
	}, nil
}

func (l *Locker) release(id string, s *slot, held bool) {
	if held {
		s.sem.Release(1)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, id)
	}
}

// Len returns the number of ids currently locked or waited on.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
