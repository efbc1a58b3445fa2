package dialogue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/easeaico/project-integrate/internal/models"
	"github.com/easeaico/project-integrate/internal/session"
)

type fakeCompleter struct {
	mu       sync.Mutex
	replies  []string
	err      error
	block    bool
	delay    time.Duration
	calls    int
	requests []models.Request

	inFlight int
	peak     int
}

func (f *fakeCompleter) Complete(ctx context.Context, req models.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	f.peak = max(f.peak, f.inFlight)
	f.requests = append(f.requests, req)
	block, err := f.block, f.err
	var reply string
	if len(f.replies) > 0 {
		reply = f.replies[0]
		if len(f.replies) > 1 {
			f.replies = f.replies[1:]
		}
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	if block {
		<-ctx.Done()
		return "", &models.RemoteError{Status: models.StatusClientClosed, Message: "cancelled", Err: ctx.Err()}
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (f *fakeCompleter) peakInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errRemoteDown = &models.RemoteError{Status: 502, Message: "bad gateway"}

type fakeStore struct {
	*session.MemoryStore
	loadErr error
	saveErr error

	mu    sync.Mutex
	saves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{MemoryStore: session.NewMemoryStore()}
}

func (s *fakeStore) Load(ctx context.Context, id string) (*session.Document, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(ctx, id)
}

func (s *fakeStore) Save(ctx context.Context, id string, doc *session.Document) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(ctx, id, doc)
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

var errDatabaseDown = errors.New("database is down")
