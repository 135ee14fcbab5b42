package sessions

import (
	"context"
	"sync"
	"time"

	"lafelle.com/app/internal/catalogapi"
)

// MemoryStore keeps sessions in process; they are lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*Session
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]*Session{}, now: time.Now}
}

func (s *MemoryStore) Create(ctx context.Context, token string, user catalogapi.User, ttl time.Duration) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := newSession(token, user, ttl, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.items[sess.ID] = &cp
	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok || sess.Expired(s.now()) {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Touch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.items[id]; ok {
		sess.LastSeenAt = s.now()
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for id, sess := range s.items {
		if sess.Expired(now) {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}
