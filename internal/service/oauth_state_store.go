package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OAuthStateStore guarda los valores state del flujo OAuth. Cada valor se
// consume una sola vez.
type OAuthStateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

type memoryOAuthStateStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryOAuthStateStore(ttl time.Duration) OAuthStateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &memoryOAuthStateStore{
		ttl:   ttl,
		items: make(map[string]time.Time),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryOAuthStateStore) Issue(_ context.Context) (string, error) {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(s.ttl)
	return state, nil
}

func (s *memoryOAuthStateStore) Consume(_ context.Context, state string) (bool, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false, nil
	}
	delete(s.items, state)
	return !s.now().After(exp), nil
}

type redisStateClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

type redisOAuthStateStore struct {
	client redisStateClient
	ttl    time.Duration
	prefix string
}

func NewRedisOAuthStateStore(client *redis.Client, ttl time.Duration) OAuthStateStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisOAuthStateStore{
		client: client,
		ttl:    ttl,
		prefix: "auth:oauth:state:",
	}
}

func (s *redisOAuthStateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+state, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

func (s *redisOAuthStateStore) Consume(ctx context.Context, state string) (bool, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	err := s.client.GetDel(ctx, s.prefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
