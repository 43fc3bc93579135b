package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"mockview_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// SessionStore 面试会话存储，过期由存储自身负责
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.InterviewSession, error)
	Save(ctx context.Context, session *model.InterviewSession) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore 单进程内存存储，后台定期清理过期会话
type MemorySessionStore struct {
	ttl   time.Duration
	mu    sync.Mutex
	items map[string]memoryEntry
	stop  chan struct{}
	once  sync.Once
	now   func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	go s.janitor()
	return s
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*model.InterviewSession, error) {
	s.mu.Lock()
	entry, ok := s.items[id]
	if ok && s.now().After(entry.expiresAt) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	// 存序列化副本，避免调用方修改共享状态
	var session model.InterviewSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session *model.InterviewSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	s.items[session.ID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close 停止清理协程
func (s *MemorySessionStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemorySessionStore) janitor() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemorySessionStore) evictExpired() {
	now := s.now()
	s.mu.Lock()
	for id, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
}

// RedisSessionStore 以 JSON 形式存储会话，依赖 Redis 过期
type RedisSessionStore struct {
	Redis *redis.Client
	ttl   time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Redis: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("mockview:session:%s", id)
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.InterviewSession, error) {
	data, err := s.Redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.InterviewSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *model.InterviewSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.Redis.Set(ctx, sessionKey(session.ID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, sessionKey(id)).Err()
}
