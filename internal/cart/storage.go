package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage 购物车持久化接口，按令牌整体读写序列化后的条目列表
// Load 在不存在时返回 nil, nil。
type Storage interface {
	Load(ctx context.Context, token string) ([]byte, error)
	Save(ctx context.Context, token string, data []byte) error
	Delete(ctx context.Context, token string) error
}

// RedisStorage 基于 Redis 的购物车存储，每次写入刷新过期时间
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage 创建 Redis 购物车存储
func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "indra"
	}
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStorage) key(token string) string {
	return fmt.Sprintf("%s:cart:%s", r.prefix, token)
}

// Load 读取购物车
func (r *RedisStorage) Load(ctx context.Context, token string) ([]byte, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("cart redis storage not initialized")
	}
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save 写入购物车
func (r *RedisStorage) Save(ctx context.Context, token string, data []byte) error {
	if r == nil || r.client == nil {
		return errors.New("cart redis storage not initialized")
	}
	return r.client.Set(ctx, r.key(token), data, r.ttl).Err()
}

// Delete 删除购物车
func (r *RedisStorage) Delete(ctx context.Context, token string) error {
	if r == nil || r.client == nil {
		return errors.New("cart redis storage not initialized")
	}
	return r.client.Del(ctx, r.key(token)).Err()
}

// MemoryStorage 进程内购物车存储，适用于单实例与测试
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryStorage 创建进程内存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]byte)}
}

// Load 读取购物车
func (m *MemoryStorage) Load(_ context.Context, token string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.carts[token]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save 写入购物车
func (m *MemoryStorage) Save(_ context.Context, token string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.mu.Lock()
	m.carts[token] = buf
	m.mu.Unlock()
	return nil
}

// Delete 删除购物车
func (m *MemoryStorage) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.carts, token)
	m.mu.Unlock()
	return nil
}
