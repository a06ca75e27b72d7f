package otp

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by a Store when no live code exists for a phone.
var ErrMiss = errors.New("otp miss")

// Entry is a stored one-time code. Hash is the bcrypt hash of the code.
type Entry struct {
	Hash     string
	Attempts int
}

type Store interface {
	Save(ctx context.Context, phone, hash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (Entry, error)
	IncrAttempts(ctx context.Context, phone string) (int, error)
	Delete(ctx context.Context, phone string) error
	// Reserve opens a resend window of length interval for phone. It reports
	// false while an earlier window is still open.
	Reserve(ctx context.Context, phone string, interval time.Duration) (bool, error)
}

const (
	keyPrefix         = "rwa:otp:"
	throttleKeyPrefix = "rwa:otp-resend:"
)

// incrAttempts bumps the counter only while the code hash still exists, so an
// expired code is not recreated without a TTL.
var incrAttempts = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// RedisStore keeps each code in a hash that expires with the code.
type RedisStore struct {
	c *redis.Client
}

func NewRedisStore(c *redis.Client) *RedisStore { return &RedisStore{c: c} }

func (r *RedisStore) Save(ctx context.Context, phone, hash string, ttl time.Duration) error {
	key := keyPrefix + phone
	_, err := r.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, "hash", hash, "attempts", 0)
		p.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *RedisStore) Get(ctx context.Context, phone string) (Entry, error) {
	vals, err := r.c.HGetAll(ctx, keyPrefix+phone).Result()
	if err != nil {
		return Entry{}, err
	}
	hash, ok := vals["hash"]
	if !ok {
		return Entry{}, ErrMiss
	}
	attempts, _ := strconv.Atoi(vals["attempts"])
	return Entry{Hash: hash, Attempts: attempts}, nil
}

func (r *RedisStore) IncrAttempts(ctx context.Context, phone string) (int, error) {
	n, err := incrAttempts.Run(ctx, r.c, []string{keyPrefix + phone}).Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrMiss
	}
	return n, nil
}

func (r *RedisStore) Reserve(ctx context.Context, phone string, interval time.Duration) (bool, error) {
	return r.c.SetNX(ctx, throttleKeyPrefix+phone, 1, interval).Result()
}

// Health pings the Redis server.
func (r *RedisStore) Health(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *RedisStore) Delete(ctx context.Context, phone string) error {
	return r.c.Del(ctx, keyPrefix+phone).Err()
}

type memoryEntry struct {
	Entry
	expiresAt time.Time
}

// MemoryStore is used when no redis address is configured. Expired codes and
// resend windows are swept on every write.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	throttles map[string]time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, throttles: map[string]time.Time{}, now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, phone, hash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	m.entries[phone] = memoryEntry{Entry: Entry{Hash: hash}, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryStore) Reserve(_ context.Context, phone string, interval time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	if _, open := m.throttles[phone]; open {
		return false, nil
	}
	m.throttles[phone] = now.Add(interval)
	return true, nil
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for phone, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, phone)
		}
	}
	for phone, until := range m.throttles {
		if !now.Before(until) {
			delete(m.throttles, phone)
		}
	}
}

func (m *MemoryStore) Get(_ context.Context, phone string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(phone)
	if !ok {
		return Entry{}, ErrMiss
	}
	return e.Entry, nil
}

func (m *MemoryStore) IncrAttempts(_ context.Context, phone string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(phone)
	if !ok {
		return 0, ErrMiss
	}
	e.Attempts++
	m.entries[phone] = e
	return e.Attempts, nil
}

func (m *MemoryStore) Delete(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, phone)
	return nil
}

// live must be called with mu held; it drops expired entries.
func (m *MemoryStore) live(phone string) (memoryEntry, bool) {
	e, ok := m.entries[phone]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, phone)
		return memoryEntry{}, false
	}
	return e, true
}
