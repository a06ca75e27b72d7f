package otp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client)
}

func newTestIssuer(store Store, resend time.Duration) *Issuer {
	return NewIssuer(store, Options{
		TTL:            time.Minute,
		MaxAttempts:    3,
		ResendInterval: resend,
		HashCost:       bcrypt.MinCost,
	})
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
	}
	_, rs := setupRedisStore(t)
	stores["redis"] = rs

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			iss := newTestIssuer(store, 0)

			code, err := iss.Issue(ctx, "+919876543210")
			require.NoError(t, err)
			assert.Len(t, code, 6)

			require.NoError(t, iss.Verify(ctx, "+919876543210", code))
			// consumed
			assert.ErrorIs(t, iss.Verify(ctx, "+919876543210", code), ErrExpired)
		})
	}
}

func TestIssuer_WrongCodeBurnsAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	_, store := setupRedisStore(t)
	iss := newTestIssuer(store, 0)

	code, err := iss.Issue(ctx, "+919876543211")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	assert.ErrorIs(t, iss.Verify(ctx, "+919876543211", wrong), ErrInvalidCode)
	assert.ErrorIs(t, iss.Verify(ctx, "+919876543211", wrong), ErrInvalidCode)
	assert.ErrorIs(t, iss.Verify(ctx, "+919876543211", wrong), ErrTooManyAttempts)
	assert.ErrorIs(t, iss.Verify(ctx, "+919876543211", code), ErrExpired)
}

func TestIssuer_ExpiredCode(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedisStore(t)
	iss := newTestIssuer(store, 0)

	code, err := iss.Issue(ctx, "+919876543212")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, iss.Verify(ctx, "+919876543212", code), ErrExpired)
}

func TestIssuer_Throttle(t *testing.T) {
	ctx := context.Background()
	iss := newTestIssuer(NewMemoryStore(), time.Hour)

	_, err := iss.Issue(ctx, "+919876543213")
	require.NoError(t, err)
	_, err = iss.Issue(ctx, "+919876543213")
	assert.ErrorIs(t, err, ErrThrottled)

	// other numbers are not affected
	_, err = iss.Issue(ctx, "+919876543210")
	assert.NoError(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "+1", "hash", time.Minute))
	e, err := store.Get(ctx, "+1")
	require.NoError(t, err)
	assert.Equal(t, "hash", e.Hash)

	n, err := store.IncrAttempts(ctx, "+1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "+1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestIssuer_ThrottleSharedThroughRedis(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedisStore(t)
	first := newTestIssuer(store, 30*time.Second)
	second := newTestIssuer(store, 30*time.Second)

	_, err := first.Issue(ctx, "+919876543214")
	require.NoError(t, err)
	_, err = second.Issue(ctx, "+919876543214")
	assert.ErrorIs(t, err, ErrThrottled)

	mr.FastForward(31 * time.Second)
	_, err = second.Issue(ctx, "+919876543214")
	assert.NoError(t, err)
}

func TestIssuer_GlobalIssueCap(t *testing.T) {
	ctx := context.Background()
	iss := NewIssuer(NewMemoryStore(), Options{TTL: time.Minute, IssuePerMinute: 2, HashCost: bcrypt.MinCost})

	_, err := iss.Issue(ctx, "+919800000001")
	require.NoError(t, err)
	_, err = iss.Issue(ctx, "+919800000002")
	require.NoError(t, err)
	_, err = iss.Issue(ctx, "+919800000003")
	assert.ErrorIs(t, err, ErrThrottled)
}

func TestMemoryStore_SweepsExpiredPhones(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	iss := newTestIssuer(store, 30*time.Second)

	for i := 0; i < 200; i++ {
		_, err := iss.Issue(ctx, fmt.Sprintf("+9198%08d", i))
		require.NoError(t, err)
	}
	assert.Len(t, store.entries, 200)
	assert.Len(t, store.throttles, 200)

	now = now.Add(2 * time.Minute)
	_, err := iss.Issue(ctx, "+919999999999")
	require.NoError(t, err)
	assert.Len(t, store.entries, 1)
	assert.Len(t, store.throttles, 1)
}

func TestRedisStore_IncrAttemptsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedisStore(t)

	require.NoError(t, store.Save(ctx, "+1", "hash", time.Minute))
	n, err := store.IncrAttempts(ctx, "+1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	mr.FastForward(2 * time.Minute)
	_, err = store.IncrAttempts(ctx, "+1")
	assert.ErrorIs(t, err, ErrMiss)
	assert.False(t, mr.Exists(keyPrefix+"+1"))
}
