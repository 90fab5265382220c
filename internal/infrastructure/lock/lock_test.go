package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func lockers(t *testing.T) map[string]Locker {
	_, client := newTestRedis(t)
	return map[string]Locker{
		"Local": NewLocal(),
		"Redis": NewRedis(client, time.Minute),
	}
}

func TestLocker_MutualExclusion(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				inside  int
				maxSeen int
			)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release, err := locker.Acquire(ctx, "UBI")
					if !assert.NoError(t, err) {
						return
					}
					mu.Lock()
					inside++
					if inside > maxSeen {
						maxSeen = inside
					}
					mu.Unlock()

					time.Sleep(2 * time.Millisecond)

					mu.Lock()
					inside--
					mu.Unlock()
					release()
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, maxSeen)
		})
	}
}

func TestLocker_Timeout(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			release, err := locker.Acquire(context.Background(), "UBI")
			require.NoError(t, err)
			defer release()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err = locker.Acquire(ctx, "UBI")
			assert.ErrorIs(t, err, ErrLockTimeout)

			// 別のキーは独立している
			other, err := locker.Acquire(context.Background(), "EOS")
			require.NoError(t, err)
			other()
		})
	}
}

func TestLocal_ReleaseIsIdempotent(t *testing.T) {
	l := NewLocal()
	release, err := l.Acquire(context.Background(), "UBI")
	require.NoError(t, err)
	release()
	release()

	again, err := l.Acquire(context.Background(), "UBI")
	require.NoError(t, err)
	again()
}

func TestRedis_ReleaseOnlyOwnLock(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedis(client, time.Second)

	release, err := locker.Acquire(context.Background(), "UBI")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"UBI"))

	// TTL切れ後に別の保持者が取得したロックは解放しない
	mr.FastForward(2 * time.Second)
	second, err := locker.Acquire(context.Background(), "UBI")
	require.NoError(t, err)

	release()
	assert.True(t, mr.Exists(keyPrefix+"UBI"))

	second()
	assert.False(t, mr.Exists(keyPrefix+"UBI"))
}
