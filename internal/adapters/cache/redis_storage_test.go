package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewRedisStorage(RedisConfig{Address: mr.Addr(), Prefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStorageSetGet(t *testing.T) {
	store, mr := newTestStorage(t)

	require.NoError(t, store.Set("limiter:1.2.3.4", []byte("7"), time.Minute))

	got, err := store.Get("limiter:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "7", string(got))
	assert.True(t, mr.Exists("test:limiter:1.2.3.4"))

	mr.FastForward(2 * time.Minute)
	got, err = store.Get("limiter:1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorageMissingKey(t *testing.T) {
	store, _ := newTestStorage(t)

	got, err := store.Get("nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorageDeleteAndReset(t *testing.T) {
	store, mr := newTestStorage(t)

	require.NoError(t, store.Set("a", []byte("1"), 0))
	require.NoError(t, store.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:c", "3"))

	require.NoError(t, store.Delete("a"))
	assert.False(t, mr.Exists("test:a"))

	require.NoError(t, store.Reset())
	assert.False(t, mr.Exists("test:b"))
	assert.True(t, mr.Exists("other:c"))
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	_, err := NewRedisStorage(RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestDefaultPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStorageFromClient(client, "")
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("v"), 0))
	assert.True(t, mr.Exists("iledu:k"))
}
