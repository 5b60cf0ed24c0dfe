package lookupcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemory("test"),
		"redis":  NewRedis(client, "test", time.Hour),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			var ids []int
			found, err := store.Get(ctx, "snes", &ids)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, "snes", []int{19, 58}))

			found, err = store.Get(ctx, "snes", &ids)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []int{19, 58}, ids)
		})
	}
}

func TestStore_NegativeResult(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "unknown game", (*string)(nil)))

			stale := "stale"
			dst := &stale
			found, err := store.Get(ctx, "unknown game", &dst)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Nil(t, dst)
		})
	}
}

func TestStore_DecodeError(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k", "text"))

			var n int
			_, err := store.Get(ctx, "k", &n)
			assert.Error(t, err)
		})
	}
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory("concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(ctx, "key", i)
			var v int
			_, _ = store.Get(ctx, "key", &v)
		}(i)
	}
	wg.Wait()

	var v int
	found, err := store.Get(ctx, "key", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.GreaterOrEqual(t, v, 0)
}

func TestRedis_KeyPrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	store := NewRedis(client, "summary", time.Minute)
	require.NoError(t, store.Set(ctx, "zelda", "Un jeu"))

	assert.True(t, mr.Exists("gameshelf:summary:zelda"))

	mr.FastForward(2 * time.Minute)
	var v string
	found, err := store.Get(ctx, "zelda", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = client.Close()

	_, err = DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
