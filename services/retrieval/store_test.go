package retrievalsvc

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(rdb, "test:index:"),
	}
	snap := Snapshot{
		Model:   "nomic-embed-text",
		BuiltAt: time.Unix(1700000000, 123).UTC(),
		Chunks: []Chunk{
			{ID: "a.md#0", Source: "a.md", Content: "first", Vector: []float32{0.1, -2.5, 3}},
			{ID: "a.md#1", Source: "a.md", Content: "second", Vector: []float32{1, 0, 0}},
		},
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())

			require.NoError(t, store.Save(ctx, snap))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, snap, got)

			// saving replaces
			smaller := Snapshot{Model: "other", BuiltAt: snap.BuiltAt, Chunks: snap.Chunks[1:]}
			require.NoError(t, store.Save(ctx, smaller))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, smaller, got)

			require.NoError(t, store.Save(ctx, Snapshot{}))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())
		})
	}

	assert.False(t, mr.Exists("test:index:meta"))
	assert.False(t, mr.Exists("test:index:chunks"))
}
