package retrievalsvc

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Chunk is a piece of a document along with its embedding.
type Chunk struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Content string    `json:"content"`
	Vector  []float32 `json:"vector"`
}

// Snapshot is a built index. Model is the embedding model the vectors come from.
type Snapshot struct {
	Model   string    `json:"model"`
	BuiltAt time.Time `json:"built_at"`
	Chunks  []Chunk   `json:"chunks"`
}

func (snap Snapshot) Empty() bool {
	return len(snap.Chunks) == 0
}

// Store persists index snapshots. Save replaces whatever was stored before.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, nil
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// RedisStore keeps the snapshot metadata in a hash (<prefix>meta) and the chunks,
// JSON encoded and in order, in a list (<prefix>chunks).
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) metaKey() string   { return s.prefix + "meta" }
func (s *RedisStore) chunksKey() string { return s.prefix + "chunks" }

func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	meta, err := s.rdb.HGetAll(ctx, s.metaKey()).Result()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "loading index metadata")
	}
	if len(meta) == 0 {
		return Snapshot{}, nil
	}

	snap := Snapshot{Model: meta["model"]}
	if ts, err := strconv.ParseInt(meta["built_at"], 10, 64); err == nil {
		snap.BuiltAt = time.Unix(0, ts).UTC()
	}

	raw, err := s.rdb.LRange(ctx, s.chunksKey(), 0, -1).Result()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "loading index chunks")
	}
	snap.Chunks = make([]Chunk, 0, len(raw))
	for _, r := range raw {
		var c Chunk
		if err = json.Unmarshal([]byte(r), &c); err != nil {
			return Snapshot{}, errors.Wrap(err, "decoding index chunk")
		}
		snap.Chunks = append(snap.Chunks, c)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	values := make([]interface{}, 0, len(snap.Chunks))
	for _, c := range snap.Chunks {
		b, err := json.Marshal(c)
		if err != nil {
			return errors.Wrap(err, "encoding index chunk")
		}
		values = append(values, b)
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.metaKey(), s.chunksKey())
		if len(values) == 0 {
			return nil
		}
		pipe.RPush(ctx, s.chunksKey(), values...)
		pipe.HSet(ctx, s.metaKey(),
			"model", snap.Model,
			"built_at", strconv.FormatInt(snap.BuiltAt.UnixNano(), 10),
			"chunks", len(values),
		)
		return nil
	})
	return errors.Wrap(err, "saving index")
}
