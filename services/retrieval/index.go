// Package retrievalsvc indexes the college documents and retrieves the chunks most relevant to a question.
package retrievalsvc

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"path"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/pkg/errors"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/mentor"
)

const embedBatchSize = 32

var ErrNoDocuments = errors.New("no documents to index")

type (
	// Embedder turns texts into vectors. llm.Client implements it.
	Embedder interface {
		Embed(ctx context.Context, texts []string) ([][]float32, error)
		EmbedQuery(ctx context.Context, text string) ([]float32, error)
	}

	Options struct {
		ChunkSize    int
		ChunkOverlap int
		Model        string // embedding model, a stored index built with another one is rebuilt
	}

	Index struct {
		docs     fs.FS
		store    Store
		embedder Embedder
		splitter *Splitter
		model    string
		logger   core.Logger

		buildMu sync.Mutex // serializes loading and rebuilding

		mu     sync.RWMutex
		snap   Snapshot
		coll   *chromem.Collection
		pos    map[string]int // chunk ID -> position in snap.Chunks
		loaded bool
	}
)

var _ mentor.Retriever = (*Index)(nil) // interface compliance check

// NewIndex indexes the markdown files at the root of docs.
func NewIndex(docs fs.FS, store Store, embedder Embedder, logger core.Logger, opts Options) *Index {
	return &Index{
		docs:     docs,
		store:    store,
		embedder: embedder,
		splitter: NewSplitter(opts.ChunkSize, opts.ChunkOverlap),
		model:    opts.Model,
		logger:   logger,
	}
}

type document struct {
	source  string
	content string
}

func (idx *Index) loadDocuments() ([]document, error) {
	names, err := fs.Glob(idx.docs, "*.md")
	if err != nil {
		return nil, errors.Wrap(err, "listing documents")
	}
	sort.Strings(names)

	docs := make([]document, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(idx.docs, name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		docs = append(docs, document{source: path.Base(name), content: string(b)})
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// Rebuild wipes the index and indexes every document again. Returns the number of chunks.
func (idx *Index) Rebuild(ctx context.Context) (int, error) {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()
	return idx.rebuild(ctx)
}

func (idx *Index) rebuild(ctx context.Context) (int, error) {
	docs, err := idx.loadDocuments()
	if err != nil {
		return 0, err
	}

	var chunks []Chunk
	for _, doc := range docs {
		parts, err := idx.splitter.Split(doc.content)
		if err != nil {
			return 0, errors.Wrapf(err, "splitting %s", doc.source)
		}
		for i, content := range parts {
			chunks = append(chunks, Chunk{
				ID:      fmt.Sprintf("%s#%d", doc.source, i),
				Source:  doc.source,
				Content: content,
			})
		}
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}
		vectors, err := idx.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, errors.Wrap(err, "embedding chunks")
		}
		for i, vec := range vectors {
			chunks[start+i].Vector = vec
		}
	}

	snap := Snapshot{Model: idx.model, BuiltAt: time.Now().UTC(), Chunks: chunks}
	if err = idx.store.Save(ctx, snap); err != nil {
		return 0, err
	}
	if err = idx.use(ctx, snap); err != nil {
		return 0, err
	}

	idx.logger.Info(fmt.Sprintf("indexed %d chunks from %d documents", len(chunks), len(docs)))
	return len(chunks), nil
}

// EnsureBuilt loads the stored index, rebuilding it when it is empty or was built with another model.
// Concurrent callers wait for the first one, so the documents are embedded at most once.
func (idx *Index) EnsureBuilt(ctx context.Context) error {
	if idx.isLoaded() {
		return nil
	}

	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()
	if idx.isLoaded() {
		return nil
	}

	snap, err := idx.store.Load(ctx)
	if err != nil {
		return err
	}
	if snap.Empty() || snap.Model != idx.model {
		_, err = idx.rebuild(ctx)
		return err
	}
	return idx.use(ctx, snap)
}

func (idx *Index) isLoaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.loaded
}

// use makes snap the searchable index. Chunks with a zero vector match nothing and are left out.
func (idx *Index) use(ctx context.Context, snap Snapshot) error {
	coll, err := chromem.NewDB().CreateCollection("chunks", nil, nil)
	if err != nil {
		return errors.Wrap(err, "creating collection")
	}

	pos := make(map[string]int, len(snap.Chunks))
	docs := make([]chromem.Document, 0, len(snap.Chunks))
	for i, c := range snap.Chunks {
		vec, ok := normalize(c.Vector)
		if !ok {
			continue
		}
		pos[c.ID] = i
		docs = append(docs, chromem.Document{
			ID:        c.ID,
			Metadata:  map[string]string{"source": c.Source},
			Embedding: vec,
			Content:   c.Content,
		})
	}
	if len(docs) > 0 {
		if err = coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return errors.Wrap(err, "adding chunks")
		}
	}

	idx.mu.Lock()
	idx.snap, idx.coll, idx.pos, idx.loaded = snap, coll, pos, true
	idx.mu.Unlock()
	return nil
}

// Retrieve returns the k chunks closest to the query by cosine similarity, best first.
// Equally close chunks keep their document order.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]mentor.Document, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := idx.EnsureBuilt(ctx); err != nil {
		return nil, errors.Wrap(err, "building index")
	}
	qv, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "embedding query")
	}
	qv, ok := normalize(qv)
	if !ok {
		return nil, nil
	}

	idx.mu.RLock()
	coll, pos := idx.coll, idx.pos
	idx.mu.RUnlock()

	n := coll.Count()
	if n == 0 {
		return nil, nil
	}
	// all chunks are ranked so ties at the cut keep document order
	results, err := coll.QueryEmbedding(ctx, qv, n, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying index")
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return pos[results[i].ID] < pos[results[j].ID]
	})
	if len(results) > k {
		results = results[:k]
	}

	docs := make([]mentor.Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, mentor.Document{Content: r.Content, Source: r.Metadata["source"], Score: float64(r.Similarity)})
	}
	return docs, nil
}

// normalize returns v scaled to unit length, or false when v is zero.
func normalize(v []float32) ([]float32, bool) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, false
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, true
}
