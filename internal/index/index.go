// Package index builds and caches per-domain semantic indexes.
//
// An Index is a collection of (chunk, vector) pairs over one domain's source
// document, searched by brute-force cosine similarity. The document set is
// small (≤10 domains, one document each), so an exact in-memory scan beats
// any external vector store on both latency and operational weight.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/firebase/genkit/go/ai"
)

// DefaultTopK is the number of chunks returned when the caller does not
// specify k.
const DefaultTopK = 3

var (
	// ErrNoChunks indicates the chunk list was empty; there is nothing to index.
	ErrNoChunks = errors.New("no chunks to index")

	// ErrEmbedding indicates the embedding backend failed or is not configured.
	ErrEmbedding = errors.New("embedding failed")
)

// Embedder is the slice of the Genkit embedder API this package consumes.
// ai.Embedder satisfies it; tests substitute counting stubs.
type Embedder interface {
	Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error)
}

// entry is one indexed chunk with its L2-normalized vector.
type entry struct {
	text   string
	vector []float32
}

// Index is the retrieval structure for one domain. Once built it is
// read-only and safe for concurrent use without locking.
type Index struct {
	embedder Embedder
	entries  []entry
}

// Result is a retrieved chunk with its similarity score.
type Result struct {
	Text  string
	Score float32 // Cosine similarity, best match first
}

// Build embeds all chunks and constructs an Index over them. All chunks are
// embedded in a single request; a failure anywhere yields no Index, never a
// partially built one.
func Build(ctx context.Context, embedder Embedder, chunks []string) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrEmbedding)
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	docs := make([]*ai.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = ai.DocumentFromText(chunk, nil)
	}

	resp, err := embedder.Embed(ctx, &ai.EmbedRequest{Input: docs})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(resp.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", ErrEmbedding, len(resp.Embeddings), len(chunks))
	}

	entries := make([]entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = entry{
			text:   chunk,
			vector: normalize(resp.Embeddings[i].Embedding),
		}
	}

	return &Index{embedder: embedder, entries: entries}, nil
}

// Search embeds the query and returns up to k chunks ranked by cosine
// similarity, best match first.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	resp, err := ix.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(query, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", ErrEmbedding)
	}
	qv := normalize(resp.Embeddings[0].Embedding)

	results := make([]Result, len(ix.entries))
	for i, e := range ix.entries {
		results[i] = Result{Text: e.text, Score: dot(e.vector, qv)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// normalize returns a copy of v scaled to unit length. A zero vector is
// returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the inner product of two vectors. With both sides normalized
// this is the cosine similarity.
func dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}
