package index

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubEmbedder is a counting fake for the embedding backend. Vectors are
// keyword-count based so similarity ranking is deterministic.
type stubEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

var markerWords = []string{"cats", "dogs", "birds"}

func (s *stubEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	resp := &ai.EmbedResponse{}
	for _, doc := range req.Input {
		vec := make([]float32, len(markerWords))
		for i, w := range markerWords {
			vec[i] = float32(strings.Count(docText(doc), w))
		}
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{Embedding: vec})
	}
	return resp, nil
}

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func docText(doc *ai.Document) string {
	var b strings.Builder
	for _, part := range doc.Content {
		b.WriteString(part.Text)
	}
	return b.String()
}

func TestBuildEmptyChunks(t *testing.T) {
	_, err := Build(context.Background(), &stubEmbedder{}, nil)
	if !errors.Is(err, ErrNoChunks) {
		t.Errorf("Build(nil chunks) error = %v, want ErrNoChunks", err)
	}
}

func TestBuildNilEmbedder(t *testing.T) {
	_, err := Build(context.Background(), nil, []string{"chunk"})
	if !errors.Is(err, ErrEmbedding) {
		t.Errorf("Build(nil embedder) error = %v, want ErrEmbedding", err)
	}
}

func TestBuildEmbedderFailure(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("quota exceeded")}
	_, err := Build(context.Background(), emb, []string{"chunk"})
	if !errors.Is(err, ErrEmbedding) {
		t.Errorf("Build() error = %v, want ErrEmbedding", err)
	}
}

func TestBuildBatchesSingleCall(t *testing.T) {
	emb := &stubEmbedder{}
	ix, err := Build(context.Background(), emb, []string{"cats", "dogs", "birds"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
	if emb.callCount() != 1 {
		t.Errorf("embedder called %d times during build, want 1", emb.callCount())
	}
}

func TestSearchRanking(t *testing.T) {
	emb := &stubEmbedder{}
	chunks := []string{
		"cats cats cats everywhere",
		"dogs dogs in the park",
		"a single birds reference",
	}
	ix, err := Build(context.Background(), emb, chunks)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	results, err := ix.Search(context.Background(), "dogs", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Search() returned %d results, want 3", len(results))
	}
	if results[0].Text != chunks[1] {
		t.Errorf("best match = %q, want the dogs chunk", results[0].Text)
	}
	for i := 0; i < len(results)-1; i++ {
		if results[i].Score < results[i+1].Score {
			t.Errorf("scores not monotonically decreasing at %d: %v then %v", i, results[i].Score, results[i+1].Score)
		}
	}
}

func TestSearchKClamping(t *testing.T) {
	emb := &stubEmbedder{}
	ix, err := Build(context.Background(), emb, []string{"cats", "dogs"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	results, err := ix.Search(context.Background(), "cats", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search(k=10) over 2 entries = %d results, want 2", len(results))
	}

	results, err = ix.Search(context.Background(), "cats", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search(k=0) = %d results, want DefaultTopK clamped to 2", len(results))
	}
}

func TestSearchEmbedderFailure(t *testing.T) {
	emb := &stubEmbedder{}
	ix, err := Build(context.Background(), emb, []string{"cats"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	emb.err = errors.New("backend down")
	if _, err := ix.Search(context.Background(), "cats", 1); !errors.Is(err, ErrEmbedding) {
		t.Errorf("Search() error = %v, want ErrEmbedding", err)
	}
}
