package corpus

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/vectorstore"
	"github.com/yungbote/docqa-backend/internal/types"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	calls [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inputs)
	f.mu.Unlock()
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		// Deterministic toy embedding keyed on text length.
		out[i] = []float32{float32(len(in)), 1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) GenerateText(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("not implemented")
}

type fakeStore struct {
	mu       sync.Mutex
	upserted []vectorstore.Vector
	matches  []vectorstore.Match
}

func (f *fakeStore) Upsert(_ context.Context, vectors []vectorstore.Vector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, vectors...)
	return nil
}

func (f *fakeStore) Query(context.Context, []float32, int) ([]vectorstore.Match, error) {
	return f.matches, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func testChunks(n int) []types.Chunk {
	chunks := make([]types.Chunk, n)
	for i := range chunks {
		chunks[i] = types.Chunk{ID: i + 1, Text: fmt.Sprintf("chunk %d text", i+1), Source: "doc.md"}
	}
	return chunks
}

func TestBuildIndexUpsertsEveryChunk(t *testing.T) {
	t.Setenv("EMBED_BATCH_SIZE", "2")
	t.Setenv("EMBED_MAX_CONCURRENCY", "2")

	emb := &fakeEmbedder{}
	store := &fakeStore{}
	ix, err := BuildIndex(context.Background(), testLogger(t), emb, store, testChunks(5))
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if ix.Size() != 5 {
		t.Fatalf("Size = %d, want 5", ix.Size())
	}
	if len(store.upserted) != 5 {
		t.Fatalf("upserted %d vectors, want 5", len(store.upserted))
	}
	seen := map[string]bool{}
	for _, v := range store.upserted {
		seen[v.ID] = true
	}
	for i := 1; i <= 5; i++ {
		if !seen[fmt.Sprint(i)] {
			t.Fatalf("missing vector for chunk %d", i)
		}
	}
	if len(emb.calls) != 3 {
		t.Fatalf("embed batches = %d, want 3", len(emb.calls))
	}
}

func TestBuildIndexRejectsEmptyCorpus(t *testing.T) {
	_, err := BuildIndex(context.Background(), testLogger(t), &fakeEmbedder{}, &fakeStore{}, nil)
	if err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestSearchMapsMatchesToChunks(t *testing.T) {
	chunks := testChunks(3)
	store := &fakeStore{matches: []vectorstore.Match{
		{ID: "2", Distance: 0.1},
		{ID: "3", Distance: 0.4},
	}}
	ix := &Index{chunks: chunks, store: store, embedder: &fakeEmbedder{}}

	scored, err := ix.Search(context.Background(), "where is chunk two", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("len = %d, want 2", len(scored))
	}
	if scored[0].ID != 2 || scored[0].Distance != 0.1 {
		t.Fatalf("first match = %+v", scored[0])
	}
	if !strings.Contains(scored[0].Text, "chunk 2") {
		t.Fatalf("first match text = %q", scored[0].Text)
	}
}

func TestSearchRejectsUnknownChunkID(t *testing.T) {
	store := &fakeStore{matches: []vectorstore.Match{{ID: "99", Distance: 0.2}}}
	ix := &Index{chunks: testChunks(3), store: store, embedder: &fakeEmbedder{}}
	if _, err := ix.Search(context.Background(), "anything at all", 3); err == nil {
		t.Fatal("expected error for unknown chunk id")
	}
}
