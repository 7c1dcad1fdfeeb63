// Package corpus holds the in-process retrieval index. The index is built
// once at startup from a snapshot and is immutable afterwards; concurrent
// searches need no locking beyond what the vector store provides.
package corpus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/docqa-backend/internal/ingestion"
	"github.com/yungbote/docqa-backend/internal/platform/envutil"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/openai"
	"github.com/yungbote/docqa-backend/internal/platform/vectorstore"
	"github.com/yungbote/docqa-backend/internal/types"
)

const (
	defaultEmbedBatchSize      = 64
	defaultEmbedMaxConcurrency = 4
)

// Index maps vector store matches back to chunk text and provenance.
type Index struct {
	chunks   []types.Chunk
	store    vectorstore.VectorStore
	embedder openai.Client
}

// BuildIndex embeds every chunk and upserts the vectors into the store.
// Chunk IDs are 1-based positions in snapshot order, stable across restarts
// for the same snapshot.
func BuildIndex(ctx context.Context, log *logger.Logger, embedder openai.Client, store vectorstore.VectorStore, chunks []types.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}

	batchSize := envutil.Int("EMBED_BATCH_SIZE", defaultEmbedBatchSize)
	if batchSize < 1 {
		batchSize = defaultEmbedBatchSize
	}
	concurrency := envutil.Int("EMBED_MAX_CONCURRENCY", defaultEmbedMaxConcurrency)
	if concurrency < 1 {
		concurrency = defaultEmbedMaxConcurrency
	}

	start := time.Now()
	vectors := make([]vectorstore.Vector, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for begin := 0; begin < len(chunks); begin += batchSize {
		begin := begin
		end := begin + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		g.Go(func() error {
			texts := make([]string, 0, end-begin)
			for _, c := range chunks[begin:end] {
				texts = append(texts, c.Text)
			}
			embs, err := embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks %d..%d: %w", begin, end-1, err)
			}
			if len(embs) != end-begin {
				return fmt.Errorf("embed chunks %d..%d: got %d embeddings for %d inputs", begin, end-1, len(embs), end-begin)
			}
			for i, emb := range embs {
				idx := begin + i
				vectors[idx] = vectorstore.Vector{
					ID:     strconv.Itoa(chunks[idx].ID),
					Values: emb,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := store.Upsert(ctx, vectors); err != nil {
		return nil, fmt.Errorf("upsert corpus vectors: %w", err)
	}

	log.Info("corpus index built",
		"chunks", len(chunks),
		"batch_size", batchSize,
		"concurrency", concurrency,
		"duration", time.Since(start).String(),
	)

	return &Index{chunks: chunks, store: store, embedder: embedder}, nil
}

// ChunksFromRecords assigns 1-based IDs in snapshot order.
func ChunksFromRecords(records []ingestion.Record) []types.Chunk {
	chunks := make([]types.Chunk, len(records))
	for i, rec := range records {
		chunks[i] = types.Chunk{ID: i + 1, Text: rec.Text, Source: rec.Metadata.Source}
	}
	return chunks
}

func (ix *Index) Size() int { return len(ix.chunks) }

// Search embeds the query text and returns up to topK chunks ordered by
// ascending distance.
func (ix *Index) Search(ctx context.Context, text string, topK int) ([]types.ScoredChunk, error) {
	embs, err := ix.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embs) != 1 {
		return nil, fmt.Errorf("embed query: got %d embeddings, want 1", len(embs))
	}

	matches, err := ix.store.Query(ctx, embs[0], topK)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}

	scored := make([]types.ScoredChunk, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.Atoi(m.ID)
		if err != nil || id < 1 || id > len(ix.chunks) {
			return nil, fmt.Errorf("vector store returned unknown chunk id %q", m.ID)
		}
		scored = append(scored, types.ScoredChunk{
			Chunk:    ix.chunks[id-1],
			Distance: m.Distance,
		})
	}
	return scored, nil
}
