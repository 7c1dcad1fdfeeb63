package services

import (
	"context"
	"sort"

	"github.com/yungbote/docqa-backend/internal/platform/envutil"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/types"
)

const (
	defaultTopK        = 3
	defaultMaxDistance = 0.55
)

// Searcher is the slice of the corpus index the retriever needs.
type Searcher interface {
	Search(ctx context.Context, text string, topK int) ([]types.ScoredChunk, error)
}

// Retriever queries the corpus index and gates the results on distance.
// When no chunk clears the gate the request must refuse rather than answer
// from weak evidence.
type Retriever struct {
	index       Searcher
	log         *logger.Logger
	topK        int
	maxDistance float64
}

func NewRetriever(index Searcher, log *logger.Logger) *Retriever {
	topK := envutil.Int("RAG_TOP_K", defaultTopK)
	if topK < 1 {
		topK = defaultTopK
	}
	maxDistance := envutil.Float("RAG_MAX_DISTANCE", defaultMaxDistance)
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistance
	}
	return &Retriever{index: index, log: log, topK: topK, maxDistance: maxDistance}
}

// Retrieve returns the evidence chunks for the expanded query, sorted by
// ascending distance. An empty result means the distance gate failed and the
// caller must refuse. The index's own ordering is not trusted; results are
// re-sorted here before gating.
func (r *Retriever) Retrieve(ctx context.Context, expandedQuery string) ([]types.ScoredChunk, error) {
	scored, err := r.index.Search(ctx, expandedQuery, r.topK)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	best := scored[0]
	if best.Distance > r.maxDistance {
		r.log.Info("retrieval gate failed",
			"best_distance", best.Distance,
			"max_distance", r.maxDistance,
		)
		return nil, nil
	}

	evidence := make([]types.ScoredChunk, 0, r.topK)
	for _, sc := range scored {
		if sc.Distance > r.maxDistance {
			continue
		}
		evidence = append(evidence, sc)
		if len(evidence) == r.topK {
			break
		}
	}

	// Single-best fallback: the gate passed, so at least one chunk is owed.
	if len(evidence) == 0 {
		evidence = append(evidence, best)
	}
	return evidence, nil
}
