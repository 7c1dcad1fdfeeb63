package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

// memoryStore is an exact, in-process cosine-distance store. It exists for
// single-node deployments and tests; the corpus is small enough that a linear
// scan beats operating an external index.
type memoryStore struct {
	log *logger.Logger

	mu      sync.RWMutex
	vectors []Vector
	dim     int
}

func NewMemoryStore(log *logger.Logger) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &memoryStore{log: log.With("service", "MemoryVectorStore")}, nil
}

func (s *memoryStore) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if v.ID == "" {
			return fmt.Errorf("vector id is required")
		}
		if len(v.Values) == 0 {
			return fmt.Errorf("vector %q has empty values", v.ID)
		}
		if s.dim == 0 {
			s.dim = len(v.Values)
		}
		if len(v.Values) != s.dim {
			return fmt.Errorf("vector %q dimension mismatch: expected=%d got=%d", v.ID, s.dim, len(v.Values))
		}
		s.vectors = append(s.vectors, v)
	}
	return nil
}

func (s *memoryStore) Query(ctx context.Context, q []float32, topK int) ([]Match, error) {
	if len(q) == 0 {
		return nil, fmt.Errorf("query vector required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dim != 0 && len(q) != s.dim {
		return nil, fmt.Errorf("query vector dimension mismatch: expected=%d got=%d", s.dim, len(q))
	}

	out := make([]Match, 0, len(s.vectors))
	for _, v := range s.vectors {
		out = append(out, Match{ID: v.ID, Distance: cosineDistance(q, v.Values)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance == out[j].Distance {
			return out[i].ID < out[j].ID
		}
		return out[i].Distance < out[j].Distance
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// cosineDistance is 1 - cosine similarity, clamped to [0, 2]. Zero vectors are
// treated as maximally distant rather than an error.
func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	if d < 0 {
		return 0
	}
	return d
}
