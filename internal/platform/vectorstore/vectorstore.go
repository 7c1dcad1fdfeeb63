// Package vectorstore defines the contract the retrieval pipeline has with a
// vector index: store vectors once at startup, query nearest neighbors at
// request time. Scores are expressed as distances (lower = more relevant)
// regardless of the backing provider's native convention.
package vectorstore

import "context"

type Vector struct {
	ID     string
	Values []float32
}

type Match struct {
	ID       string
	Distance float64
}

type VectorStore interface {
	Upsert(ctx context.Context, vectors []Vector) error
	// Query returns up to topK matches ordered ascending by distance.
	Query(ctx context.Context, q []float32, topK int) ([]Match, error)
}
