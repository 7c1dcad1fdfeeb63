package types

// Chunk is a contiguous passage of source text tagged with its originating
// filename. Chunks are created once by offline ingestion; identity is the
// position in the snapshot combined with the source filename.
type Chunk struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// ScoredChunk pairs a chunk with its dissimilarity to the query
// (lower = more relevant). Request-scoped, never persisted.
type ScoredChunk struct {
	Chunk
	Distance float64
}

// EvidenceBlock is a chunk that survived the distance gate, tagged with the
// 1-based citation index the generation step is allowed to reference.
type EvidenceBlock struct {
	CitationIndex int
	Chunk
}
