package types

// SourceRef is a caller-facing pointer to a source file backing an answer.
// Lists of SourceRef are deduplicated by Source, first occurrence wins.
type SourceRef struct {
	ID     int    `json:"id"`
	Source string `json:"source"`
}

type OutcomeKind string

const (
	// OutcomeClarify: the question was too vague to retrieve against.
	OutcomeClarify OutcomeKind = "clarify"
	// OutcomeRefuse: nothing in the corpus was close enough to answer from.
	OutcomeRefuse OutcomeKind = "refuse"
	// OutcomeAnswered: a grounded answer with its cited sources.
	OutcomeAnswered OutcomeKind = "answered"
	// OutcomeError: an external collaborator failed.
	OutcomeError OutcomeKind = "error"
)

// Outcome is the single terminal result of asking a question. Refuse and
// Clarify always carry an empty source list.
type Outcome struct {
	Kind    OutcomeKind
	Answer  string
	Sources []SourceRef
}
