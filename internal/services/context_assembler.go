package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/docqa-backend/internal/types"
)

// ContextAssembler numbers the surviving chunks 1..N in input order and
// renders the labeled evidence block handed to the completion model. The
// citation index assigned here is the only identifier the model may cite.
type ContextAssembler struct{}

func NewContextAssembler() *ContextAssembler { return &ContextAssembler{} }

// Assemble assigns citation indices in input order (ascending distance) and
// renders one labeled block per chunk, joined by blank lines.
func (a *ContextAssembler) Assemble(chunks []types.Chunk) (string, []types.EvidenceBlock) {
	evidence := make([]types.EvidenceBlock, 0, len(chunks))
	blocks := make([]string, 0, len(chunks))
	for i, c := range chunks {
		idx := i + 1
		evidence = append(evidence, types.EvidenceBlock{CitationIndex: idx, Chunk: c})
		blocks = append(blocks, fmt.Sprintf("[%d] (source: %s)\n%s", idx, c.Source, c.Text))
	}
	return strings.Join(blocks, "\n\n"), evidence
}
