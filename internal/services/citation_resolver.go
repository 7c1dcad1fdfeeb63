package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/docqa-backend/internal/types"
)

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

// CitationResolver maps the indices cited in the answer back to source files.
// A refusal yields no sources. Unparseable citations fail open: all evidence
// sources are exposed rather than hidden behind a formatting slip.
type CitationResolver struct{}

func NewCitationResolver() *CitationResolver { return &CitationResolver{} }

func (r *CitationResolver) Resolve(answerText string, evidence []types.EvidenceBlock) []types.SourceRef {
	if strings.HasPrefix(strings.TrimSpace(answerText), RefusalPhrase) {
		return nil
	}
	if len(evidence) == 0 {
		return nil
	}

	cited := citedIndices(answerText, len(evidence))

	var blocks []types.EvidenceBlock
	if len(cited) == 0 {
		blocks = evidence
	} else {
		for _, b := range evidence {
			if cited[b.CitationIndex] {
				blocks = append(blocks, b)
			}
		}
	}

	return dedupeBySource(blocks)
}

// citedIndices scans for bracketed integers and keeps only indices inside
// 1..n. Out-of-range citations are dropped, not errors.
func citedIndices(answerText string, n int) map[int]bool {
	cited := make(map[int]bool)
	for _, m := range citationRe.FindAllStringSubmatch(answerText, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		cited[idx] = true
	}
	return cited
}

// dedupeBySource keeps the first block per filename, in evidence order. The
// exposed id is the citation index of that first block.
func dedupeBySource(blocks []types.EvidenceBlock) []types.SourceRef {
	seen := make(map[string]bool, len(blocks))
	refs := make([]types.SourceRef, 0, len(blocks))
	for _, b := range blocks {
		if seen[b.Source] {
			continue
		}
		seen[b.Source] = true
		refs = append(refs, types.SourceRef{ID: b.CitationIndex, Source: b.Source})
	}
	return refs
}
