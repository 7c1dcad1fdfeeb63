package ingestion

import (
	"strings"
)

const (
	defaultChunkMaxChars = 1200
	defaultChunkMinChars = 200
)

// ChunkOptions tune the offline splitter. Zero values take the defaults.
type ChunkOptions struct {
	MaxChars int
	MinChars int
}

// SplitText breaks a document into passage-sized chunks. Paragraphs are the
// unit of splitting; short paragraphs are merged up to MaxChars and oversize
// paragraphs are cut at sentence ends, falling back to a hard cut when a
// single sentence exceeds the limit.
func SplitText(text string, opts ChunkOptions) []string {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = defaultChunkMaxChars
	}
	minChars := opts.MinChars
	if minChars <= 0 || minChars > maxChars {
		minChars = defaultChunkMinChars
		if minChars > maxChars {
			minChars = maxChars / 2
		}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range splitParagraphs(text) {
		if len(para) > maxChars {
			flush()
			for _, piece := range splitOversize(para, maxChars) {
				chunks = append(chunks, piece)
			}
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(para) > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(para)
		if current.Len() >= minChars {
			flush()
		}
	}
	flush()
	return chunks
}

func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	for _, p := range strings.Split(normalized, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitOversize cuts a paragraph at sentence boundaries, hard-cutting any
// single sentence longer than maxChars.
func splitOversize(para string, maxChars int) []string {
	var pieces []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			pieces = append(pieces, s)
		}
		current.Reset()
	}

	for _, sent := range splitSentences(para) {
		for len(sent) > maxChars {
			flush()
			pieces = append(pieces, strings.TrimSpace(sent[:maxChars]))
			sent = strings.TrimSpace(sent[maxChars:])
		}
		if sent == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(sent) > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
	}
	flush()
	return pieces
}

func splitSentences(text string) []string {
	var sents []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			end := i + 1
			for end < len(text) && (text[end] == '.' || text[end] == '!' || text[end] == '?') {
				end++
			}
			if end >= len(text) || text[end] == ' ' || text[end] == '\n' || text[end] == '\t' {
				s := strings.TrimSpace(text[start:end])
				if s != "" {
					sents = append(sents, s)
				}
				start = end
				i = end - 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sents = append(sents, s)
	}
	return sents
}
