package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/openai"
	"github.com/yungbote/docqa-backend/internal/platform/promptstyle"
)

// RefusalPhrase is the canonical text the model must emit when the evidence
// does not contain the answer. Downstream components match on it exactly.
const RefusalPhrase = "I don't know"

const composerSystemPrompt = `You answer questions strictly from the numbered evidence blocks provided.
Rules:
- Use only facts stated in the evidence blocks. Never use outside knowledge.
- If the evidence does not contain the answer, respond exactly with: I don't know
- Cite every evidence block you use with its bracketed index, for example [1] or [2].
- Prefer bullet points when the answer has multiple items.
- If the evidence is ambiguous or conflicting, say so explicitly.
- Keep the tone short, neutral, and professional.`

// AnswerComposer invokes the completion model with grounding instructions and
// repairs trivial output defects before the answer is inspected downstream.
type AnswerComposer struct {
	client openai.Client
	log    *logger.Logger
}

func NewAnswerComposer(client openai.Client, log *logger.Logger) *AnswerComposer {
	return &AnswerComposer{client: client, log: log}
}

func (c *AnswerComposer) Compose(ctx context.Context, question, promptBlock string) (string, error) {
	user := fmt.Sprintf("Evidence blocks:\n\n%s\n\nQuestion: %s", promptBlock, question)
	out, err := c.client.GenerateText(ctx, promptstyle.ApplySystem(composerSystemPrompt), user)
	if err != nil {
		return "", err
	}
	return normalizeRefusal(strings.TrimSpace(out)), nil
}

// normalizeRefusal rewrites answers that begin with a near-miss spelling of
// the refusal phrase to start with the canonical phrase. String repair only;
// anything that is not a close match passes through untouched.
func normalizeRefusal(answer string) string {
	prefix, rest := splitLeadingPhrase(answer, len(RefusalPhrase))
	if prefix == "" {
		return answer
	}
	if strings.EqualFold(prefix, RefusalPhrase) {
		return RefusalPhrase + rest
	}
	if levenshtein(strings.ToLower(prefix), strings.ToLower(RefusalPhrase)) <= 2 {
		return RefusalPhrase + rest
	}
	return answer
}

// splitLeadingPhrase cuts a prefix of roughly phrase length at a word
// boundary so the edit-distance check compares like with like.
func splitLeadingPhrase(s string, n int) (prefix, rest string) {
	if s == "" {
		return "", ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s, ""
	}
	cut := n
	// Extend to the end of the current word.
	for cut < len(runes) && !unicode.IsSpace(runes[cut]) && runes[cut] != '.' && runes[cut] != ',' {
		cut++
		if cut-n > 4 {
			return "", ""
		}
	}
	return string(runes[:cut]), string(runes[cut:])
}

func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
