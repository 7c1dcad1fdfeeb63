package services

import (
	"regexp"
	"strings"

	"github.com/yungbote/docqa-backend/internal/platform/envutil"
)

const defaultMinQuestionChars = 8

// ClarifyMessage is the fixed prompt returned for vague questions.
const ClarifyMessage = "Could you be more specific? For example: \"What are the opening hours on weekends?\" or \"Where can I park?\""

// vagueRules is an ordered table of named predicates. A question that trips
// any rule is flagged vague and never reaches retrieval. Over-flagging is
// preferred to retrieving on weak signal.
type vagueRule struct {
	name    string
	matches func(q string) bool
}

var deicticOnlyRe = regexp.MustCompile(`(?i)^\s*(?:(?:what|who|when|where|why|how|is|are|does|do|can|about)\s+)*(?:this|that|it|here|there|these|those)\s*\??\s*$`)

// QueryGuard flags questions too short or too deictic to retrieve against.
type QueryGuard struct {
	minChars int
	rules    []vagueRule
}

func NewQueryGuard() *QueryGuard {
	minChars := envutil.Int("RAG_MIN_QUESTION_CHARS", defaultMinQuestionChars)
	if minChars < 1 {
		minChars = defaultMinQuestionChars
	}
	g := &QueryGuard{minChars: minChars}
	g.rules = []vagueRule{
		{name: "too_short", matches: func(q string) bool {
			return len([]rune(q)) < g.minChars
		}},
		{name: "deictic_only", matches: func(q string) bool {
			return deicticOnlyRe.MatchString(q)
		}},
	}
	return g
}

// Assess reports whether the question is too vague to answer, and which rule
// flagged it (empty when not vague).
func (g *QueryGuard) Assess(question string) (vague bool, rule string) {
	trimmed := strings.TrimSpace(question)
	for _, r := range g.rules {
		if r.matches(trimmed) {
			return true, r.name
		}
	}
	return false, ""
}
