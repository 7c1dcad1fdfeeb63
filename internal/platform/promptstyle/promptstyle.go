package promptstyle

import "strings"

const marker = "DOCQA_PROMPT_STYLE_V1"

// ApplySystem prepends a concise guidance block to system prompts. It is
// intentionally minimal so it never changes task semantics, only tightens
// grounding discipline.
func ApplySystem(system string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are a careful documentation assistant.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nUse provided evidence blocks as grounding; do not invent facts or citations.")
	b.WriteString("\nIf the evidence does not contain the answer, say so exactly as instructed.")
	b.WriteString("\nKeep answers short, neutral, and professional.")
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
