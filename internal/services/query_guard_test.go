package services

import "testing"

func TestQueryGuardFlagsShortQuestions(t *testing.T) {
	g := NewQueryGuard()
	for _, q := range []string{"", "hi", "open?", "   hi   "} {
		vague, rule := g.Assess(q)
		if !vague {
			t.Fatalf("Assess(%q) vague = false, want true", q)
		}
		if rule != "too_short" {
			t.Fatalf("Assess(%q) rule = %q, want too_short", q, rule)
		}
	}
}

func TestQueryGuardFlagsDeicticQuestions(t *testing.T) {
	g := NewQueryGuard()
	for _, q := range []string{"what about this?", "is that", "what is it?", "how about there"} {
		vague, rule := g.Assess(q)
		if !vague {
			t.Fatalf("Assess(%q) vague = false, want true", q)
		}
		if rule != "deictic_only" {
			t.Fatalf("Assess(%q) rule = %q, want deictic_only", q, rule)
		}
	}
}

func TestQueryGuardPassesSpecificQuestions(t *testing.T) {
	g := NewQueryGuard()
	for _, q := range []string{
		"What time does the facility open on Saturdays?",
		"Where can I park my car?",
		"Is this building wheelchair accessible?",
	} {
		if vague, rule := g.Assess(q); vague {
			t.Fatalf("Assess(%q) flagged vague by rule %q", q, rule)
		}
	}
}

func TestQueryGuardMinCharsIsConfigurable(t *testing.T) {
	t.Setenv("RAG_MIN_QUESTION_CHARS", "3")
	g := NewQueryGuard()
	if vague, _ := g.Assess("abc"); vague {
		t.Fatal("3-char question flagged vague with min 3")
	}
	if vague, _ := g.Assess("ab"); !vague {
		t.Fatal("2-char question not flagged vague with min 3")
	}
}
