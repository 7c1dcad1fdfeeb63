package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGenerator struct {
	answer    string
	err       error
	gotSystem string
	gotUser   string
}

func (f *fakeGenerator) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGenerator) GenerateText(_ context.Context, system, user string) (string, error) {
	f.gotSystem = system
	f.gotUser = user
	return f.answer, f.err
}

func TestComposeSendsEvidenceAndQuestion(t *testing.T) {
	gen := &fakeGenerator{answer: "Open 9-5 [1]."}
	c := NewAnswerComposer(gen, testLogger(t))

	out, err := c.Compose(context.Background(), "When are you open?", "[1] (source: hours.md)\nOpen 9-5.")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if out != "Open 9-5 [1]." {
		t.Fatalf("answer = %q", out)
	}
	if !strings.Contains(gen.gotUser, "[1] (source: hours.md)") {
		t.Fatalf("user prompt missing evidence:\n%s", gen.gotUser)
	}
	if !strings.Contains(gen.gotUser, "Question: When are you open?") {
		t.Fatalf("user prompt missing question:\n%s", gen.gotUser)
	}
	if !strings.Contains(gen.gotSystem, RefusalPhrase) {
		t.Fatalf("system prompt missing refusal instruction:\n%s", gen.gotSystem)
	}
}

func TestComposePropagatesGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	c := NewAnswerComposer(gen, testLogger(t))
	if _, err := c.Compose(context.Background(), "q", "block"); err == nil {
		t.Fatal("expected generation error to propagate")
	}
}

func TestNormalizeRefusalRepairsNearMisses(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"I don't know", "I don't know"},
		{"i don't know", "I don't know"},
		{"I dont know", "I don't know"},
		{"I don't konw", "I don't know"},
		{"I dont know.", "I don't know"},
		{"I don't know, the evidence is silent.", "I don't know, the evidence is silent."},
	}
	for _, tc := range cases {
		if got := normalizeRefusal(tc.in); got != tc.want {
			t.Fatalf("normalizeRefusal(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRefusalLeavesRealAnswersAlone(t *testing.T) {
	for _, in := range []string{
		"Open 9-5 on weekdays [1].",
		"I do believe the lot is open [2].",
		"It depends on the day [1].",
	} {
		if got := normalizeRefusal(in); got != in {
			t.Fatalf("normalizeRefusal(%q) = %q, want unchanged", in, got)
		}
	}
}
