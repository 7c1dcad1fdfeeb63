package services

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// expansionRule appends recall-boosting terms when its trigger matches. The
// original question text is never altered, only extended.
type expansionRule struct {
	name    string
	trigger *regexp.Regexp
	append  string
}

var defaultExpansionRules = []expansionRule{
	{
		name:    "weekday_abbrev",
		trigger: regexp.MustCompile(`(?i)\b(mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)\b\.?`),
		append:  "monday tuesday wednesday thursday friday saturday sunday weekend",
	},
	{
		name:    "vehicle",
		trigger: regexp.MustCompile(`(?i)\b(car|truck|vehicle|motorcycle|bike|van)s?\b`),
		append:  "parking lot",
	},
	{
		name:    "hours",
		trigger: regexp.MustCompile(`(?i)\b(hours?|open(s|ing)?|close[sd]?|closing)\b`),
		append:  "hours open opening times",
	},
}

// expansionRulesFile is the YAML shape accepted via RAG_EXPANSION_RULES_PATH.
type expansionRulesFile struct {
	Rules []struct {
		Name    string `yaml:"name"`
		Trigger string `yaml:"trigger"`
		Append  string `yaml:"append"`
	} `yaml:"rules"`
}

// QueryExpander appends domain synonyms to the query before retrieval. The
// expanded string is used only for embedding, never shown to the user or sent
// to the completion model as the question.
type QueryExpander struct {
	rules []expansionRule
}

func NewQueryExpander() (*QueryExpander, error) {
	path := strings.TrimSpace(os.Getenv("RAG_EXPANSION_RULES_PATH"))
	if path == "" {
		return &QueryExpander{rules: defaultExpansionRules}, nil
	}
	rules, err := loadExpansionRules(path)
	if err != nil {
		return nil, err
	}
	return &QueryExpander{rules: rules}, nil
}

func loadExpansionRules(path string) ([]expansionRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expansion rules %s: %w", path, err)
	}
	var file expansionRulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse expansion rules %s: %w", path, err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("expansion rules %s: no rules defined", path)
	}
	rules := make([]expansionRule, 0, len(file.Rules))
	for i, r := range file.Rules {
		if strings.TrimSpace(r.Trigger) == "" || strings.TrimSpace(r.Append) == "" {
			return nil, fmt.Errorf("expansion rules %s: rule %d missing trigger or append", path, i)
		}
		trigger, err := regexp.Compile(r.Trigger)
		if err != nil {
			return nil, fmt.Errorf("expansion rules %s: rule %d trigger: %w", path, i, err)
		}
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("rule_%d", i)
		}
		rules = append(rules, expansionRule{name: name, trigger: trigger, append: r.Append})
	}
	return rules, nil
}

// Expand evaluates every rule in table order against the original question
// and appends each matching rule's terms once. Pure function of its input.
func (e *QueryExpander) Expand(question string) string {
	var b strings.Builder
	b.WriteString(question)
	for _, r := range e.rules {
		if r.trigger.MatchString(question) {
			b.WriteString(" ")
			b.WriteString(r.append)
		}
	}
	return b.String()
}
