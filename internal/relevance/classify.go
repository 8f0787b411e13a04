package relevance

import (
	"strings"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// Classifier evaluates records against one rule. Terms are lower-cased once at construction.
type Classifier struct {
	rule Rule
}

// NewClassifier prepares a classifier for the given rule.
func NewClassifier(rule Rule) *Classifier {
	return &Classifier{rule: rule.lowered()}
}

// IsRelevant reports whether the record passes the rule.
func IsRelevant(record types.Record, rule Rule) bool {
	return NewClassifier(rule).Evaluate(record).Relevant
}

// Evaluate reports whether the record passes the rule and which tier decided.
func Evaluate(record types.Record, rule Rule) Decision {
	return NewClassifier(rule).Evaluate(record)
}

// Evaluate runs the tiers in order against the record's title and body.
func (c *Classifier) Evaluate(record types.Record) Decision {
	return c.EvaluateText(record.Title + " " + record.Body)
}

// EvaluateText runs the tiers against arbitrary text.
func (c *Classifier) EvaluateText(text string) Decision {
	text = strings.ToLower(text)
	r := c.rule

	if len(r.Gate) > 0 {
		if _, ok := firstMatch(text, r.Gate); !ok {
			return Decision{Relevant: false, Tier: TierGate}
		}
	}

	if term, ok := firstMatch(text, r.HighPriority); ok {
		return Decision{Relevant: true, Tier: TierHighPriority, Term: term}
	}

	if term, ok := firstMatch(text, r.General); ok {
		return Decision{Relevant: true, Tier: TierGeneral, Term: term}
	}

	for _, clause := range r.Compound {
		subject, ok := firstMatch(text, clause.Subject)
		if !ok {
			continue
		}
		capability, ok := firstMatch(text, clause.Capability)
		if !ok {
			continue
		}
		return Decision{Relevant: true, Tier: TierCompound, Term: subject + "+" + capability}
	}

	if term, ok := firstMatch(text, r.Exclude); ok {
		return Decision{Relevant: false, Tier: TierExclude, Term: term}
	}

	return Decision{Relevant: false, Tier: TierDefault}
}

// firstMatch returns the first term (in list order) that occurs in text.
func firstMatch(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}
