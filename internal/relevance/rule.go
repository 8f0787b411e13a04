// Package relevance decides whether a collected record belongs in a brief.
//
// A Rule is a layered predicate evaluated in a fixed order, first match wins:
//
//	gate -> high priority -> general -> compound -> exclude -> default reject
//
// Term lists overlap across tiers, so the order is part of the contract. Tiers a rule does
// not declare are skipped. All matching is case-insensitive substring matching over the
// record's title and body.
package relevance

import (
	"fmt"
	"strings"
)

// Tier names the clause that decided a record.
type Tier string

const (
	TierGate         Tier = "gate"
	TierHighPriority Tier = "high_priority"
	TierGeneral      Tier = "general"
	TierCompound     Tier = "compound"
	TierExclude      Tier = "exclude"
	TierDefault      Tier = "default"
)

// CompoundClause accepts when both lists have a match in the text.
type CompoundClause struct {
	Name       string   `yaml:"name,omitempty" json:"name,omitempty"`
	Subject    []string `yaml:"subject" json:"subject" validate:"required,min=1,dive,required"`
	Capability []string `yaml:"capability" json:"capability" validate:"required,min=1,dive,required"`
}

// Rule is the term-based configuration for one variant.
type Rule struct {
	Gate         []string         `yaml:"gate,omitempty" json:"gate,omitempty" validate:"dive,required"`
	HighPriority []string         `yaml:"high_priority,omitempty" json:"high_priority,omitempty" validate:"dive,required"`
	General      []string         `yaml:"general,omitempty" json:"general,omitempty" validate:"dive,required"`
	Compound     []CompoundClause `yaml:"compound,omitempty" json:"compound,omitempty" validate:"dive"`
	Exclude      []string         `yaml:"exclude,omitempty" json:"exclude,omitempty" validate:"dive,required"`
}

// Decision records the outcome of evaluating a rule against one record.
type Decision struct {
	Relevant bool
	Tier     Tier
	Term     string // deciding term; for compound clauses "subject+capability"
}

func (d Decision) String() string {
	verdict := "reject"
	if d.Relevant {
		verdict = "accept"
	}
	if d.Term == "" {
		return fmt.Sprintf("%s (%s)", verdict, d.Tier)
	}
	return fmt.Sprintf("%s (%s: %q)", verdict, d.Tier, d.Term)
}

// IsEmpty reports whether the rule declares no accepting tier at all.
func (r Rule) IsEmpty() bool {
	return len(r.HighPriority) == 0 && len(r.General) == 0 && len(r.Compound) == 0
}

// Lint returns warnings about rule shapes whose tiers cannot affect the outcome.
func (r Rule) Lint() []string {
	var warnings []string
	if len(r.Exclude) > 0 {
		// Exclusion runs only after every accepting tier has already failed, and the
		// default is reject, so an exclusion hit and a miss both reject.
		warnings = append(warnings, fmt.Sprintf(
			"exclude tier (%d terms) is evaluated after all accepting tiers and cannot change any decision",
			len(r.Exclude)))
	}
	if r.IsEmpty() {
		warnings = append(warnings, "rule declares no accepting tier; every record will be rejected")
	}
	for i, c := range r.Compound {
		if len(c.Subject) == 0 || len(c.Capability) == 0 {
			warnings = append(warnings, fmt.Sprintf("compound clause %d has an empty term list and never matches", i+1))
		}
	}
	return warnings
}

// lowered returns a copy of the rule with every term lower-cased.
func (r Rule) lowered() Rule {
	out := Rule{
		Gate:         lowerAll(r.Gate),
		HighPriority: lowerAll(r.HighPriority),
		General:      lowerAll(r.General),
		Exclude:      lowerAll(r.Exclude),
	}
	if len(r.Compound) > 0 {
		out.Compound = make([]CompoundClause, len(r.Compound))
		for i, c := range r.Compound {
			out.Compound[i] = CompoundClause{
				Name:       c.Name,
				Subject:    lowerAll(c.Subject),
				Capability: lowerAll(c.Capability),
			}
		}
	}
	return out
}

func lowerAll(terms []string) []string {
	if len(terms) == 0 {
		return nil
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
