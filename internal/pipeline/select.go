package pipeline

import (
	"time"

	"github.com/jonathan/briefing-monitor/internal/filter"
	"github.com/jonathan/briefing-monitor/internal/ranking"
	"github.com/jonathan/briefing-monitor/internal/relevance"
	"github.com/jonathan/briefing-monitor/internal/types"
)

// Evaluated pairs a collected record with the classifier's decision.
type Evaluated struct {
	Record   types.Record
	Decision relevance.Decision
}

// Selection is the outcome of the classify, recency, dedup and rank stages.
type Selection struct {
	Collected int
	Decisions []Evaluated
	Relevant  int
	Recent    int
	Records   []types.Record
}

// SelectRecords classifies every record, keeps the relevant ones inside the recency
// window, drops duplicate titles (first seen wins) and ranks the rest newest first.
func SelectRecords(records []types.Record, rule relevance.Rule, now time.Time, windowDays int) Selection {
	classifier := relevance.NewClassifier(rule)

	sel := Selection{
		Collected: len(records),
		Decisions: make([]Evaluated, 0, len(records)),
	}
	relevant := make([]types.Record, 0, len(records))
	for _, r := range records {
		d := classifier.Evaluate(r)
		sel.Decisions = append(sel.Decisions, Evaluated{Record: r, Decision: d})
		if d.Relevant {
			relevant = append(relevant, r)
		}
	}
	sel.Relevant = len(relevant)

	recent := filter.Recent(relevant, now, windowDays)
	sel.Recent = len(recent)

	sel.Records = ranking.Rank(filter.Dedup(recent))
	return sel
}
