package synthesis

import (
	"fmt"
	"strings"

	"github.com/jonathan/briefing-monitor/internal/fetch"
	"github.com/jonathan/briefing-monitor/internal/types"
)

// SummaryRunes bounds the body text quoted per article in the prompt.
const SummaryRunes = 800

// TodayLayout formats the current date for the insight prompt.
const TodayLayout = "Monday, January 2, 2006"

// FormatArticles renders records as numbered article blocks separated by blank lines.
func FormatArticles(records []types.Record) string {
	entries := make([]string, 0, len(records))
	for i, r := range records {
		var sb strings.Builder
		fmt.Fprintf(&sb, "ARTICLE %d:\n", i+1)
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
		fmt.Fprintf(&sb, "Source: %s\n", r.Source)
		fmt.Fprintf(&sb, "Date: %s\n", r.DisplayDate())
		fmt.Fprintf(&sb, "Summary: %s\n", fetch.Truncate(r.Body, SummaryRunes))
		fmt.Fprintf(&sb, "Link: %s", r.Link)
		entries = append(entries, sb.String())
	}
	return strings.Join(entries, "\n\n")
}

// FormatMetrics renders one block per week of accuracy counters.
func FormatMetrics(records []types.MetricsRecord) string {
	entries := make([]string, 0, len(records))
	for _, m := range records {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Week of %s:\n", m.Date)
		fmt.Fprintf(&sb, "  ASCVD: %d correct, %d incorrect (%s%% accuracy)\n",
			m.Count(types.CounterASCVDCorrect), m.Count(types.CounterASCVDIncorrect), accuracy(m))
		fmt.Fprintf(&sb, "  Drug Interactions: %d detected, %d missed\n",
			m.Count(types.CounterInteractionsDetected), m.Count(types.CounterInteractionsMissed))
		fmt.Fprintf(&sb, "  False Positives: %d\n", m.Count(types.CounterFalsePositives))
		fmt.Fprintf(&sb, "  Allergy Failures: %d\n", m.Count(types.CounterAllergyFailures))
		fmt.Fprintf(&sb, "  Notes: %s\n", m.Notes)
		entries = append(entries, sb.String())
	}
	return strings.Join(entries, "\n")
}

// accuracy prints "0" for weeks without ASCVD samples and one decimal otherwise.
func accuracy(m types.MetricsRecord) string {
	if m.Count(types.CounterASCVDCorrect)+m.Count(types.CounterASCVDIncorrect) == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", m.ASCVDAccuracy())
}
