package types

// Counter names carried by a MetricsRecord, in spreadsheet column order (columns B..G).
const (
	CounterASCVDCorrect         = "ascvd_correct"
	CounterASCVDIncorrect       = "ascvd_incorrect"
	CounterInteractionsDetected = "drug_interactions_detected"
	CounterInteractionsMissed   = "drug_interactions_missed"
	CounterFalsePositives       = "false_positives"
	CounterAllergyFailures      = "allergy_failures"
)

// MetricsCounters lists the counters in column order.
var MetricsCounters = []string{
	CounterASCVDCorrect,
	CounterASCVDIncorrect,
	CounterInteractionsDetected,
	CounterInteractionsMissed,
	CounterFalsePositives,
	CounterAllergyFailures,
}

// MetricsRecord is one row of the accuracy tracking sheet.
type MetricsRecord struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
	Notes  string         `json:"notes,omitempty"`
}

// Count returns the named counter, or zero when absent.
func (m MetricsRecord) Count(name string) int {
	if m.Counts == nil {
		return 0
	}
	return m.Counts[name]
}

// ASCVDAccuracy returns the percentage of correct ASCVD calculations rounded to one
// decimal place. Weeks without ASCVD samples report 0.
func (m MetricsRecord) ASCVDAccuracy() float64 {
	correct := m.Count(CounterASCVDCorrect)
	total := correct + m.Count(CounterASCVDIncorrect)
	if total <= 0 {
		return 0
	}
	pct := float64(correct) / float64(total) * 100
	return float64(int64(pct*10+0.5)) / 10
}
