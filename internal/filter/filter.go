// Package filter applies the recency window and title-based deduplication to collected records.
package filter

import (
	"strings"
	"time"
	"unicode"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// DefaultWindowDays is the trailing recency window applied when none is configured.
const DefaultWindowDays = 21

const day = 24 * time.Hour

// IsRecent reports whether a record falls inside the window ending at now.
// Records without a publication time are always recent; the window is measured in
// whole elapsed days, so a record is dropped only once more than windowDays full days
// have passed.
func IsRecent(record types.Record, now time.Time, windowDays int) bool {
	if !record.HasPublishedTime() {
		return true
	}
	elapsed := now.Sub(record.PublishedAt)
	if elapsed < 0 {
		return true
	}
	return int(elapsed/day) <= windowDays
}

// Recent returns the records that fall inside the window, preserving order.
func Recent(records []types.Record, now time.Time, windowDays int) []types.Record {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if IsRecent(r, now, windowDays) {
			out = append(out, r)
		}
	}
	return out
}

// DedupKey normalizes a title: lower-cased, keeping only letters, digits, underscores
// and whitespace.
func DedupKey(title string) string {
	lowered := strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dedup collapses records sharing a DedupKey. The first record seen for a key wins and
// the output keeps first-seen order.
func Dedup(records []types.Record) []types.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		key := DedupKey(r.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
