// Package ranking orders filtered records for presentation.
package ranking

import (
	"sort"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// Rank returns records sorted newest first by their raw publication string.
//
// The sort compares the strings as the feeds state them, not the parsed times, and is
// stable so ties keep their filtered order. Records with no publication string compare
// as "" and end up together at the tail.
func Rank(records []types.Record) []types.Record {
	ranked := make([]types.Record, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Published > ranked[j].Published
	})

	return ranked
}

