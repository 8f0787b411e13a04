package rendering

import (
	"github.com/jonathan/briefing-monitor/internal/types"
)

// DefaultListingTitle heads the item listing when a presentation does not name one.
const DefaultListingTitle = "Article Reference List"

// BuildListing produces the fixed-format item listing, one entry per record in order.
func BuildListing(records []types.Record) []types.ListingEntry {
	if len(records) == 0 {
		return nil
	}
	entries := make([]types.ListingEntry, len(records))
	for i, r := range records {
		entries[i] = types.ListingEntry{
			Ordinal:   i + 1,
			Title:     r.Title,
			Source:    r.Source,
			Published: r.DisplayDate(),
			Link:      r.Link,
		}
	}
	return entries
}

// BuildDocument parses the narrative and appends the listing for records. The listing does
// not depend on the narrative and is present even when the narrative is empty.
func BuildDocument(narrative string, rules Rules, records []types.Record) types.BriefDocument {
	return types.BriefDocument{
		Blocks:  ParseNarrative(narrative, rules),
		Listing: BuildListing(records),
	}
}
