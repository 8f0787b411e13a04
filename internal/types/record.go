// Package types provides type definitions for structured data used throughout the briefing pipeline.
package types

import "time"

// UnknownSource is the source name used when a feed does not declare a title.
const UnknownSource = "Unknown source"

// UnknownDate is displayed wherever a record has no publication string.
const UnknownDate = "Date unknown"

// Record is one unit of collected content (an article or feed entry).
type Record struct {
	Title       string    `json:"title"`
	Link        string    `json:"link,omitempty"`
	Body        string    `json:"body,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"` // zero when the feed gave no parseable time
	Published   string    `json:"published,omitempty"`    // raw publication string, empty when unknown
	Source      string    `json:"source"`
}

// HasPublishedTime reports whether the record carries a resolvable publication time.
func (r Record) HasPublishedTime() bool {
	return !r.PublishedAt.IsZero()
}

// DisplayDate returns the publication string shown to readers.
func (r Record) DisplayDate() string {
	if r.Published == "" {
		return UnknownDate
	}
	return r.Published
}
