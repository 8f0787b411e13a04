// Package sources reads raw content from external feeds and spreadsheets and
// converts it into records the pipeline can filter.
package sources

import (
	"bytes"
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/jonathan/briefing-monitor/internal/fetch"
	"github.com/jonathan/briefing-monitor/internal/types"
)

// MaxBodyRunes bounds the text kept from an entry summary.
const MaxBodyRunes = 2000

// FeedSource retrieves and parses one feed.
type FeedSource interface {
	Fetch(ctx context.Context, locator string) (*gofeed.Feed, error)
}

// HTTPFeedSource downloads feeds over HTTP and parses RSS, Atom and JSON Feed documents.
type HTTPFeedSource struct {
	Options *fetch.Options
	parser  *gofeed.Parser
}

// NewHTTPFeedSource returns a feed source using the given fetch options (nil for defaults).
func NewHTTPFeedSource(opts *fetch.Options) *HTTPFeedSource {
	return &HTTPFeedSource{Options: opts, parser: gofeed.NewParser()}
}

// Fetch downloads and parses the feed at locator.
func (s *HTTPFeedSource) Fetch(ctx context.Context, locator string) (*gofeed.Feed, error) {
	result, err := fetch.Feed(ctx, locator, s.Options)
	if err != nil {
		return nil, &SourceError{Locator: locator, Message: "download failed", Cause: err}
	}

	parser := s.parser
	if parser == nil {
		parser = gofeed.NewParser()
	}
	feed, err := parser.Parse(bytes.NewReader(result.Body))
	if err != nil {
		return nil, &SourceError{Locator: locator, Message: "parse failed", Cause: err}
	}
	return feed, nil
}

// CollectOptions bounds feed collection.
type CollectOptions struct {
	// MaxEntries is the number of leading entries considered per feed; 0 means all.
	MaxEntries int
	Logger     *zap.Logger
}

// CollectFeeds reads every locator in order and returns the resulting records.
// A locator that fails or yields an empty feed is logged and skipped; when every
// locator fails the result is empty and no error is returned.
func CollectFeeds(ctx context.Context, src FeedSource, locators []string, opts CollectOptions) []types.Record {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var records []types.Record
	for _, locator := range locators {
		if ctx.Err() != nil {
			logger.Warn("collection interrupted", zap.Error(ctx.Err()))
			break
		}

		feed, err := src.Fetch(ctx, locator)
		if err != nil {
			logger.Warn("feed skipped", zap.String("locator", locator), zap.Error(err))
			continue
		}
		if feed == nil || len(feed.Items) == 0 {
			logger.Warn("feed empty", zap.String("locator", locator))
			continue
		}

		entries := FeedRecords(feed, opts.MaxEntries)
		logger.Debug("feed read",
			zap.String("locator", locator),
			zap.Int("entries", len(feed.Items)),
			zap.Int("records", len(entries)))
		records = append(records, entries...)
	}
	return records
}

// FeedRecords maps the first maxEntries items of a parsed feed to records.
// Entries without a title are dropped after the limit is applied.
func FeedRecords(feed *gofeed.Feed, maxEntries int) []types.Record {
	items := feed.Items
	if maxEntries > 0 && len(items) > maxEntries {
		items = items[:maxEntries]
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = types.UnknownSource
	}

	records := make([]types.Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		records = append(records, itemRecord(item, title, source))
	}
	return records
}

func itemRecord(item *gofeed.Item, title, source string) types.Record {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	r := types.Record{
		Title:  title,
		Link:   strings.TrimSpace(item.Link),
		Body:   fetch.Truncate(fetch.HTMLToText(summary), MaxBodyRunes),
		Source: source,
	}

	switch {
	case item.PublishedParsed != nil:
		r.PublishedAt = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		r.PublishedAt = *item.UpdatedParsed
	}

	r.Published = item.Published
	if r.Published == "" {
		r.Published = item.Updated
	}
	return r
}
