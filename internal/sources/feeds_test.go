package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/briefing-monitor/internal/types"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Health Policy Wire</title>
    <link>https://example.com</link>
    <item>
      <title>CMS finalizes Part D redesign</title>
      <link>https://example.com/a</link>
      <description>&lt;p&gt;The &lt;b&gt;final rule&lt;/b&gt; lands.&lt;/p&gt;</description>
      <pubDate>Mon, 24 Mar 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
    <item>
      <title>Undated item</title>
      <link>https://example.com/b</link>
      <description>No date here</description>
    </item>
  </channel>
</rss>`

func TestHTTPFeedSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	feed, err := NewHTTPFeedSource(nil).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Health Policy Wire", feed.Title)
	assert.Len(t, feed.Items, 3)
}

func TestHTTPFeedSource_FetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	src := NewHTTPFeedSource(nil)

	_, err := src.Fetch(context.Background(), server.URL+"/missing")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "download failed", srcErr.Message)

	_, err = src.Fetch(context.Background(), server.URL+"/garbage")
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "parse failed", srcErr.Message)
}

func TestFeedRecords_Mapping(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(sampleRSS)
	require.NoError(t, err)

	records := FeedRecords(feed, 0)

	require.Len(t, records, 2, "untitled entry is dropped")

	first := records[0]
	assert.Equal(t, "CMS finalizes Part D redesign", first.Title)
	assert.Equal(t, "https://example.com/a", first.Link)
	assert.Equal(t, "The final rule lands.", first.Body)
	assert.Equal(t, "Health Policy Wire", first.Source)
	assert.Equal(t, "Mon, 24 Mar 2025 10:00:00 +0000", first.Published)
	assert.True(t, first.PublishedAt.Equal(time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC)))

	second := records[1]
	assert.False(t, second.HasPublishedTime())
	assert.Empty(t, second.Published)
	assert.Equal(t, types.UnknownDate, second.DisplayDate())
}

func TestFeedRecords_LimitAppliesBeforeTitleDrop(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(sampleRSS)
	require.NoError(t, err)

	records := FeedRecords(feed, 2)

	require.Len(t, records, 1)
	assert.Equal(t, "CMS finalizes Part D redesign", records[0].Title)
}

func TestFeedRecords_FallbacksAndTruncation(t *testing.T) {
	updated := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	feed := &gofeed.Feed{
		Items: []*gofeed.Item{
			{
				Title:         "Content only",
				Content:       strings.Repeat("a", MaxBodyRunes+50),
				Updated:       "2025-02-01T00:00:00Z",
				UpdatedParsed: &updated,
			},
		},
	}

	records := FeedRecords(feed, 0)

	require.Len(t, records, 1)
	assert.Equal(t, types.UnknownSource, records[0].Source)
	assert.Len(t, records[0].Body, MaxBodyRunes)
	assert.Equal(t, "2025-02-01T00:00:00Z", records[0].Published)
	assert.True(t, records[0].PublishedAt.Equal(updated))
}

type fakeFeedSource struct {
	feeds map[string]*gofeed.Feed
	calls []string
}

func (f *fakeFeedSource) Fetch(_ context.Context, locator string) (*gofeed.Feed, error) {
	f.calls = append(f.calls, locator)
	feed, ok := f.feeds[locator]
	if !ok {
		return nil, &SourceError{Locator: locator, Message: "download failed", Cause: errors.New("connection refused")}
	}
	return feed, nil
}

func TestCollectFeeds_SkipsFailuresAndEmptyFeeds(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := &fakeFeedSource{feeds: map[string]*gofeed.Feed{
		"good":  {Title: "Good", Items: []*gofeed.Item{{Title: "One"}, {Title: "Two"}}},
		"empty": {Title: "Empty"},
	}}

	records := CollectFeeds(context.Background(), src, []string{"bad", "good", "empty"}, CollectOptions{
		Logger: zap.New(core),
	})

	require.Len(t, records, 2)
	assert.Equal(t, "Good", records[0].Source)
	assert.Equal(t, []string{"bad", "good", "empty"}, src.calls)

	assert.Equal(t, 1, logs.FilterMessage("feed skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("feed empty").Len())
	skipped := logs.FilterMessage("feed skipped").All()[0]
	assert.Equal(t, "bad", skipped.ContextMap()["locator"])
}

func TestCollectFeeds_AllFail(t *testing.T) {
	src := &fakeFeedSource{}

	records := CollectFeeds(context.Background(), src, []string{"a", "b"}, CollectOptions{})

	assert.Empty(t, records)
}

func TestCollectFeeds_MaxEntriesPerFeed(t *testing.T) {
	items := make([]*gofeed.Item, 30)
	for i := range items {
		items[i] = &gofeed.Item{Title: "item " + string(rune('A'+i))}
	}
	src := &fakeFeedSource{feeds: map[string]*gofeed.Feed{
		"a": {Items: items},
		"b": {Items: items},
	}}

	records := CollectFeeds(context.Background(), src, []string{"a", "b"}, CollectOptions{MaxEntries: 25})

	assert.Len(t, records, 50)
}

func TestCollectFeeds_StopsOnCancelledContext(t *testing.T) {
	src := &fakeFeedSource{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := CollectFeeds(ctx, src, []string{"a"}, CollectOptions{})

	assert.Empty(t, records)
	assert.Empty(t, src.calls)
}
