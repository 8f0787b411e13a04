package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/briefing-monitor/internal/types"
)

var now = time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)

func published(daysAgo float64) types.Record {
	at := now.Add(-time.Duration(daysAgo * float64(24*time.Hour)))
	return types.Record{Title: "t", PublishedAt: at, Published: at.Format(time.RFC1123Z)}
}

func TestIsRecent_Window(t *testing.T) {
	assert.True(t, IsRecent(published(0), now, 21))
	assert.True(t, IsRecent(published(20.5), now, 21))
	assert.True(t, IsRecent(published(21.9), now, 21), "21 whole days elapsed is still inside")
	assert.False(t, IsRecent(published(22), now, 21))
	assert.False(t, IsRecent(published(90), now, 21))
}

func TestIsRecent_UnknownTimeKept(t *testing.T) {
	r := types.Record{Title: "no date"}
	assert.True(t, IsRecent(r, now, 21))
	assert.True(t, IsRecent(r, now, 0))
}

func TestIsRecent_FutureDateKept(t *testing.T) {
	assert.True(t, IsRecent(published(-2), now, 21))
}

func TestRecent_PreservesOrderAndDefaultsWindow(t *testing.T) {
	a := published(1)
	a.Title = "a"
	b := published(30)
	b.Title = "b"
	c := types.Record{Title: "c"}
	d := published(21)
	d.Title = "d"

	got := Recent([]types.Record{a, b, c, d}, now, 0)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "c", "d"}, titles(got))
}

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "cms finalizes 2026 rule", DedupKey("CMS Finalizes 2026 Rule!"))
	assert.Equal(t, "whats next for part d", DedupKey("What's Next for Part D?"))
	assert.Equal(t, "snake_case stays", DedupKey("snake_case stays"))
	assert.Equal(t, "café news", DedupKey("Café: News"))
}

func TestDedup_FirstWins(t *testing.T) {
	records := []types.Record{
		{Title: "CMS announces ACCESS model", Source: "first"},
		{Title: "Unrelated", Source: "other"},
		{Title: "cms announces access model!", Source: "second"},
		{Title: "CMS Announces: ACCESS Model", Source: "third"},
	}

	got := Dedup(records)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Source)
	assert.Equal(t, "other", got[1].Source)
}

func TestDedup_Idempotent(t *testing.T) {
	records := []types.Record{
		{Title: "A"}, {Title: "a!"}, {Title: "B"}, {Title: "b"}, {Title: "C"},
	}

	once := Dedup(records)
	twice := Dedup(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"A", "B", "C"}, titles(once))
}

func TestDedup_Empty(t *testing.T) {
	assert.Empty(t, Dedup(nil))
}

func titles(records []types.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}
