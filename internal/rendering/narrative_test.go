package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/briefing-monitor/internal/types"
)

var briefingRules = Rules{
	SectionTitles: []string{"EXECUTIVE SUMMARY", "KEY TAKEAWAYS", "STRATEGIC IMPLICATIONS"},
}

var trendRules = Rules{
	SectionTitles: []string{"EXECUTIVE SUMMARY", "KEY METRICS", "ANOMALIES", "RECOMMENDATIONS"},
	AlertSections: []string{"ANOMALIES"},
	ConcernWords:  []string{"drop", "decline", "concern", "alert", "spike", "failure"},
}

func TestParseNarrative_RoundTrip(t *testing.T) {
	text := "## Overview\n- first\n- second\n- third\nClosing thoughts."

	blocks := ParseNarrative(text, Rules{})

	require.Len(t, blocks, 3)
	assert.Equal(t, types.BlockHeading, blocks[0].Kind)
	assert.Equal(t, "Overview", blocks[0].Text)
	assert.Equal(t, types.BlockBulletList, blocks[1].Kind)
	require.Len(t, blocks[1].Items, 3)
	assert.Equal(t, "third", blocks[1].Items[2].PlainText())
	assert.Equal(t, types.BlockParagraph, blocks[2].Kind)
	assert.Equal(t, "Closing thoughts.", blocks[2].Text)
}

func TestParseNarrative_BlankLinesDoNotCloseList(t *testing.T) {
	blocks := ParseNarrative("- one\n\n   \n- two", Rules{})

	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0].Items, 2)
}

func TestParseNarrative_PlainLineClosesList(t *testing.T) {
	blocks := ParseNarrative("- one\nbreak\n- two", Rules{})

	require.Len(t, blocks, 3)
	assert.Equal(t, types.BlockBulletList, blocks[0].Kind)
	assert.Equal(t, types.BlockParagraph, blocks[1].Kind)
	assert.Equal(t, types.BlockBulletList, blocks[2].Kind)
}

func TestParseNarrative_SectionTitleSubstringIsHeading(t *testing.T) {
	text := "1. EXECUTIVE SUMMARY:\nCMS moved fast.\n- KEY TAKEAWAYS in brief\n# Title #"

	blocks := ParseNarrative(text, briefingRules)

	require.Len(t, blocks, 4)
	assert.Equal(t, types.BlockHeading, blocks[0].Kind)
	assert.Equal(t, "1. EXECUTIVE SUMMARY:", blocks[0].Text)
	assert.Equal(t, types.BlockHeading, blocks[2].Kind, "a bullet mentioning a section title is a heading")
	assert.Equal(t, "- KEY TAKEAWAYS in brief", blocks[2].Text)
	assert.Equal(t, types.BlockParagraph, blocks[3].Kind, "a single # is not a heading marker")
	assert.Equal(t, "# Title #", blocks[3].Text)
}

func TestParseNarrative_SectionTitlesAreCaseSensitive(t *testing.T) {
	blocks := ParseNarrative("Error creating executive summary: quota exceeded", briefingRules)

	require.Len(t, blocks, 1)
	assert.Equal(t, types.BlockParagraph, blocks[0].Kind)
}

func TestParseNarrative_HeadingStripsAllHashes(t *testing.T) {
	blocks := ParseNarrative("### Key #1 metric", Rules{})

	require.Len(t, blocks, 1)
	assert.Equal(t, "Key 1 metric", blocks[0].Text)
}

func TestParseNarrative_BulletMarkers(t *testing.T) {
	blocks := ParseNarrative("• dot\n-dash\n*   star\n  - indented", Rules{})

	require.Len(t, blocks, 1)
	var got []string
	for _, item := range blocks[0].Items {
		got = append(got, item.PlainText())
	}
	assert.Equal(t, []string{"dot", "dash", "star", "indented"}, got)
}

func TestParseNarrative_BoldSpans(t *testing.T) {
	blocks := ParseNarrative("- **Part D:** premiums rise", Rules{})

	require.Len(t, blocks, 1)
	assert.Equal(t, []types.Span{
		{Text: "Part D:", Bold: true},
		{Text: " premiums rise"},
	}, blocks[0].Items[0].Spans)
}

func TestParseNarrative_TrendVariantFlagsConcerns(t *testing.T) {
	text := "## ANOMALIES & ALERTS\n- ASCVD accuracy DROPPED to 80%\n- Interactions stable\n## RECOMMENDATIONS\nWatch the spike closely."

	blocks := ParseNarrative(text, trendRules)

	require.Len(t, blocks, 4)
	assert.True(t, blocks[0].Alert)
	assert.True(t, blocks[1].Items[0].Flagged)
	assert.False(t, blocks[1].Items[1].Flagged)
	assert.False(t, blocks[2].Alert)
	assert.Equal(t, types.BlockParagraph, blocks[3].Kind, "paragraphs are never flagged")
}

func TestParseNarrative_Empty(t *testing.T) {
	assert.Empty(t, ParseNarrative("", Rules{}))
	assert.Empty(t, ParseNarrative("\n\n  \n", Rules{}))
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"", lineBlank},
		{"## Heading", lineHeading},
		{"KEY METRICS & TRENDS", lineHeading},
		{"• bullet", lineBullet},
		{"- bullet", lineBullet},
		{"* bullet", lineBullet},
		{"Plain text", linePlain},
		{"2025 - a year", linePlain},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyLine(tt.line, trendRules), tt.want.String())
		})
	}
}

func TestMachineTransitions(t *testing.T) {
	m := newMachine(Rules{})

	assert.Equal(t, stateDefault, m.step("intro"))
	assert.Equal(t, stateInList, m.step("- a"))
	assert.Equal(t, stateInList, m.step(""))
	assert.Equal(t, stateInList, m.step("- b"))
	assert.Equal(t, stateDefault, m.step("## next"))
	assert.Equal(t, stateInList, m.step("- c"))

	blocks := m.finish()
	assert.Equal(t, stateDefault, m.state)
	require.Len(t, blocks, 4)
	assert.Len(t, blocks[1].Items, 2)
	assert.Len(t, blocks[3].Items, 1)
}

func TestParseEmphasis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []types.Span
	}{
		{"plain", "no markers", []types.Span{{Text: "no markers"}}},
		{"pair", "a **b** c", []types.Span{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}}},
		{"unpaired", "a **b", []types.Span{{Text: "a **b"}}},
		{"pair then unpaired", "**x** and **y", []types.Span{{Text: "x", Bold: true}, {Text: " and **y"}}},
		{"empty bold", "a **** b", []types.Span{{Text: "a  b"}}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEmphasis(tt.in))
		})
	}
}
