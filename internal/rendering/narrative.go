// Package rendering turns synthesis output into a brief document and serializes it for email.
//
// Narrative parsing is a line-oriented state machine with two states. Lines are classified
// as blank, heading, bullet or plain, and each class has a single transition:
//
//	blank:   no change (an open list stays open)
//	heading: close list, emit Heading          -> stateDefault
//	bullet:  open list if needed, append item  -> stateInList
//	plain:   close list, emit Paragraph        -> stateDefault
//
// End of input closes any open list.
package rendering

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// HeadingMarker starts a heading line.
const HeadingMarker = "##"

// BoldMarker delimits a bold span inside a bullet.
const BoldMarker = "**"

// BulletMarkers are the glyphs that start a bullet line.
var BulletMarkers = []rune{'•', '-', '*'}

// Rules are the variant-specific inputs to narrative parsing.
type Rules struct {
	// SectionTitles turn any line containing one of them into a heading (case-sensitive).
	SectionTitles []string
	// AlertSections mark headings containing one of them as alerts.
	AlertSections []string
	// ConcernWords flag bullet items containing one of them (case-insensitive).
	ConcernWords []string
}

type state int

const (
	stateDefault state = iota
	stateInList
)

func (s state) String() string {
	if s == stateInList {
		return "in_list"
	}
	return "default"
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeading
	lineBullet
	linePlain
)

func (k lineKind) String() string {
	switch k {
	case lineBlank:
		return "blank"
	case lineHeading:
		return "heading"
	case lineBullet:
		return "bullet"
	default:
		return "plain"
	}
}

// classifyLine decides how a trimmed line is treated. Heading detection runs first, so a
// bullet that mentions a section title is a heading.
func classifyLine(line string, rules Rules) lineKind {
	if line == "" {
		return lineBlank
	}
	if strings.HasPrefix(line, HeadingMarker) {
		return lineHeading
	}
	for _, title := range rules.SectionTitles {
		if title != "" && strings.Contains(line, title) {
			return lineHeading
		}
	}
	if isBullet(line) {
		return lineBullet
	}
	return linePlain
}

func isBullet(line string) bool {
	for _, r := range line {
		for _, m := range BulletMarkers {
			if r == m {
				return true
			}
		}
		return false
	}
	return false
}

// machine accumulates blocks while walking the narrative.
type machine struct {
	rules  Rules
	state  state
	blocks []types.Block
}

func newMachine(rules Rules) *machine {
	return &machine{rules: rules, state: stateDefault}
}

// step feeds one raw line through the machine and returns the resulting state.
func (m *machine) step(raw string) state {
	line := strings.TrimSpace(raw)
	switch classifyLine(line, m.rules) {
	case lineBlank:
	case lineHeading:
		m.closeList()
		text := headingText(line)
		m.blocks = append(m.blocks, types.Block{
			Kind:  types.BlockHeading,
			Text:  text,
			Alert: containsAny(text, m.rules.AlertSections),
		})
	case lineBullet:
		if m.state != stateInList {
			m.blocks = append(m.blocks, types.Block{Kind: types.BlockBulletList})
			m.state = stateInList
		}
		list := &m.blocks[len(m.blocks)-1]
		list.Items = append(list.Items, m.bulletItem(line))
	case linePlain:
		m.closeList()
		m.blocks = append(m.blocks, types.Block{Kind: types.BlockParagraph, Text: line})
	}
	return m.state
}

func (m *machine) closeList() {
	m.state = stateDefault
}

// finish closes any open list and returns the blocks.
func (m *machine) finish() []types.Block {
	m.closeList()
	return m.blocks
}

func (m *machine) bulletItem(line string) types.ListItem {
	_, size := utf8.DecodeRuneInString(line)
	text := strings.TrimLeftFunc(line[size:], unicode.IsSpace)

	item := types.ListItem{Spans: ParseEmphasis(text)}
	lowered := strings.ToLower(item.PlainText())
	for _, word := range m.rules.ConcernWords {
		if word != "" && strings.Contains(lowered, strings.ToLower(word)) {
			item.Flagged = true
			break
		}
	}
	return item
}

// ParseNarrative converts synthesis text into narrative blocks.
func ParseNarrative(text string, rules Rules) []types.Block {
	m := newMachine(rules)
	for _, line := range strings.Split(text, "\n") {
		m.step(line)
	}
	return m.finish()
}

// ParseEmphasis splits text on bold markers. Each complete marker pair becomes a bold span;
// a trailing unpaired marker is kept as literal text.
func ParseEmphasis(text string) []types.Span {
	parts := strings.Split(text, BoldMarker)
	markers := len(parts) - 1

	var spans []types.Span
	add := func(s string, bold bool) {
		if s == "" {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Bold == bold {
			spans[n-1].Text += s
			return
		}
		spans = append(spans, types.Span{Text: s, Bold: bold})
	}

	for i, part := range parts {
		bold := i%2 == 1
		if bold && i == markers && markers%2 == 1 {
			add(BoldMarker+part, false)
			continue
		}
		add(part, bold)
	}
	return spans
}

func headingText(line string) string {
	text := strings.ReplaceAll(line, HeadingMarker, "")
	text = strings.ReplaceAll(text, "#", "")
	return strings.TrimSpace(text)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}
