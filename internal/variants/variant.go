// Package variants defines the briefing variants: which source a run reads, which relevance
// rule filters it, which prompt synthesizes it and how the result is presented.
package variants

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/briefing-monitor/internal/llm"
	"github.com/jonathan/briefing-monitor/internal/prompts"
	"github.com/jonathan/briefing-monitor/internal/relevance"
	"github.com/jonathan/briefing-monitor/internal/rendering"
)

// SourceKind selects the Source Reader used by a variant.
type SourceKind string

const (
	SourceNone  SourceKind = "none"
	SourceFeeds SourceKind = "feeds"
	SourceSheet SourceKind = "sheet"
)

// Variant is one briefing configuration.
type Variant struct {
	Name        string         `yaml:"name" validate:"required"`
	Description string         `yaml:"description,omitempty"`
	Source      Source         `yaml:"source"`
	Rule        relevance.Rule `yaml:"rule,omitempty"`
	Prompt      Prompt         `yaml:"prompt"`
	Report      Report         `yaml:"report"`
	Subject     Subject        `yaml:"subject"`
}

// Source describes where records come from.
type Source struct {
	Kind       SourceKind `yaml:"kind" validate:"oneof=none feeds sheet"`
	Feeds      []string   `yaml:"feeds,omitempty" validate:"dive,url"`
	MaxEntries int        `yaml:"max_entries,omitempty" validate:"min=0"`
	Range      string     `yaml:"range,omitempty"`
}

// Prompt selects the synthesis template and its limits.
type Prompt struct {
	Template        string            `yaml:"template" validate:"required"`
	Tier            llm.ModelTier     `yaml:"tier,omitempty"`
	MaxOutputTokens int               `yaml:"max_output_tokens" validate:"required,min=1"`
	ErrorLabel      string            `yaml:"error_label" validate:"required"`
	Values          map[string]string `yaml:"values,omitempty"`
}

// Report is the presentation of the rendered brief.
type Report struct {
	Title         string   `yaml:"title" validate:"required"`
	Color         string   `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Subtitle      string   `yaml:"subtitle,omitempty"`
	Focus         string   `yaml:"focus,omitempty"`
	SectionTitles []string `yaml:"section_titles,omitempty"`
	AlertSections []string `yaml:"alert_sections,omitempty"`
	ConcernWords  []string `yaml:"concern_words,omitempty"`
	ListingTitle  string   `yaml:"listing_title,omitempty"`
	ListingIntro  string   `yaml:"listing_intro,omitempty"`
	Footer        *Footer  `yaml:"footer,omitempty"`
}

// Footer is an attribution link appended to the brief.
type Footer struct {
	Text  string `yaml:"text,omitempty"`
	Label string `yaml:"label" validate:"required"`
	URL   string `yaml:"url" validate:"required"`
}

// Subject builds the email subject line.
type Subject struct {
	Prefix     string `yaml:"prefix" validate:"required"`
	DateLayout string `yaml:"date_layout,omitempty"`
	Noun       string `yaml:"noun,omitempty"`
}

// DefaultSubjectDateLayout is used when a variant does not set one.
const DefaultSubjectDateLayout = "Jan 02, 2006"

// ReportDateLayout formats {{.Date}} in report subtitles.
const ReportDateLayout = "January 02, 2006"

var validate = validator.New()

// Validate checks struct constraints and the cross-field rules between source kind and
// the fields each kind needs.
func (v *Variant) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("variant %q: %w", v.Name, err)
	}
	switch v.Source.Kind {
	case SourceFeeds:
		if len(v.Source.Feeds) == 0 {
			return fmt.Errorf("variant %q: feeds source needs at least one feed", v.Name)
		}
		if v.Rule.IsEmpty() {
			return fmt.Errorf("variant %q: feeds source needs a relevance rule with an accepting tier", v.Name)
		}
	case SourceSheet, SourceNone:
		if len(v.Source.Feeds) > 0 {
			return fmt.Errorf("variant %q: feeds are only valid for a feeds source", v.Name)
		}
	}
	if _, err := prompts.Get(prompts.BriefingFile, v.Prompt.Template); err != nil {
		return fmt.Errorf("variant %q: %w", v.Name, err)
	}
	return nil
}

// Lint returns non-fatal warnings about the variant's rule.
func (v *Variant) Lint() []string {
	if v.Source.Kind != SourceFeeds {
		return nil
	}
	return v.Rule.Lint()
}

// Tier returns the model tier for synthesis.
func (v *Variant) Tier() llm.ModelTier {
	return llm.ParseTier(string(v.Prompt.Tier))
}

// NarrativeRules returns the renderer inputs for this variant.
func (v *Variant) NarrativeRules() rendering.Rules {
	return rendering.Rules{
		SectionTitles: v.Report.SectionTitles,
		AlertSections: v.Report.AlertSections,
		ConcernWords:  v.Report.ConcernWords,
	}
}

// Presentation fills the report framing for a run. count is the number of items analyzed;
// sheetID is substituted into the footer URL.
func (v *Variant) Presentation(now time.Time, count int, sheetID string) rendering.Presentation {
	data := map[string]string{
		"Date":    now.Format(ReportDateLayout),
		"Weekday": now.Format("Monday"),
		"Count":   strconv.Itoa(count),
		"SheetID": sheetID,
	}

	p := rendering.Presentation{
		Title:        v.Report.Title,
		Color:        v.Report.Color,
		Subtitle:     prompts.Format(v.Report.Subtitle, data),
		Focus:        prompts.Format(v.Report.Focus, data),
		ListingTitle: v.Report.ListingTitle,
		ListingIntro: v.Report.ListingIntro,
	}
	if f := v.Report.Footer; f != nil {
		p.Footer = &rendering.Footer{
			Text:  f.Text,
			Label: f.Label,
			URL:   prompts.Format(f.URL, data),
		}
	}
	return p
}

// SubjectLine returns "<prefix> - <date>" with " (<count> <noun>)" appended when the variant
// counts items.
func (v *Variant) SubjectLine(now time.Time, count int) string {
	layout := v.Subject.DateLayout
	if layout == "" {
		layout = DefaultSubjectDateLayout
	}

	var sb strings.Builder
	sb.WriteString(v.Subject.Prefix)
	sb.WriteString(" - ")
	sb.WriteString(now.Format(layout))
	if v.Subject.Noun != "" {
		fmt.Fprintf(&sb, " (%d %s)", count, v.Subject.Noun)
	}
	return sb.String()
}
