package rendering

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// DefaultColor is the accent colour used when a presentation does not set one.
const DefaultColor = "#0066cc"

// AlertColor marks alert headings and flagged items.
const AlertColor = "#cc0000"

// WarningMarker prefixes flagged bullet items.
const WarningMarker = "⚠️"

// Presentation carries the per-variant framing around a brief document.
type Presentation struct {
	Title        string
	Color        string
	Subtitle     string
	Focus        string
	ListingTitle string
	ListingIntro string
	Footer       *Footer
}

// Footer is a trailing attribution line with one link.
type Footer struct {
	Text  string
	Label string
	URL   string
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type htmlPage struct {
	Presentation
	AccentCSS template.CSS
	AlertCSS  template.CSS
	Marker    string
	Doc       types.BriefDocument
}

const htmlLayout = `{{define "spans"}}{{range .}}{{if .Bold}}<strong>{{.Text}}</strong>{{else}}{{.Text}}{{end}}{{end}}{{end}}` +
	`<div style="font-family: Arial, sans-serif; font-size: 12pt; max-width: 800px;">
<h1 style="color: {{.AccentCSS}}; text-align: center;">{{.Title}}</h1>
{{- with .Subtitle}}
<p style="text-align: center; color: #666; font-size: 11pt;">{{.}}</p>
{{- end}}
{{- with .Focus}}
<p style="text-align: center; color: #666; font-size: 10pt; font-style: italic;">{{.}}</p>
{{- end}}
<hr style="border: 1px solid #ddd; margin: 20px 0;">
{{- range .Doc.Blocks}}
{{- if eq .Kind "heading"}}
<h2 style="color: {{if .Alert}}{{$.AlertCSS}}{{else}}{{$.AccentCSS}}{{end}}; margin-top: 20px;">{{.Text}}</h2>
{{- else if eq .Kind "paragraph"}}
<p style="line-height: 1.6;">{{.Text}}</p>
{{- else}}
<ul style="line-height: 1.6;">
{{- range .Items}}
<li>{{if .Flagged}}<span style="color: {{$.AlertCSS}};">{{$.Marker}} {{template "spans" .Spans}}</span>{{else}}{{template "spans" .Spans}}{{end}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
{{- if .Doc.Listing}}
<hr style="border: 1px solid #ddd; margin: 30px 0;">
<h2 style="color: {{.AccentCSS}};">{{.ListingTitle}}</h2>
{{- with .ListingIntro}}
<p style="font-style: italic; color: #666;">{{.}}</p>
{{- end}}
{{- range .Doc.Listing}}
<div style="margin: 15px 0; padding: 10px; background: #f9f9f9; border-left: 3px solid {{$.AccentCSS}};">
<p style="margin: 5px 0;"><strong>{{.Ordinal}}. {{.Title}}</strong></p>
<p style="margin: 5px 0; font-size: 10pt; color: #666;">{{.Source}} | {{.Published}}</p>
{{- if .Link}}
<p style="margin: 5px 0; font-size: 10pt;"><a href="{{.Link}}" style="color: {{$.AccentCSS}};">{{.Link}}</a></p>
{{- end}}
</div>
{{- end}}
{{- end}}
{{- with .Footer}}
<hr style="border: 1px solid #ddd; margin: 30px 0;">
<p style="font-size: 10pt; color: #666;">{{with .Text}}{{.}} {{end}}<a href="{{.URL}}" style="color: {{$.AccentCSS}};">{{.Label}}</a></p>
{{- end}}
</div>
`

var htmlTemplate = template.Must(template.New("brief").Parse(htmlLayout))

// RenderHTML serializes the document as an email-ready HTML fragment. All text is escaped.
func RenderHTML(doc types.BriefDocument, p Presentation) (string, error) {
	color := p.Color
	if !hexColor.MatchString(color) {
		color = DefaultColor
	}
	if p.ListingTitle == "" {
		p.ListingTitle = DefaultListingTitle
	}

	page := htmlPage{
		Presentation: p,
		AccentCSS:    template.CSS(color),
		AlertCSS:     template.CSS(AlertColor),
		Marker:       WarningMarker,
		Doc:          doc,
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return buf.String(), nil
}
