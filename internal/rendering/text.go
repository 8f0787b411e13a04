package rendering

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// RenderText serializes the document as plain text for the alternative email part.
func RenderText(doc types.BriefDocument, p Presentation) string {
	var sb strings.Builder

	sb.WriteString(p.Title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", utf8.RuneCountInString(p.Title)))
	sb.WriteString("\n")
	for _, line := range []string{p.Subtitle, p.Focus} {
		if line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	for _, b := range doc.Blocks {
		sb.WriteString("\n")
		switch b.Kind {
		case types.BlockHeading:
			sb.WriteString(b.Text)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("-", utf8.RuneCountInString(b.Text)))
			sb.WriteString("\n")
		case types.BlockParagraph:
			sb.WriteString(b.Text)
			sb.WriteString("\n")
		case types.BlockBulletList:
			for _, item := range b.Items {
				sb.WriteString("  • ")
				if item.Flagged {
					sb.WriteString(WarningMarker + " ")
				}
				sb.WriteString(item.PlainText())
				sb.WriteString("\n")
			}
		}
	}

	if len(doc.Listing) > 0 {
		title := p.ListingTitle
		if title == "" {
			title = DefaultListingTitle
		}
		fmt.Fprintf(&sb, "\n%s\n%s\n", title, strings.Repeat("-", utf8.RuneCountInString(title)))
		if p.ListingIntro != "" {
			sb.WriteString(p.ListingIntro)
			sb.WriteString("\n")
		}
		for _, e := range doc.Listing {
			fmt.Fprintf(&sb, "\n%d. %s\n   %s | %s\n", e.Ordinal, e.Title, e.Source, e.Published)
			if e.Link != "" {
				fmt.Fprintf(&sb, "   %s\n", e.Link)
			}
		}
	}

	if p.Footer != nil {
		sb.WriteString("\n")
		if p.Footer.Text != "" {
			sb.WriteString(p.Footer.Text)
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s <%s>\n", p.Footer.Label, p.Footer.URL)
	}

	return sb.String()
}
