package types

// BlockKind identifies the shape of a narrative block.
type BlockKind string

const (
	BlockHeading    BlockKind = "heading"
	BlockParagraph  BlockKind = "paragraph"
	BlockBulletList BlockKind = "bullet_list"
)

// Span is a run of inline text, optionally bold.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// ListItem is one bullet of a BulletList block.
type ListItem struct {
	Spans   []Span `json:"spans"`
	Flagged bool   `json:"flagged,omitempty"` // carries a warning marker when rendered
}

// PlainText joins the item's spans without markup.
func (li ListItem) PlainText() string {
	var n int
	for _, s := range li.Spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range li.Spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// Block is one element of the narrative section of a brief.
type Block struct {
	Kind  BlockKind  `json:"kind"`
	Text  string     `json:"text,omitempty"`
	Alert bool       `json:"alert,omitempty"` // headings only
	Items []ListItem `json:"items,omitempty"` // bullet lists only
}

// ListingEntry is one row of the fixed-format item listing appended after the narrative.
type ListingEntry struct {
	Ordinal   int    `json:"ordinal"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	Published string `json:"published"`
	Link      string `json:"link,omitempty"`
}

// BriefDocument is the rendered artifact handed to the dispatcher.
type BriefDocument struct {
	Blocks  []Block        `json:"blocks"`
	Listing []ListingEntry `json:"listing,omitempty"`
}
