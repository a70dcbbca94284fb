package domain

// Metadata is derived once per document from the first page and the source
// format's info dictionary.
type Metadata struct {
	Title   string            `json:"title,omitempty"`
	Authors []string          `json:"authors,omitempty"`
	Raw     map[string]string `json:"raw,omitempty"`
}

type BlockKind string

// BlockText is the only kind extraction currently yields; the source
// libraries expose text runs but not page images.
const BlockText BlockKind = "text"

// LayoutBlock is one typed region on a page, positioned in page coordinates.
// FontSize is meaningful for text blocks only.
type LayoutBlock struct {
	Kind     BlockKind
	X        float64
	Y        float64
	W        float64
	FontSize float64
	Text     string
}

// Page is owned by the document for the duration of extraction only.
type Page struct {
	Index  int
	Text   string
	Blocks []LayoutBlock
}

type Section struct {
	Name      string `json:"name"`
	PageIndex int    `json:"page_index"`
	Line      int    `json:"line"`
}

// Equation holds raw math markup. Start and End are a character span valid
// within the originating page's text at extraction time.
type Equation struct {
	Markup    string `json:"markup"`
	PageIndex int    `json:"page_index"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

type Region struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Table is a candidate tabular region. It becomes a TabularValue only after a
// parse step that may fail.
type Table struct {
	RawText   string `json:"raw_text"`
	Region    Region `json:"region"`
	PageIndex int    `json:"page_index"`
}

type Figure struct {
	Number    string `json:"number"`
	Caption   string `json:"caption"`
	PageIndex int    `json:"page_index"`
}

// StructuralModel is the sole output of structure analysis and the sole input
// to narrative assembly.
type StructuralModel struct {
	Metadata    Metadata   `json:"metadata"`
	Sections    []Section  `json:"sections"`
	Equations   []Equation `json:"equations"`
	Tables      []Table    `json:"tables"`
	Figures     []Figure   `json:"figures"`
	PageCount   int        `json:"page_count"`
	SourceBytes int64      `json:"source_bytes"`
}

type SegmentSource string

const (
	SegmentMetadata SegmentSource = "metadata"
	SegmentEquation SegmentSource = "equation"
	SegmentTable    SegmentSource = "table"
	SegmentSection  SegmentSource = "section"
)

// TextSegment is one ordered, immutable chunk of the narration stream.
type TextSegment struct {
	Source SegmentSource `json:"source"`
	Text   string        `json:"text"`
}
