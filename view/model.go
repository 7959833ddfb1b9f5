package view

import (
	"github.com/openhwp/hwpview/inline"
	"github.com/openhwp/hwpview/style"
)

// DocumentView is the root of the render tree.
type DocumentView struct {
	Sections []*SectionView
}

// SectionView carries the page geometry (in display pixels) and the
// section's content.
type SectionView struct {
	PageWidthPx    int
	PageHeightPx   int
	Landscape      bool
	MarginLeftPx   int
	MarginRightPx  int
	MarginTopPx    int
	MarginBottomPx int

	Columns     int
	ColumnGapPx int

	PageNumFormat string
	PageNumStart  int

	Header *BandView
	Footer *BandView

	Paragraphs []*ParagraphView
	Footnotes  []NoteView
	Endnotes   []NoteView
}

// BandView is a header or footer band.
type BandView struct {
	Text  string
	Align string
}

// NoteView is one footnote or endnote with its sequential marker.
type NoteView struct {
	Marker string // "1", "2", ... scoped per section
	Text   string
}

// ParagraphView is one paragraph: resolved layout numbers, the
// segmented inline content, and any embedded tables and images.
type ParagraphView struct {
	Align         string
	LineSpacing   float64
	IndentLeftPx  int
	IndentRightPx int
	IndentFirstPx int
	SpaceBeforePx int
	SpaceAfterPx  int

	Segments []RunSegment
	Tables   []*TableView
	Images   []*ImageView
}

// Text returns the paragraph's plain text from its segments.
func (pv *ParagraphView) Text() string {
	var out []byte
	for _, s := range pv.Segments {
		switch s.Kind {
		case inline.KindText:
			out = append(out, s.Text...)
		case inline.KindTab:
			out = append(out, '\t')
		case inline.KindFWSpace:
			out = append(out, "　"...)
		case inline.KindLineBreak:
			out = append(out, '\n')
		}
	}
	return string(out)
}

// RunSegment is one typed inline segment with its resolved character
// style.
type RunSegment struct {
	inline.Segment
	Style style.CharStyle
}

// TableView is the dense grid projection of a table.
type TableView struct {
	Cells    [][]CellView
	RowCount int
	ColCount int

	ColumnWidthsPx []int
	OuterMarginPx  MarginsPx
	InnerMarginPx  MarginsPx
	PageBreak      string
	RepeatHeader   bool
}

// MarginsPx is a set of four edge lengths in pixels.
type MarginsPx struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// CellView is one grid position. Non-anchor positions are placeholders
// with IsAnchor false and no content, present only so renderers can
// address the grid by (row, col).
type CellView struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int

	IsAnchor  bool
	AnchorRow int
	AnchorCol int

	Text      string
	Segments  []RunSegment
	Borders   style.CellBorders
	VertAlign string
}

// ImageView is the render metadata for an anchored image.
type ImageView struct {
	BinDataID string

	DeclaredWidthPx  int
	DeclaredHeightPx int
	CurrentWidthPx   int
	CurrentHeightPx  int

	CropLeftPx   int
	CropRightPx  int
	CropTopPx    int
	CropBottomPx int

	Rotation    int
	TreatAsChar bool
	HRelTo      string
	VRelTo      string

	// Intrinsic pixel size and format decoded from the embedded
	// payload; zero/empty when the payload could not be decoded.
	IntrinsicWidth  int
	IntrinsicHeight int
	Format          string
}
