package document

import "strings"

// Table holds a flat cell list in document order. RowCnt and ColCnt are
// the declared grid dimensions; a cell addresses its anchor position
// explicitly via Row/Col and covers RowSpan×ColSpan grid positions.
type Table struct {
	BorderFillID string
	RowCnt       int
	ColCnt       int
	Cells        []*Cell

	Width  int // HWPUNIT
	Height int

	InnerMargin  Margins // cell padding defaults
	OuterMargin  Margins
	CellSpacing  int
	PageBreak    string // "TABLE", "CELL", "NONE"
	RepeatHeader bool
}

// Margins is a set of four edge lengths in HWPUNIT.
type Margins struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// NewTable creates a rows×cols table of independent 1×1 cells with even
// column widths derived from width (when positive).
func NewTable(rows, cols, width int) *Table {
	t := &Table{
		BorderFillID: "1",
		RowCnt:       rows,
		ColCnt:       cols,
		Width:        width,
		PageBreak:    "CELL",
	}
	colWidth := 0
	if cols > 0 && width > 0 {
		colWidth = width / cols
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t.Cells = append(t.Cells, &Cell{
				Row:          r,
				Col:          c,
				RowSpan:      1,
				ColSpan:      1,
				Width:        colWidth,
				BorderFillID: "1",
				VertAlign:    "CENTER",
				Paragraphs:   []*Paragraph{NewParagraph("")},
			})
		}
	}
	return t
}

// Cell returns the cell anchored exactly at (row, col), or nil.
func (t *Table) Cell(row, col int) *Cell {
	for _, c := range t.Cells {
		if c.Row == row && c.Col == col {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := *t
	c.Cells = make([]*Cell, len(t.Cells))
	for i, cell := range t.Cells {
		c.Cells[i] = cell.Clone()
	}
	return &c
}

// Cell is one table cell. Row/Col is the anchor position; RowSpan and
// ColSpan are at least 1 for well-formed cells.
type Cell struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int

	Width  int // HWPUNIT
	Height int

	BorderFillID string
	VertAlign    string // "TOP", "CENTER", "BOTTOM"
	Paragraphs   []*Paragraph
}

// Text returns the cell's plain text, paragraphs joined by newlines.
func (c *Cell) Text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// SetText replaces the cell content with a single text paragraph.
func (c *Cell) SetText(text string) {
	c.Paragraphs = []*Paragraph{NewParagraph(text)}
}

// Clone returns a deep copy of the cell.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	cl := *c
	cl.Paragraphs = make([]*Paragraph, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		cl.Paragraphs[i] = p.Clone()
	}
	return &cl
}
