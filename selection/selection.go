package selection

// Kind identifies the selection state.
type Kind int

const (
	// None means nothing is selected.
	None Kind = iota
	// Cursor is a text cursor in a paragraph, optionally with a text
	// offset range.
	Cursor
	// CellRange is a rectangular cell selection in a table, anchored at
	// (AnchorRow, AnchorCol) and dragged to (EndRow, EndCol).
	CellRange
	// Table selects a whole table as an object.
	Table
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Cursor:
		return "cursor"
	case CellRange:
		return "cellrange"
	case Table:
		return "table"
	}
	return "unknown"
}

// Selection is the current selection state. Which fields are meaningful
// depends on Kind; TableIndex is always set for CellRange and Table.
type Selection struct {
	Kind Kind

	Section   int
	Paragraph int

	// Cursor fields: a text offset range within the paragraph.
	Start int
	End   int

	// Cell fields.
	TableIndex int
	AnchorRow  int
	AnchorCol  int
	EndRow     int
	EndCol     int
}

// CursorAt returns a cursor selection at a text offset.
func CursorAt(section, paragraph, offset int) Selection {
	return Selection{
		Kind:      Cursor,
		Section:   section,
		Paragraph: paragraph,
		Start:     offset,
		End:       offset,
	}
}

// CellAt returns a single-cell selection.
func CellAt(section, paragraph, table, row, col int) Selection {
	return Selection{
		Kind:       CellRange,
		Section:    section,
		Paragraph:  paragraph,
		TableIndex: table,
		AnchorRow:  row,
		AnchorCol:  col,
		EndRow:     row,
		EndCol:     col,
	}
}

// WholeTable returns a whole-table object selection.
func WholeTable(section, paragraph, table int) Selection {
	return Selection{
		Kind:       Table,
		Section:    section,
		Paragraph:  paragraph,
		TableIndex: table,
	}
}

// ExtendTo returns a copy of a cell selection dragged to (row, col).
// Extending a non-cell selection returns it unchanged.
func (s Selection) ExtendTo(row, col int) Selection {
	if s.Kind != CellRange {
		return s
	}
	s.EndRow = row
	s.EndCol = col
	return s
}

// IsRange reports whether the selection covers more than a single
// point: a cell selection spanning at least two grid positions.
func (s Selection) IsRange() bool {
	return s.Kind == CellRange && (s.AnchorRow != s.EndRow || s.AnchorCol != s.EndCol)
}

// Rect returns the selection rectangle normalized to (minRow, minCol,
// maxRow, maxCol). Only meaningful for cell selections.
func (s Selection) Rect() (r1, c1, r2, c2 int) {
	r1, r2 = minMax(s.AnchorRow, s.EndRow)
	c1, c2 = minMax(s.AnchorCol, s.EndCol)
	return r1, c1, r2, c2
}

// Contains reports whether a grid cell occupying rows [row, row+rowSpan)
// and columns [col, col+colSpan) intersects the normalized selection
// rectangle. Used both for highlight rendering and to decide which
// cells a formatting command touches.
func (s Selection) Contains(row, col, rowSpan, colSpan int) bool {
	if s.Kind == Table {
		return true
	}
	if s.Kind != CellRange {
		return false
	}
	if rowSpan < 1 {
		rowSpan = 1
	}
	if colSpan < 1 {
		colSpan = 1
	}
	r1, c1, r2, c2 := s.Rect()
	return row <= r2 && row+rowSpan-1 >= r1 && col <= c2 && col+colSpan-1 >= c1
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
