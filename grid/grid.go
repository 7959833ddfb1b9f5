package grid

import (
	"errors"

	"github.com/openhwp/hwpview/document"
)

// Errors reported by grid operations. They signal precondition
// failures: the table is left untouched when one is returned.
var (
	// ErrEmptyTable reports a table with no usable dimensions.
	ErrEmptyTable = errors.New("grid: table has no rows or columns")
	// ErrOutOfBounds reports a position outside the grid.
	ErrOutOfBounds = errors.New("grid: position out of bounds")
	// ErrInvalidRegion reports a merge rectangle that is not a valid
	// sub-rectangle of existing cells.
	ErrInvalidRegion = errors.New("grid: region does not cover whole cells")
	// ErrNotMerged reports a split on a cell that is not merged.
	ErrNotMerged = errors.New("grid: cell is not merged")
)

// Cell is one grid position. Row/Col address this position; AnchorRow/
// AnchorCol address the anchor of the occupying cell and RowSpan/ColSpan
// its span. Source is set only at the anchor; echo positions and
// placeholder anchors carry no content.
type Cell struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int

	IsAnchor  bool
	AnchorRow int
	AnchorCol int

	Source *document.Cell
}

// Grid is the dense expansion of a table.
type Grid struct {
	Cells    [][]Cell
	RowCount int
	ColCount int
}

// At returns the grid cell at (row, col), or nil when out of bounds.
func (g *Grid) At(row, col int) *Cell {
	if row < 0 || row >= g.RowCount || col < 0 || col >= g.ColCount {
		return nil
	}
	return &g.Cells[row][col]
}

// Anchor returns the anchor grid cell covering (row, col), or nil when
// out of bounds.
func (g *Grid) Anchor(row, col int) *Cell {
	c := g.At(row, col)
	if c == nil {
		return nil
	}
	return g.At(c.AnchorRow, c.AnchorCol)
}

// Expand builds the dense grid for a table. Dimensions come from the
// table's declared counts, falling back to the extent of its cells.
// Malformed cells (origin out of bounds, spans overlapping an earlier
// cell) lose the contested positions but never fail the build; only a
// table with no dimensions at all is an error.
func Expand(t *document.Table) (*Grid, error) {
	if t == nil {
		return nil, ErrEmptyTable
	}
	rows, cols := t.RowCnt, t.ColCnt
	if rows <= 0 || cols <= 0 {
		rows, cols = extent(t)
	}
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyTable
	}

	g := &Grid{RowCount: rows, ColCount: cols, Cells: make([][]Cell, rows)}
	occupied := make([][]bool, rows)
	for r := 0; r < rows; r++ {
		g.Cells[r] = make([]Cell, cols)
		occupied[r] = make([]bool, cols)
	}

	for _, cell := range t.Cells {
		writeCell(g, occupied, cell)
	}

	// Fill uncovered positions with independent placeholder anchors so
	// the grid has no holes. Split relies on this: freed positions
	// become 1×1 cells here without any document cell backing them.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !occupied[r][c] {
				g.Cells[r][c] = Cell{
					Row: r, Col: c,
					RowSpan: 1, ColSpan: 1,
					IsAnchor:  true,
					AnchorRow: r, AnchorCol: c,
				}
			}
		}
	}
	return g, nil
}

// writeCell writes one document cell's anchor and echo records,
// skipping positions an earlier cell already claimed.
func writeCell(g *Grid, occupied [][]bool, cell *document.Cell) {
	row, col := cell.Row, cell.Col
	if row < 0 || row >= g.RowCount || col < 0 || col >= g.ColCount {
		return
	}
	if occupied[row][col] {
		// First writer wins; a cell whose anchor position is taken is
		// dropped from the grid entirely.
		return
	}
	rowSpan, colSpan := cell.RowSpan, cell.ColSpan
	if rowSpan < 1 {
		rowSpan = 1
	}
	if colSpan < 1 {
		colSpan = 1
	}
	if row+rowSpan > g.RowCount {
		rowSpan = g.RowCount - row
	}
	if col+colSpan > g.ColCount {
		colSpan = g.ColCount - col
	}

	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if occupied[r][c] {
				continue
			}
			occupied[r][c] = true
			g.Cells[r][c] = Cell{
				Row: r, Col: c,
				RowSpan: rowSpan, ColSpan: colSpan,
				IsAnchor:  r == row && c == col,
				AnchorRow: row, AnchorCol: col,
			}
			if r == row && c == col {
				g.Cells[r][c].Source = cell
			}
		}
	}
}

// extent computes grid dimensions from the cells themselves.
func extent(t *document.Table) (rows, cols int) {
	for _, cell := range t.Cells {
		rs, cs := cell.RowSpan, cell.ColSpan
		if rs < 1 {
			rs = 1
		}
		if cs < 1 {
			cs = 1
		}
		if cell.Row+rs > rows {
			rows = cell.Row + rs
		}
		if cell.Col+cs > cols {
			cols = cell.Col + cs
		}
	}
	return rows, cols
}

// ColumnWidths computes the effective width of every column in HWPUNIT.
// For each column the first unmerged (colSpan=1) cell found scanning
// top to bottom supplies the width; if every cell spanning the column
// is merged, the spanning cell's width is divided evenly by its span.
// This keeps single-column resizes meaningful under heavy merging.
func (g *Grid) ColumnWidths() []int {
	widths := make([]int, g.ColCount)
	for c := 0; c < g.ColCount; c++ {
		found := false
		for r := 0; r < g.RowCount && !found; r++ {
			a := g.Anchor(r, c)
			if a != nil && a.Source != nil && a.ColSpan == 1 {
				widths[c] = a.Source.Width
				found = true
			}
		}
		if !found {
			for r := 0; r < g.RowCount && !found; r++ {
				a := g.Anchor(r, c)
				if a != nil && a.Source != nil {
					widths[c] = a.Source.Width / a.ColSpan
					found = true
				}
			}
		}
	}
	return widths
}

// RowHeights computes the effective height of every row in HWPUNIT,
// using the same preference order as ColumnWidths.
func (g *Grid) RowHeights() []int {
	heights := make([]int, g.RowCount)
	for r := 0; r < g.RowCount; r++ {
		found := false
		for c := 0; c < g.ColCount && !found; c++ {
			a := g.Anchor(r, c)
			if a != nil && a.Source != nil && a.RowSpan == 1 {
				heights[r] = a.Source.Height
				found = true
			}
		}
		if !found {
			for c := 0; c < g.ColCount && !found; c++ {
				a := g.Anchor(r, c)
				if a != nil && a.Source != nil {
					heights[r] = a.Source.Height / a.RowSpan
					found = true
				}
			}
		}
	}
	return heights
}
