package grid

import (
	"fmt"

	"github.com/openhwp/hwpview/document"
)

// Merge merges the rectangle (r1,c1)-(r2,c2) of t into a single cell
// anchored at the rectangle's minimum corner. Bounds are normalized
// first. The rectangle must cover whole cells: an anchor whose span
// reaches outside the rectangle makes the merge invalid and the table
// is left untouched. A minimum corner freed by an earlier split has no
// document cell behind it; the merge materializes one. Absorbed cells'
// paragraphs are appended to the anchor in document order. Row and
// column counts never change.
func Merge(t *document.Table, r1, c1, r2, c2 int) error {
	g, target, absorbed, err := validateMerge(t, r1, c1, r2, c2)
	if err != nil {
		return err
	}
	r1, r2 = minMax(r1, r2)
	c1, c2 = minMax(c1, c2)

	widths := g.ColumnWidths()
	heights := g.RowHeights()

	anchor := target.Source
	if anchor == nil {
		anchor = &document.Cell{
			Row: r1, Col: c1,
			RowSpan: 1, ColSpan: 1,
			BorderFillID: t.BorderFillID,
			VertAlign:    "CENTER",
		}
		t.Cells = append(t.Cells, anchor)
	}

	// Absorb content in document order, then drop the absorbed cells.
	drop := make(map[*document.Cell]bool, len(absorbed))
	for _, src := range absorbed {
		drop[src] = true
	}
	for _, cell := range t.Cells {
		if drop[cell] {
			anchor.Paragraphs = append(anchor.Paragraphs, cell.Paragraphs...)
		}
	}
	kept := t.Cells[:0]
	for _, cell := range t.Cells {
		if !drop[cell] {
			kept = append(kept, cell)
		}
	}
	t.Cells = kept
	if len(anchor.Paragraphs) == 0 {
		anchor.Paragraphs = []*document.Paragraph{document.NewParagraph("")}
	}

	anchor.RowSpan = r2 - r1 + 1
	anchor.ColSpan = c2 - c1 + 1
	anchor.Width = sum(widths[c1 : c2+1])
	anchor.Height = sum(heights[r1 : r2+1])

	verifyCounts(t, g.RowCount, g.ColCount, "merge")
	return nil
}

// CanMerge validates a merge without mutating the table, so callers can
// check the precondition before capturing undo state.
func CanMerge(t *document.Table, r1, c1, r2, c2 int) error {
	_, _, _, err := validateMerge(t, r1, c1, r2, c2)
	return err
}

// validateMerge normalizes bounds and checks that the rectangle covers
// whole cells, returning the expansion, the target anchor cell, and the
// anchors to absorb.
func validateMerge(t *document.Table, r1, c1, r2, c2 int) (*Grid, *Cell, []*document.Cell, error) {
	g, err := Expand(t)
	if err != nil {
		return nil, nil, nil, err
	}
	r1, r2 = minMax(r1, r2)
	c1, c2 = minMax(c1, c2)
	if r1 < 0 || c1 < 0 || r2 >= g.RowCount || c2 >= g.ColCount {
		return nil, nil, nil, fmt.Errorf("merge (%d,%d)-(%d,%d): %w", r1, c1, r2, c2, ErrOutOfBounds)
	}
	if r1 == r2 && c1 == c2 {
		return nil, nil, nil, fmt.Errorf("merge (%d,%d)-(%d,%d): %w", r1, c1, r2, c2, ErrInvalidRegion)
	}

	// Every anchor intersecting the rectangle must sit fully inside it,
	// and the minimum corner must be an anchor position. The anchor may
	// be a placeholder left behind by a split; Merge materializes a
	// document cell for it.
	target := g.At(r1, c1)
	if target == nil || !target.IsAnchor {
		return nil, nil, nil, fmt.Errorf("merge (%d,%d)-(%d,%d): %w", r1, c1, r2, c2, ErrInvalidRegion)
	}
	var absorbed []*document.Cell
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			a := g.Anchor(r, c)
			if a == nil {
				continue
			}
			if a.AnchorRow < r1 || a.AnchorCol < c1 ||
				a.AnchorRow+a.RowSpan-1 > r2 || a.AnchorCol+a.ColSpan-1 > c2 {
				return nil, nil, nil, fmt.Errorf("merge (%d,%d)-(%d,%d): %w", r1, c1, r2, c2, ErrInvalidRegion)
			}
			if a.Source != nil && a.Source != target.Source && a.IsAnchor {
				absorbed = append(absorbed, a.Source)
			}
		}
	}
	return g, target, absorbed, nil
}

// CanSplit validates a split without mutating the table.
func CanSplit(t *document.Table, row, col int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	a := g.Anchor(row, col)
	if a == nil {
		return fmt.Errorf("split (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	if a.Source == nil || (a.RowSpan == 1 && a.ColSpan == 1) {
		return fmt.Errorf("split (%d,%d): %w", row, col, ErrNotMerged)
	}
	return nil
}

// Split restores the merged cell anchored at (row, col) to a 1×1 span.
// No document cells are fabricated for the freed positions; they become
// independent placeholder cells on the next expansion. Splitting a cell
// that is not merged reports ErrNotMerged.
func Split(t *document.Table, row, col int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	a := g.Anchor(row, col)
	if a == nil {
		return fmt.Errorf("split (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	if a.Source == nil {
		return fmt.Errorf("split (%d,%d): %w", row, col, ErrNotMerged)
	}
	if a.RowSpan == 1 && a.ColSpan == 1 {
		return fmt.Errorf("split (%d,%d): %w", row, col, ErrNotMerged)
	}

	widths := g.ColumnWidths()
	heights := g.RowHeights()
	a.Source.RowSpan = 1
	a.Source.ColSpan = 1
	a.Source.Width = widths[a.AnchorCol]
	a.Source.Height = heights[a.AnchorRow]

	verifyCounts(t, g.RowCount, g.ColCount, "split")
	return nil
}

// InsertRow inserts an empty row before index at (at == RowCnt appends).
// Cells spanning across the insertion point grow by one row; columns
// not covered by a spanning cell receive fresh 1×1 cells.
func InsertRow(t *document.Table, at int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	if at < 0 || at > g.RowCount {
		return fmt.Errorf("insert row %d: %w", at, ErrOutOfBounds)
	}
	widths := g.ColumnWidths()

	spanned := make([]bool, g.ColCount)
	for _, cell := range t.Cells {
		if cell.Row < at && cell.Row+cell.RowSpan > at {
			// Straddles the insertion point: grow instead of shifting.
			cell.RowSpan++
			for c := cell.Col; c < cell.Col+cell.ColSpan && c < g.ColCount; c++ {
				spanned[c] = true
			}
		} else if cell.Row >= at {
			cell.Row++
		}
	}
	for c := 0; c < g.ColCount; c++ {
		if spanned[c] {
			continue
		}
		t.Cells = append(t.Cells, &document.Cell{
			Row: at, Col: c,
			RowSpan: 1, ColSpan: 1,
			Width:        widths[c],
			BorderFillID: t.BorderFillID,
			VertAlign:    "CENTER",
			Paragraphs:   []*document.Paragraph{document.NewParagraph("")},
		})
	}
	t.RowCnt = g.RowCount + 1
	return nil
}

// DeleteRow removes row at. Cells anchored in the row with a larger
// span keep their remaining rows; spans crossing the row shrink by one.
// The last remaining row cannot be deleted.
func DeleteRow(t *document.Table, at int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	if at < 0 || at >= g.RowCount {
		return fmt.Errorf("delete row %d: %w", at, ErrOutOfBounds)
	}
	if g.RowCount == 1 {
		return fmt.Errorf("delete row %d: last row: %w", at, ErrOutOfBounds)
	}

	kept := t.Cells[:0]
	for _, cell := range t.Cells {
		switch {
		case cell.Row == at && cell.RowSpan == 1:
			continue // removed with the row
		case cell.Row == at:
			cell.RowSpan--
		case cell.Row < at && cell.Row+cell.RowSpan > at:
			cell.RowSpan--
		case cell.Row > at:
			cell.Row--
		}
		kept = append(kept, cell)
	}
	t.Cells = kept
	t.RowCnt = g.RowCount - 1
	return nil
}

// InsertColumn inserts an empty column before index at (at == ColCnt
// appends). New cells take the width of the column previously at the
// insertion point, or the last column when appending.
func InsertColumn(t *document.Table, at int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	if at < 0 || at > g.ColCount {
		return fmt.Errorf("insert column %d: %w", at, ErrOutOfBounds)
	}
	widths := g.ColumnWidths()
	newWidth := widths[g.ColCount-1]
	if at < g.ColCount {
		newWidth = widths[at]
	}

	spanned := make([]bool, g.RowCount)
	for _, cell := range t.Cells {
		if cell.Col < at && cell.Col+cell.ColSpan > at {
			cell.ColSpan++
			cell.Width += newWidth
			for r := cell.Row; r < cell.Row+cell.RowSpan && r < g.RowCount; r++ {
				spanned[r] = true
			}
		} else if cell.Col >= at {
			cell.Col++
		}
	}
	for r := 0; r < g.RowCount; r++ {
		if spanned[r] {
			continue
		}
		t.Cells = append(t.Cells, &document.Cell{
			Row: r, Col: at,
			RowSpan: 1, ColSpan: 1,
			Width:        newWidth,
			BorderFillID: t.BorderFillID,
			VertAlign:    "CENTER",
			Paragraphs:   []*document.Paragraph{document.NewParagraph("")},
		})
	}
	t.ColCnt = g.ColCount + 1
	t.Width += newWidth
	return nil
}

// DeleteColumn removes column at. The last remaining column cannot be
// deleted.
func DeleteColumn(t *document.Table, at int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	if at < 0 || at >= g.ColCount {
		return fmt.Errorf("delete column %d: %w", at, ErrOutOfBounds)
	}
	if g.ColCount == 1 {
		return fmt.Errorf("delete column %d: last column: %w", at, ErrOutOfBounds)
	}
	widths := g.ColumnWidths()

	kept := t.Cells[:0]
	for _, cell := range t.Cells {
		switch {
		case cell.Col == at && cell.ColSpan == 1:
			continue
		case cell.Col == at:
			cell.ColSpan--
			cell.Width -= widths[at]
		case cell.Col < at && cell.Col+cell.ColSpan > at:
			cell.ColSpan--
			cell.Width -= widths[at]
		case cell.Col > at:
			cell.Col--
		}
		kept = append(kept, cell)
	}
	t.Cells = kept
	t.ColCnt = g.ColCount - 1
	t.Width -= widths[at]
	return nil
}

// ResizeColumn sets the effective width of column col. Unmerged cells in
// the column take the width directly; merged cells spanning it adjust by
// the delta.
func ResizeColumn(t *document.Table, col, width int) error {
	g, err := Expand(t)
	if err != nil {
		return err
	}
	if col < 0 || col >= g.ColCount {
		return fmt.Errorf("resize column %d: %w", col, ErrOutOfBounds)
	}
	old := g.ColumnWidths()[col]
	for _, cell := range t.Cells {
		if cell.Col == col && cell.ColSpan == 1 {
			cell.Width = width
		} else if cell.Col <= col && cell.Col+cell.ColSpan > col {
			cell.Width += width - old
		}
	}
	t.Width += width - old
	return nil
}

// verifyCounts re-expands the table and panics when a structural
// mutation changed the grid dimensions. Downstream rendering assumes
// the dense-grid invariant unconditionally, so silently producing an
// inconsistent grid would be worse than failing fast.
func verifyCounts(t *document.Table, rows, cols int, op string) {
	g, err := Expand(t)
	if err != nil {
		panic(fmt.Sprintf("grid: %s left table unexpandable: %v", op, err))
	}
	if g.RowCount != rows || g.ColCount != cols {
		panic(fmt.Sprintf("grid: %s changed dimensions from %dx%d to %dx%d",
			op, rows, cols, g.RowCount, g.ColCount))
	}
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func sum(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}
