package editor

import (
	"fmt"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/grid"
	"github.com/openhwp/hwpview/selection"
)

// InsertParagraph inserts a text paragraph after index at (at == -1
// prepends) and moves the cursor into it.
func (e *Editor) InsertParagraph(section, at int, text string) error {
	sec := e.section(section)
	if sec == nil || at < -1 || at >= len(sec.Paragraphs) {
		return fmt.Errorf("insert paragraph at %d: %w", at, ErrNotApplicable)
	}
	e.begin()
	p := document.NewParagraph(text)
	idx := at + 1
	sec.Paragraphs = append(sec.Paragraphs, nil)
	copy(sec.Paragraphs[idx+1:], sec.Paragraphs[idx:])
	sec.Paragraphs[idx] = p
	e.sel = selection.CursorAt(section, idx, len(text))
	e.rebuild()
	return nil
}

// DeleteParagraph removes the paragraph at index. The last paragraph of
// a section cannot be deleted.
func (e *Editor) DeleteParagraph(section, at int) error {
	sec := e.section(section)
	if sec == nil || at < 0 || at >= len(sec.Paragraphs) || len(sec.Paragraphs) == 1 {
		return fmt.Errorf("delete paragraph %d: %w", at, ErrNotApplicable)
	}
	e.begin()
	sec.Paragraphs = append(sec.Paragraphs[:at], sec.Paragraphs[at+1:]...)
	cursor := at
	if cursor >= len(sec.Paragraphs) {
		cursor = len(sec.Paragraphs) - 1
	}
	e.sel = selection.CursorAt(section, cursor, 0)
	e.rebuild()
	return nil
}

// AppendText appends a text run to the paragraph under the cursor.
func (e *Editor) AppendText(text string) error {
	if e.sel.Kind != selection.Cursor {
		return fmt.Errorf("append text: no cursor: %w", ErrNotApplicable)
	}
	p := e.paragraph(e.sel)
	if p == nil {
		return fmt.Errorf("append text: %w", ErrNotApplicable)
	}
	e.begin()
	p.Runs = append(p.Runs, document.NewTextRun(text))
	e.rebuild()
	return nil
}

// ApplyCharShape points the selected content's runs at a character
// shape. A cursor applies to the paragraph's runs; a cell range applies
// to every run of every in-range cell; a table selection applies to the
// whole table. The shape ID must exist in the header.
func (e *Editor) ApplyCharShape(id string) error {
	h := e.doc.Header()
	if h == nil || h.CharShapes[id] == nil {
		return fmt.Errorf("apply char shape %q: %w", id, ErrNotApplicable)
	}
	switch e.sel.Kind {
	case selection.Cursor:
		p := e.paragraph(e.sel)
		if p == nil {
			return fmt.Errorf("apply char shape: %w", ErrNotApplicable)
		}
		e.begin()
		for _, r := range p.Runs {
			r.CharShapeID = id
		}
	case selection.CellRange, selection.Table:
		cells, err := e.selectedCells()
		if err != nil {
			return err
		}
		e.begin()
		for _, cell := range cells {
			for _, p := range cell.Paragraphs {
				for _, r := range p.Runs {
					r.CharShapeID = id
				}
			}
		}
	default:
		return fmt.Errorf("apply char shape: nothing selected: %w", ErrNotApplicable)
	}
	e.res.Invalidate()
	e.rebuild()
	return nil
}

// ApplyParaShape points the selected paragraph at a paragraph shape.
func (e *Editor) ApplyParaShape(id string) error {
	h := e.doc.Header()
	if h == nil || h.ParaShapes[id] == nil {
		return fmt.Errorf("apply para shape %q: %w", id, ErrNotApplicable)
	}
	p := e.paragraph(e.sel)
	if p == nil {
		return fmt.Errorf("apply para shape: %w", ErrNotApplicable)
	}
	e.begin()
	p.ParaShapeID = id
	e.res.Invalidate()
	e.rebuild()
	return nil
}

// InsertTable anchors a fresh rows×cols table in the paragraph under
// the cursor, sized to the section's text width, and selects its first
// cell.
func (e *Editor) InsertTable(rows, cols int) error {
	if rows < 1 || cols < 1 || e.sel.Kind != selection.Cursor {
		return fmt.Errorf("insert table %dx%d: %w", rows, cols, ErrNotApplicable)
	}
	p := e.paragraph(e.sel)
	if p == nil {
		return fmt.Errorf("insert table: %w", ErrNotApplicable)
	}
	sec := e.section(e.sel.Section)
	width := sec.Props.PageWidth - sec.Props.MarginLeft - sec.Props.MarginRight
	e.begin()
	p.Tables = append(p.Tables, document.NewTable(rows, cols, width))
	e.sel = selection.CellAt(e.sel.Section, e.sel.Paragraph, len(p.Tables)-1, 0, 0)
	e.rebuild()
	return nil
}

// InsertImage anchors a picture in the paragraph under the cursor.
func (e *Editor) InsertImage(pic *document.Picture) error {
	if pic == nil || e.sel.Kind != selection.Cursor {
		return fmt.Errorf("insert image: %w", ErrNotApplicable)
	}
	p := e.paragraph(e.sel)
	if p == nil {
		return fmt.Errorf("insert image: %w", ErrNotApplicable)
	}
	e.begin()
	p.Pictures = append(p.Pictures, pic)
	e.rebuild()
	return nil
}

// MergeCells merges the selected cell range into one cell. A point
// selection is not a range, so the command is inert and reports the
// precondition failure upward.
func (e *Editor) MergeCells() error {
	if !e.sel.IsRange() {
		return fmt.Errorf("merge cells: selection is not a range: %w", ErrNotApplicable)
	}
	tbl := e.table(e.sel)
	if tbl == nil {
		return fmt.Errorf("merge cells: %w", ErrNotApplicable)
	}
	r1, c1, r2, c2 := e.sel.Rect()
	if err := grid.CanMerge(tbl, r1, c1, r2, c2); err != nil {
		return fmt.Errorf("merge cells: %v: %w", err, ErrNotApplicable)
	}
	e.begin()
	if err := grid.Merge(tbl, r1, c1, r2, c2); err != nil {
		// CanMerge accepted the same rectangle; this is unreachable
		// short of a concurrent mutation.
		return err
	}
	e.sel = selection.CellAt(e.sel.Section, e.sel.Paragraph, e.sel.TableIndex, r1, c1)
	e.rebuild()
	return nil
}

// SplitCell restores the merged cell under the selection anchor to a
// 1×1 span.
func (e *Editor) SplitCell() error {
	if e.sel.Kind != selection.CellRange {
		return fmt.Errorf("split cell: no cell selected: %w", ErrNotApplicable)
	}
	tbl := e.table(e.sel)
	if tbl == nil {
		return fmt.Errorf("split cell: %w", ErrNotApplicable)
	}
	if err := grid.CanSplit(tbl, e.sel.AnchorRow, e.sel.AnchorCol); err != nil {
		return fmt.Errorf("split cell: %v: %w", err, ErrNotApplicable)
	}
	e.begin()
	if err := grid.Split(tbl, e.sel.AnchorRow, e.sel.AnchorCol); err != nil {
		return err
	}
	e.rebuild()
	return nil
}

// InsertRow inserts a row before the selection anchor's row.
func (e *Editor) InsertRow() error {
	return e.tableMutation("insert row", func(t *document.Table) error {
		return grid.InsertRow(t, e.sel.AnchorRow)
	})
}

// DeleteRow deletes the selection anchor's row.
func (e *Editor) DeleteRow() error {
	return e.tableMutation("delete row", func(t *document.Table) error {
		return grid.DeleteRow(t, e.sel.AnchorRow)
	})
}

// InsertColumn inserts a column before the selection anchor's column.
func (e *Editor) InsertColumn() error {
	return e.tableMutation("insert column", func(t *document.Table) error {
		return grid.InsertColumn(t, e.sel.AnchorCol)
	})
}

// DeleteColumn deletes the selection anchor's column.
func (e *Editor) DeleteColumn() error {
	return e.tableMutation("delete column", func(t *document.Table) error {
		return grid.DeleteColumn(t, e.sel.AnchorCol)
	})
}

// ResizeColumn sets the effective width (HWPUNIT) of column col of the
// selected table.
func (e *Editor) ResizeColumn(col, width int) error {
	tbl := e.table(e.sel)
	if tbl == nil || width <= 0 {
		return fmt.Errorf("resize column: %w", ErrNotApplicable)
	}
	g, err := grid.Expand(tbl)
	if err != nil || col < 0 || col >= g.ColCount {
		return fmt.Errorf("resize column %d: %w", col, ErrNotApplicable)
	}
	e.begin()
	if err := grid.ResizeColumn(tbl, col, width); err != nil {
		return err
	}
	e.rebuild()
	return nil
}

// SetHeaderText sets a section's header band text and alignment.
func (e *Editor) SetHeaderText(section int, text, align string) error {
	sec := e.section(section)
	if sec == nil {
		return fmt.Errorf("set header: %w", ErrNotApplicable)
	}
	e.begin()
	sec.Props.HeaderText = text
	sec.Props.HeaderAlign = align
	e.rebuild()
	return nil
}

// SetFooterText sets a section's footer band text and alignment.
func (e *Editor) SetFooterText(section int, text, align string) error {
	sec := e.section(section)
	if sec == nil {
		return fmt.Errorf("set footer: %w", ErrNotApplicable)
	}
	e.begin()
	sec.Props.FooterText = text
	sec.Props.FooterAlign = align
	e.rebuild()
	return nil
}

// tableMutation runs a structural table mutation with the shared
// precondition/undo/rebuild plumbing. The mutation is validated by a
// dry run on a clone so a failing one never pollutes the undo stack.
func (e *Editor) tableMutation(op string, fn func(*document.Table) error) error {
	if e.sel.Kind != selection.CellRange && e.sel.Kind != selection.Table {
		return fmt.Errorf("%s: no table selected: %w", op, ErrNotApplicable)
	}
	tbl := e.table(e.sel)
	if tbl == nil {
		return fmt.Errorf("%s: %w", op, ErrNotApplicable)
	}
	if err := fn(tbl.Clone()); err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, ErrNotApplicable)
	}
	e.begin()
	if err := fn(tbl); err != nil {
		return err
	}
	e.rebuild()
	return nil
}

// selectedCells returns the document cells whose occupied rectangles
// intersect the selection.
func (e *Editor) selectedCells() ([]*document.Cell, error) {
	tbl := e.table(e.sel)
	if tbl == nil {
		return nil, fmt.Errorf("cell selection: %w", ErrNotApplicable)
	}
	var out []*document.Cell
	for _, cell := range tbl.Cells {
		if e.sel.Contains(cell.Row, cell.Col, cell.RowSpan, cell.ColSpan) {
			out = append(out, cell)
		}
	}
	return out, nil
}
