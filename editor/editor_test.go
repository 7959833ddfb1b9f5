package editor

import (
	"errors"
	"testing"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/selection"
)

func newEditorWithTable(t *testing.T, rows, cols int) *Editor {
	t.Helper()
	doc := document.New()
	doc.Sections[0].AddParagraph("intro")
	e := New(doc)
	e.SetSelection(selection.CursorAt(0, 0, 0))
	if err := e.InsertTable(rows, cols); err != nil {
		t.Fatalf("InsertTable returned error: %v", err)
	}
	return e
}

func TestInsertParagraphUpdatesViewAndSelection(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("first")
	e := New(doc)

	if err := e.InsertParagraph(0, 0, "second"); err != nil {
		t.Fatalf("InsertParagraph returned error: %v", err)
	}
	sv := e.View().Sections[0]
	if len(sv.Paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs in view, got %d", len(sv.Paragraphs))
	}
	if got := sv.Paragraphs[1].Text(); got != "second" {
		t.Errorf("paragraph 1 = %q, want %q", got, "second")
	}
	sel := e.Selection()
	if sel.Kind != selection.Cursor || sel.Paragraph != 1 {
		t.Errorf("selection = %+v, want cursor in paragraph 1", sel)
	}
}

func TestDeleteLastParagraphNotApplicable(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("only")
	e := New(doc)
	if err := e.DeleteParagraph(0, 0); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable, got %v", err)
	}
	if e.CanUndo() {
		t.Error("a rejected command must not capture undo state")
	}
}

func TestMergeCellsCommand(t *testing.T) {
	e := newEditorWithTable(t, 3, 3)
	e.SetSelection(e.Selection().ExtendTo(1, 1))

	if err := e.MergeCells(); err != nil {
		t.Fatalf("MergeCells returned error: %v", err)
	}
	tv := e.View().Sections[0].Paragraphs[0].Tables[0]
	if tv.RowCount != 3 || tv.ColCount != 3 {
		t.Errorf("merge changed table dimensions to %dx%d", tv.RowCount, tv.ColCount)
	}
	cv := tv.Cells[0][0]
	if cv.RowSpan != 2 || cv.ColSpan != 2 {
		t.Errorf("merged cell span = (%d,%d), want (2,2)", cv.RowSpan, cv.ColSpan)
	}
	if e.Selection().IsRange() {
		t.Error("selection must collapse to the merged anchor cell")
	}
}

func TestMergeWithoutRangeIsInert(t *testing.T) {
	e := newEditorWithTable(t, 2, 2)
	before := e.View()
	err := e.MergeCells()
	if !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("Expected ErrNotApplicable, got %v", err)
	}
	if e.View() != before {
		t.Error("inert command must not rebuild the view")
	}
	if !e.CanUndo() {
		// InsertTable pushed one entry; the failed merge must not add
		// another.
		t.Fatal("missing undo entry from table insertion")
	}
}

func TestMergeInvalidRegionDoesNotPolluteUndo(t *testing.T) {
	e := newEditorWithTable(t, 3, 3)
	e.SetSelection(e.Selection().ExtendTo(1, 1))
	if err := e.MergeCells(); err != nil {
		t.Fatalf("MergeCells returned error: %v", err)
	}
	depthBefore := 0
	for e.CanUndo() {
		depthBefore++
		if err := e.Undo(); err != nil {
			t.Fatalf("Undo returned error: %v", err)
		}
	}
	for i := 0; i < depthBefore; i++ {
		if err := e.Redo(); err != nil {
			t.Fatalf("Redo returned error: %v", err)
		}
	}

	// A merge clipping the existing merged region is rejected before
	// any undo capture.
	e.SetSelection(selection.CellAt(0, 0, 0, 1, 1).ExtendTo(2, 2))
	if err := e.MergeCells(); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("Expected ErrNotApplicable, got %v", err)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	// That undo must revert the successful merge, not a phantom entry.
	tv := e.View().Sections[0].Paragraphs[0].Tables[0]
	if tv.Cells[0][0].RowSpan != 1 {
		t.Error("undo after rejected merge reverted the wrong entry")
	}
}

func TestSplitCellCommand(t *testing.T) {
	e := newEditorWithTable(t, 3, 3)
	e.SetSelection(e.Selection().ExtendTo(1, 1))
	if err := e.MergeCells(); err != nil {
		t.Fatalf("MergeCells returned error: %v", err)
	}
	if err := e.SplitCell(); err != nil {
		t.Fatalf("SplitCell returned error: %v", err)
	}
	tv := e.View().Sections[0].Paragraphs[0].Tables[0]
	if tv.Cells[0][0].RowSpan != 1 || tv.Cells[0][0].ColSpan != 1 {
		t.Error("Expected split anchor back to 1x1")
	}

	// Splitting an unmerged cell is a precondition failure.
	if err := e.SplitCell(); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable, got %v", err)
	}
}

func TestUndoRedoRestoresViewAndSelection(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("one")
	e := New(doc)
	e.SetSelection(selection.CursorAt(0, 0, 3))

	if err := e.InsertParagraph(0, 0, "two"); err != nil {
		t.Fatalf("InsertParagraph returned error: %v", err)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if got := len(e.View().Sections[0].Paragraphs); got != 1 {
		t.Errorf("paragraphs after undo = %d, want 1", got)
	}
	if e.Selection() != selection.CursorAt(0, 0, 3) {
		t.Errorf("selection after undo = %+v", e.Selection())
	}
	if err := e.Redo(); err != nil {
		t.Fatalf("Redo returned error: %v", err)
	}
	if got := len(e.View().Sections[0].Paragraphs); got != 2 {
		t.Errorf("paragraphs after redo = %d, want 2", got)
	}
}

func TestUndoEmptyStackNotApplicable(t *testing.T) {
	e := New(document.New())
	if err := e.Undo(); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable, got %v", err)
	}
	if err := e.Redo(); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable, got %v", err)
	}
}

func TestUndoInvalidatesStyleCache(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("styled")
	e := New(doc)
	e.SetSelection(selection.CursorAt(0, 0, 0))

	// Add a bold shape, apply it, then undo: the rebuilt view must not
	// serve the stale resolved bundle.
	doc.Header().CharShapes["9"] = &document.CharShape{Bold: true}
	if err := e.ApplyCharShape("9"); err != nil {
		t.Fatalf("ApplyCharShape returned error: %v", err)
	}
	if !e.View().Sections[0].Paragraphs[0].Segments[0].Style.Bold {
		t.Fatal("Expected bold after ApplyCharShape")
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if e.View().Sections[0].Paragraphs[0].Segments[0].Style.Bold {
		t.Error("Expected non-bold style after undo")
	}
}

func TestApplyCharShapeToCellRange(t *testing.T) {
	e := newEditorWithTable(t, 2, 2)
	tbl := e.Document().Sections[0].Paragraphs[0].Tables[0]
	tbl.Cell(0, 0).SetText("a")
	tbl.Cell(0, 1).SetText("b")
	tbl.Cell(1, 0).SetText("c")
	e.Document().Header().CharShapes["9"] = &document.CharShape{Italic: true}
	e.SetSelection(e.Selection().ExtendTo(0, 1)) // top row

	if err := e.ApplyCharShape("9"); err != nil {
		t.Fatalf("ApplyCharShape returned error: %v", err)
	}
	tv := e.View().Sections[0].Paragraphs[0].Tables[0]
	if !tv.Cells[0][0].Segments[0].Style.Italic {
		t.Error("cell (0,0) should be italic")
	}
	if tv.Cells[1][0].Segments[0].Style.Italic {
		t.Error("cell (1,0) outside the range must be untouched")
	}
}

func TestApplyCharShapeUnknownIDNotApplicable(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("x")
	e := New(doc)
	e.SetSelection(selection.CursorAt(0, 0, 0))
	if err := e.ApplyCharShape("nope"); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable, got %v", err)
	}
}

func TestRowColumnCommands(t *testing.T) {
	e := newEditorWithTable(t, 2, 2)

	if err := e.InsertRow(); err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}
	if err := e.InsertColumn(); err != nil {
		t.Fatalf("InsertColumn returned error: %v", err)
	}
	tv := e.View().Sections[0].Paragraphs[0].Tables[0]
	if tv.RowCount != 3 || tv.ColCount != 3 {
		t.Fatalf("table = %dx%d, want 3x3", tv.RowCount, tv.ColCount)
	}

	if err := e.DeleteRow(); err != nil {
		t.Fatalf("DeleteRow returned error: %v", err)
	}
	if err := e.DeleteColumn(); err != nil {
		t.Fatalf("DeleteColumn returned error: %v", err)
	}
	tv = e.View().Sections[0].Paragraphs[0].Tables[0]
	if tv.RowCount != 2 || tv.ColCount != 2 {
		t.Errorf("table = %dx%d, want 2x2", tv.RowCount, tv.ColCount)
	}
}

func TestResizeColumnCommand(t *testing.T) {
	e := newEditorWithTable(t, 2, 2)
	if err := e.ResizeColumn(0, 9000); err != nil {
		t.Fatalf("ResizeColumn returned error: %v", err)
	}
	tv := e.View().Sections[0].Paragraphs[0].Tables[0]
	if tv.ColumnWidthsPx[0] != 120 { // 9000 HWPUNIT = 120 px
		t.Errorf("column 0 width = %d px, want 120", tv.ColumnWidthsPx[0])
	}

	if err := e.ResizeColumn(7, 9000); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable for out-of-range column, got %v", err)
	}
}

func TestSelectionListenerDeferredSeesLatestSelection(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("a")
	doc.Sections[0].AddParagraph("b")
	e := New(doc)

	var observed []int
	first := true
	e.OnSelectionChange(func(sel selection.Selection) {
		observed = append(observed, sel.Paragraph)
		if first {
			// Re-entrant selection change from inside a listener: the
			// nested notification is deferred, not run inline.
			first = false
			e.SetSelection(selection.CursorAt(0, 1, 0))
		}
	})

	e.SetSelection(selection.CursorAt(0, 0, 0))
	if len(observed) != 2 {
		t.Fatalf("Expected 2 notifications, got %d (%v)", len(observed), observed)
	}
	// The nested notification reads the latest selection; whether the
	// first read observes paragraph 0 or 1 depends on scheduling, but
	// the final one must see paragraph 1.
	if observed[len(observed)-1] != 1 {
		t.Errorf("final notification saw paragraph %d, want 1", observed[len(observed)-1])
	}
}

func TestViewReplacedWholesaleOnMutation(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("x")
	e := New(doc)
	before := e.View()
	if err := e.InsertParagraph(0, 0, "y"); err != nil {
		t.Fatalf("InsertParagraph returned error: %v", err)
	}
	if e.View() == before {
		t.Error("mutation must produce a fresh view-model")
	}
}
