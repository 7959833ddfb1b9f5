package history

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/selection"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("original")
	selBefore := selection.CursorAt(0, 0, 3)

	h := New(10)
	h.Push(doc, selBefore)

	// Mutate.
	doc.Sections[0].Paragraphs[0].Runs[0].Items[0] = document.TextItem{Text: "mutated"}
	doc.Header().CharShapes["0"].Bold = true
	selAfter := selection.CursorAt(0, 0, 7)

	sel, err := h.Undo(doc, selAfter)
	if err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if sel != selBefore {
		t.Errorf("restored selection = %+v, want %+v", sel, selBefore)
	}
	if got := doc.Sections[0].Paragraphs[0].Text(); got != "original" {
		t.Errorf("text after undo = %q, want %q", got, "original")
	}
	if doc.Header().CharShapes["0"].Bold {
		t.Error("header mutation must be rolled back too")
	}

	sel, err = h.Redo(doc, sel)
	if err != nil {
		t.Fatalf("Redo returned error: %v", err)
	}
	if sel != selAfter {
		t.Errorf("redo selection = %+v, want %+v", sel, selAfter)
	}
	if got := doc.Sections[0].Paragraphs[0].Text(); got != "mutated" {
		t.Errorf("text after redo = %q, want %q", got, "mutated")
	}
	if !doc.Header().CharShapes["0"].Bold {
		t.Error("header mutation must be reapplied by redo")
	}
}

func TestUndoRestoresDeepEqualTree(t *testing.T) {
	doc := document.New()
	p := doc.Sections[0].AddParagraph("text")
	p.Tables = append(p.Tables, document.NewTable(2, 2, 2000))
	want := doc.Clone()

	h := New(10)
	h.Push(doc, selection.Selection{})
	p.Tables[0].Cell(0, 0).SetText("edited")
	doc.Sections[0].AddParagraph("extra")

	if _, err := h.Undo(doc, selection.Selection{}); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if !reflect.DeepEqual(doc, want) {
		t.Error("undone document is not deep-equal to the pre-mutation tree")
	}
}

func TestUndoEmptyStackIsNoop(t *testing.T) {
	doc := document.New()
	h := New(10)
	cur := selection.CursorAt(0, 0, 0)
	sel, err := h.Undo(doc, cur)
	if !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("Expected ErrEmptyStack, got %v", err)
	}
	if sel != cur {
		t.Error("failed undo must leave the selection unchanged")
	}
}

func TestPushClearsRedo(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("a")
	h := New(10)

	h.Push(doc, selection.Selection{})
	doc.Sections[0].AddParagraph("b")
	if _, err := h.Undo(doc, selection.Selection{}); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("Expected redo entry after undo")
	}

	// A fresh mutation invalidates the redo history.
	h.Push(doc, selection.Selection{})
	if h.CanRedo() {
		t.Error("Push must clear the redo stack")
	}
}

func TestBoundedStackEvictsOldest(t *testing.T) {
	doc := document.New()
	sec := doc.Sections[0]
	h := New(50)

	for i := 0; i < 60; i++ {
		h.Push(doc, selection.Selection{})
		sec.AddParagraph(fmt.Sprintf("edit %d", i))
	}
	if h.UndoDepth() != 50 {
		t.Fatalf("UndoDepth = %d, want 50", h.UndoDepth())
	}

	// Unwind everything retrievable.
	undone := 0
	for {
		if _, err := h.Undo(doc, selection.Selection{}); err != nil {
			break
		}
		undone++
	}
	if undone != 50 {
		t.Errorf("unwound %d entries, want 50", undone)
	}
	// The 10 oldest pushes are unreachable: the earliest retrievable
	// snapshot was taken before edit 10, i.e. with 10 paragraphs.
	if got := len(sec.Paragraphs); got != 10 {
		t.Errorf("paragraphs after full unwind = %d, want 10", got)
	}
}

func TestSnapshotIndependentOfLaterMutations(t *testing.T) {
	doc := document.New()
	doc.Sections[0].AddParagraph("v1")
	h := New(10)
	h.Push(doc, selection.Selection{})

	// Deep edit after capture must not corrupt the snapshot.
	doc.Sections[0].Paragraphs[0].Runs[0].Items[0] = document.TextItem{Text: "v2"}

	if _, err := h.Undo(doc, selection.Selection{}); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if got := doc.Sections[0].Paragraphs[0].Text(); got != "v1" {
		t.Errorf("snapshot was corrupted by later mutation: %q", got)
	}
}
