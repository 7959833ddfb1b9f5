package history

import (
	"errors"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/selection"
)

// DefaultCapacity is the undo depth used when none is configured.
const DefaultCapacity = 50

// ErrEmptyStack reports an undo or redo with no entries to apply.
var ErrEmptyStack = errors.New("history: stack is empty")

// Snapshot is one captured document state: cloned header and section
// roots plus the selection active at capture time.
type Snapshot struct {
	Headers  []*document.Header
	Sections []*document.Section
	Sel      selection.Selection
}

// capture deep-clones the document's current roots.
func capture(doc *document.Document, sel selection.Selection) Snapshot {
	snap := Snapshot{
		Headers:  make([]*document.Header, len(doc.Headers)),
		Sections: make([]*document.Section, len(doc.Sections)),
		Sel:      sel,
	}
	for i, h := range doc.Headers {
		snap.Headers[i] = h.Clone()
	}
	for i, s := range doc.Sections {
		snap.Sections[i] = s.Clone()
	}
	return snap
}

// restore replaces the document's roots with the snapshot's. The
// snapshot's clones are handed over directly; a snapshot must not be
// restored twice.
func (s Snapshot) restore(doc *document.Document) {
	doc.Headers = s.Headers
	doc.Sections = s.Sections
}

// stack is a bounded LIFO of snapshots; pushing past capacity evicts
// the oldest entry.
type stack struct {
	entries []Snapshot
	cap     int
}

func (s *stack) push(snap Snapshot) {
	if len(s.entries) >= s.cap {
		n := copy(s.entries, s.entries[1:])
		s.entries = s.entries[:n]
	}
	s.entries = append(s.entries, snap)
}

func (s *stack) pop() (Snapshot, bool) {
	if len(s.entries) == 0 {
		return Snapshot{}, false
	}
	snap := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return snap, true
}

func (s *stack) clear() { s.entries = s.entries[:0] }

// History holds the bounded undo and redo stacks.
type History struct {
	undo stack
	redo stack
}

// New creates a history with the given capacity per stack; zero or
// negative means DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		undo: stack{cap: capacity},
		redo: stack{cap: capacity},
	}
}

// Push captures the document's current state onto the undo stack.
// Every mutating command must call this before mutating. Pushing
// invalidates any redo history.
func (h *History) Push(doc *document.Document, sel selection.Selection) {
	h.undo.push(capture(doc, sel))
	h.redo.clear()
}

// Undo moves the document back one snapshot: the current state is
// captured onto the redo stack, the popped snapshot's roots replace the
// document's, and the snapshot's selection is returned. Reports
// ErrEmptyStack (leaving everything untouched) when there is nothing
// to undo.
func (h *History) Undo(doc *document.Document, current selection.Selection) (selection.Selection, error) {
	snap, ok := h.undo.pop()
	if !ok {
		return current, ErrEmptyStack
	}
	h.redo.push(capture(doc, current))
	snap.restore(doc)
	return snap.Sel, nil
}

// Redo is the exact mirror of Undo, operating on the redo stack.
func (h *History) Redo(doc *document.Document, current selection.Selection) (selection.Selection, error) {
	snap, ok := h.redo.pop()
	if !ok {
		return current, ErrEmptyStack
	}
	h.undo.push(capture(doc, current))
	snap.restore(doc)
	return snap.Sel, nil
}

// CanUndo reports whether an undo entry is available.
func (h *History) CanUndo() bool { return len(h.undo.entries) > 0 }

// CanRedo reports whether a redo entry is available.
func (h *History) CanRedo() bool { return len(h.redo.entries) > 0 }

// UndoDepth returns the number of retrievable undo entries.
func (h *History) UndoDepth() int { return len(h.undo.entries) }
