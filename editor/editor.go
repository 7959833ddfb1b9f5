package editor

import (
	"errors"
	"fmt"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/history"
	"github.com/openhwp/hwpview/selection"
	"github.com/openhwp/hwpview/style"
	"github.com/openhwp/hwpview/view"
)

// ErrNotApplicable reports a command whose preconditions are not met:
// nothing was changed and the failure may be surfaced to the user.
var ErrNotApplicable = errors.New("editor: command not applicable")

// Editor owns a document and the state orbiting it.
type Editor struct {
	doc     *document.Document
	res     *style.Resolver
	builder *view.Builder
	hist    *history.History

	sel  selection.Selection
	view *view.DocumentView

	tasks    []func()
	draining bool
	onSelect []func(selection.Selection)
}

// Option configures an Editor.
type Option func(*Editor)

// WithUndoDepth sets the undo/redo stack capacity.
func WithUndoDepth(n int) Option {
	return func(e *Editor) {
		e.hist = history.New(n)
	}
}

// New creates an editor over doc and builds the initial view-model.
func New(doc *document.Document, opts ...Option) *Editor {
	e := &Editor{
		doc:  doc,
		hist: history.New(history.DefaultCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.res = style.NewResolver(doc)
	e.builder = view.NewBuilder(doc, e.res)
	e.rebuild()
	return e
}

// Document returns the underlying document tree. Mutating it directly
// bypasses undo capture; prefer the command methods.
func (e *Editor) Document() *document.Document { return e.doc }

// View returns the current view-model. It is replaced wholesale on
// every mutation and must be treated as read-only.
func (e *Editor) View() *view.DocumentView { return e.view }

// Selection returns the current selection value.
func (e *Editor) Selection() selection.Selection { return e.sel }

// CanUndo reports whether an undo entry is available.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether a redo entry is available.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// OnSelectionChange registers a listener invoked (as a deferred
// microtask) after the selection changes.
func (e *Editor) OnSelectionChange(fn func(selection.Selection)) {
	e.onSelect = append(e.onSelect, fn)
}

// SetSelection replaces the selection. Listeners run deferred, after
// this call's state change has settled.
func (e *Editor) SetSelection(sel selection.Selection) {
	e.sel = sel
	e.schedule(func() {
		// Read the latest selection, not the one captured at schedule
		// time: a second SetSelection before the drain supersedes it.
		for _, fn := range e.onSelect {
			fn(e.sel)
		}
	})
	e.drain()
}

// schedule queues a fire-and-forget microtask.
func (e *Editor) schedule(fn func()) {
	e.tasks = append(e.tasks, fn)
}

// drain runs queued microtasks to completion. Tasks scheduled while
// draining run in the same drain; re-entrant drains are flattened.
func (e *Editor) drain() {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()
	for len(e.tasks) > 0 {
		fn := e.tasks[0]
		e.tasks = e.tasks[1:]
		fn()
	}
}

// rebuild discards the view-model and rebuilds it from scratch.
func (e *Editor) rebuild() {
	e.view = e.builder.Build()
}

// begin captures undo state; every mutating command calls it after its
// precondition checks pass.
func (e *Editor) begin() {
	e.hist.Push(e.doc, e.sel)
}

// Undo rolls the document back one snapshot, restores the captured
// selection, and rebuilds the view. Reports ErrNotApplicable when the
// undo stack is empty.
func (e *Editor) Undo() error {
	sel, err := e.hist.Undo(e.doc, e.sel)
	if err != nil {
		return fmt.Errorf("undo: %w", ErrNotApplicable)
	}
	e.res.Invalidate()
	e.sel = sel
	e.rebuild()
	return nil
}

// Redo is the mirror of Undo.
func (e *Editor) Redo() error {
	sel, err := e.hist.Redo(e.doc, e.sel)
	if err != nil {
		return fmt.Errorf("redo: %w", ErrNotApplicable)
	}
	e.res.Invalidate()
	e.sel = sel
	e.rebuild()
	return nil
}

// section returns the section at index, or nil.
func (e *Editor) section(idx int) *document.Section {
	if idx < 0 || idx >= len(e.doc.Sections) {
		return nil
	}
	return e.doc.Sections[idx]
}

// paragraph returns the paragraph addressed by a selection, or nil.
func (e *Editor) paragraph(sel selection.Selection) *document.Paragraph {
	sec := e.section(sel.Section)
	if sec == nil || sel.Paragraph < 0 || sel.Paragraph >= len(sec.Paragraphs) {
		return nil
	}
	return sec.Paragraphs[sel.Paragraph]
}

// table returns the table addressed by a selection, or nil.
func (e *Editor) table(sel selection.Selection) *document.Table {
	p := e.paragraph(sel)
	if p == nil || sel.TableIndex < 0 || sel.TableIndex >= len(p.Tables) {
		return nil
	}
	return p.Tables[sel.TableIndex]
}
