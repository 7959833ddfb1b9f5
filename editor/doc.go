// Package editor is the command surface over a document: it owns the
// document tree, the selection, the undo/redo history, and the current
// view-model.
//
// Every mutating command follows the same shape: validate the
// preconditions, capture an undo snapshot, mutate the document tree,
// then rebuild the whole view-model. Precondition failures return
// ErrNotApplicable and leave everything untouched; they are inert from
// the caller's point of view and safe to surface to the user.
//
// The editor is single-owner and not safe for concurrent use: callers
// must serialize commands. Selection-change side effects registered via
// OnSelectionChange run as deferred microtasks after the current
// command completes, so they never observe a tree mid-mutation; if the
// selection changes again before a deferred task runs, the task sees
// the latest selection.
package editor
