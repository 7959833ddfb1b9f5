// Package history provides snapshot-based undo/redo over a document.
//
// Snapshots are deep clones of every header and section root paired
// with the selection active at capture time; granularity is always the
// whole document, never a partial sub-tree, so style ref-lists and
// paragraph bodies can never fall out of sync after a restore.
//
// Both stacks are bounded: pushing past capacity evicts the oldest
// entry. A fresh push clears the redo stack (linear undo, no branching
// history).
package history
