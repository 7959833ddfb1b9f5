// Package view builds the immutable, render-ready view-model from a
// document tree.
//
// The builder is total: a malformed sub-tree (a table that fails grid
// expansion, an image with a dangling binary reference, a missing style
// reference) degrades to a documented fallback and never fails the
// whole build. The view-model is rebuilt from scratch after every
// document mutation and is never patched in place; rendering layers
// treat the produced tree as read-only.
//
// Geometry in the view-model is pre-converted to display pixels via the
// unit package; the document tree itself stays in HWPUNIT.
package view
