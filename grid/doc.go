// Package grid expands a table's flat cell list into a dense 2D grid
// and implements the structural table mutations.
//
// Every grid position is populated after expansion: a merged cell
// occupies its anchor position plus non-anchor echo positions for the
// rest of its span, and positions no document cell covers are filled
// with independent placeholder anchors. Renderers can therefore address
// the grid by (row, col) unconditionally.
//
// Expansion is forgiving: overlapping spans are resolved first-writer-
// wins in document order and never abort the build. The mutations
// (Merge, Split, row/column insertion and deletion, column resize)
// operate on the document table and re-expand afterward; none of them
// may change the table's row or column count.
package grid
