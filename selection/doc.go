// Package selection models the cursor and range selections that edit
// commands and the highlight renderer consult.
//
// A selection is a value, not a live reference into the document: it
// addresses content by section/paragraph/table indices and grid
// coordinates. Cell-range bounds are stored as dragged (anchor and end
// in any order) and normalized to min/max only when consumed.
package selection
