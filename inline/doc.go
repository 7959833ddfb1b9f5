// Package inline segments a run's mixed content into an ordered sequence
// of typed segments for the rendering layer.
//
// A single linear scan walks the run's items, accumulating plain text
// and flushing it whenever a tab, full-width space, line break, or
// hyperlink field boundary appears. Text segments therefore never span
// such a boundary, and hyperlink targets apply exactly to the text
// between the field's begin and end markers.
package inline
