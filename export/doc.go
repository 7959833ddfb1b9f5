// Package export renders view-model trees as plain text, Markdown, or
// HTML. Exports work on the view model rather than the raw document
// tree, so merged cells, segment kinds, and resolved styles are already
// normalized.
package export
