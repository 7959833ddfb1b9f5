// Package style resolves indirect shape references into concrete,
// fully-defaulted attribute bundles.
//
// Character, paragraph, and border-fill references are string IDs into
// the document header ref-lists. Resolution never fails outward: an
// unresolvable reference falls through a fallback chain (run-level
// reference, then the owning paragraph's named style, then built-in
// defaults). Callers that need to distinguish a genuinely missing entry
// use the Resolve* forms, which report ErrUnresolved.
//
// Resolved bundles are cached per ID. Invalidate must be called whenever
// the header ref-lists may have been replaced wholesale, e.g. after an
// undo or redo restores an older header snapshot.
package style
