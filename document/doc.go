// Package document provides the in-memory object model for HWPX documents.
//
// A Document is a list of header parts (style ref-lists) and sections.
// Sections hold paragraphs; paragraphs hold runs, tables, and pictures.
// Character shapes, paragraph shapes, border fills, and named styles are
// stored once in a header and referenced by string ID from the content
// tree. Resolving a reference may fail; resolution with fallbacks is the
// job of the style package.
//
// Every node type supports deep cloning, which the history package uses
// to snapshot whole documents around mutations.
package document
