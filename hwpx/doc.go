// Package hwpx reads and writes HWPX (Open HWPML) documents.
//
// An HWPX file is a ZIP container: an OPF-style manifest at
// Contents/content.hpf names the header part (style ref-lists), the
// body sections in reading order, and any embedded binary data. The
// package converts between that container and the document object
// model, preserving tables, pictures, fields, and notes.
package hwpx
