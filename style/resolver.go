package style

import (
	"errors"

	"github.com/openhwp/hwpview/document"
)

// ErrUnresolved reports that a reference ID has no entry in the header
// ref-lists.
var ErrUnresolved = errors.New("style: unresolved reference")

// DefaultLineSpacing is the line-spacing multiplier used when a para
// shape carries no line-spacing value.
const DefaultLineSpacing = 1.6

// CharStyle is a fully resolved character attribute bundle. Zero values
// mean "inherit from the renderer default": an empty FontFamily or Color
// and a zero FontSize carry no opinion.
type CharStyle struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strike        bool
	Color         string
	Highlight     string
	FontFamily    string
	FontSize      float64 // points
	LetterSpacing int     // percent
}

// ParaStyle is a fully resolved paragraph attribute bundle. Lengths are
// in HWPUNIT.
type ParaStyle struct {
	Alignment   string
	LineSpacing float64 // multiplier
	IndentLeft  int
	IndentRight int
	IndentFirst int
	SpaceBefore int
	SpaceAfter  int
}

// SideStyle is one resolved border edge. A nil *SideStyle means no
// border on that side.
type SideStyle struct {
	Type  string
	Width string
	Color string
}

// CellBorders is a resolved border/background bundle for a table cell.
type CellBorders struct {
	Left      *SideStyle
	Right     *SideStyle
	Top       *SideStyle
	Bottom    *SideStyle
	FillColor string
}

// Resolver resolves shape references against a document's header
// ref-lists, caching resolved bundles per ID.
type Resolver struct {
	doc *document.Document

	charCache   map[string]CharStyle
	paraCache   map[string]ParaStyle
	borderCache map[string]CellBorders
}

// NewResolver creates a resolver bound to doc. The resolver reads the
// header lazily on every lookup, so it stays valid across undo/redo
// header replacement as long as Invalidate is called.
func NewResolver(doc *document.Document) *Resolver {
	r := &Resolver{doc: doc}
	r.Invalidate()
	return r
}

// Invalidate drops every cached bundle. Must be called after undo/redo
// or any edit of the header ref-lists.
func (r *Resolver) Invalidate() {
	r.charCache = make(map[string]CharStyle)
	r.paraCache = make(map[string]ParaStyle)
	r.borderCache = make(map[string]CellBorders)
}

func (r *Resolver) header() *document.Header {
	if r.doc == nil {
		return nil
	}
	return r.doc.Header()
}

// DefaultCharStyle returns the built-in character defaults: no emphasis,
// no decoration, inherit-everything font.
func DefaultCharStyle() CharStyle {
	return CharStyle{}
}

// DefaultParaStyle returns the built-in paragraph defaults.
func DefaultParaStyle() ParaStyle {
	return ParaStyle{Alignment: "JUSTIFY", LineSpacing: DefaultLineSpacing}
}

// ResolveChar resolves a single character shape reference, reporting
// ErrUnresolved when the ID has no entry.
func (r *Resolver) ResolveChar(id string) (CharStyle, error) {
	if cached, ok := r.charCache[id]; ok {
		return cached, nil
	}
	h := r.header()
	if h == nil {
		return DefaultCharStyle(), ErrUnresolved
	}
	cs, ok := h.CharShapes[id]
	if !ok {
		return DefaultCharStyle(), ErrUnresolved
	}
	resolved := r.charFromShape(cs)
	r.charCache[id] = resolved
	return resolved, nil
}

// CharStyleFor resolves the character style for a run inside its owning
// paragraph: run-level reference first, then the paragraph's named
// style, then built-in defaults.
func (r *Resolver) CharStyleFor(run *document.Run, para *document.Paragraph) CharStyle {
	if run != nil {
		if cs, err := r.ResolveChar(run.CharShapeID); err == nil {
			return cs
		}
	}
	if para != nil {
		if h := r.header(); h != nil {
			if st, ok := h.Styles[para.StyleID]; ok {
				if cs, err := r.ResolveChar(st.CharShapeID); err == nil {
					return cs
				}
			}
		}
	}
	return DefaultCharStyle()
}

// charFromShape normalizes a raw shape entry into a bundle. An underline
// or strikeout marker whose type is "NONE" counts as absent.
func (r *Resolver) charFromShape(cs *document.CharShape) CharStyle {
	out := CharStyle{
		Bold:          cs.Bold,
		Italic:        cs.Italic,
		Underline:     markEnabled(cs.Underline),
		Strike:        markEnabled(cs.Strikeout),
		Color:         cs.TextColor,
		Highlight:     cs.Highlight,
		LetterSpacing: cs.Spacing,
	}
	if cs.Height > 0 {
		out.FontSize = float64(cs.Height) / 100
	}
	if cs.FaceID != "" {
		out.FontFamily = r.FaceName(cs.FaceID)
	}
	return out
}

func markEnabled(m *document.LineMark) bool {
	return m != nil && m.Type != "" && m.Type != "NONE"
}

// FaceName looks up a font face ID in the header fontface table. A
// failed lookup surfaces the raw ID so the renderer still has a display
// value.
func (r *Resolver) FaceName(faceID string) string {
	if h := r.header(); h != nil {
		if name, ok := h.Fontfaces[faceID]; ok && name != "" {
			return name
		}
	}
	return faceID
}

// ResolvePara resolves a single paragraph shape reference, reporting
// ErrUnresolved when the ID has no entry.
func (r *Resolver) ResolvePara(id string) (ParaStyle, error) {
	if cached, ok := r.paraCache[id]; ok {
		return cached, nil
	}
	h := r.header()
	if h == nil {
		return DefaultParaStyle(), ErrUnresolved
	}
	ps, ok := h.ParaShapes[id]
	if !ok {
		return DefaultParaStyle(), ErrUnresolved
	}
	resolved := ParaStyle{
		Alignment:   ps.Align,
		LineSpacing: DefaultLineSpacing,
		IndentLeft:  ps.MarginLeft,
		IndentRight: ps.MarginRight,
		IndentFirst: ps.Indent,
		SpaceBefore: ps.SpaceBefore,
		SpaceAfter:  ps.SpaceAfter,
	}
	if resolved.Alignment == "" {
		resolved.Alignment = "JUSTIFY"
	}
	if ps.LineSpacing > 0 {
		resolved.LineSpacing = float64(ps.LineSpacing) / 100
	}
	r.paraCache[id] = resolved
	return resolved, nil
}

// ParaStyleFor resolves the paragraph style for a paragraph: its own
// shape reference first, then the shape named by its style entry, then
// defaults.
func (r *Resolver) ParaStyleFor(para *document.Paragraph) ParaStyle {
	if para == nil {
		return DefaultParaStyle()
	}
	if ps, err := r.ResolvePara(para.ParaShapeID); err == nil {
		return ps
	}
	if h := r.header(); h != nil {
		if st, ok := h.Styles[para.StyleID]; ok {
			if ps, err := r.ResolvePara(st.ParaShapeID); err == nil {
				return ps
			}
		}
	}
	return DefaultParaStyle()
}

// ResolveBorders resolves a single border-fill reference, reporting
// ErrUnresolved when the ID has no entry.
func (r *Resolver) ResolveBorders(id string) (CellBorders, error) {
	if cached, ok := r.borderCache[id]; ok {
		return cached, nil
	}
	h := r.header()
	if h == nil {
		return CellBorders{}, ErrUnresolved
	}
	bf, ok := h.BorderFills[id]
	if !ok {
		return CellBorders{}, ErrUnresolved
	}
	resolved := CellBorders{
		Left:      sideFromBorder(bf.Left),
		Right:     sideFromBorder(bf.Right),
		Top:       sideFromBorder(bf.Top),
		Bottom:    sideFromBorder(bf.Bottom),
		FillColor: bf.FillColor,
	}
	r.borderCache[id] = resolved
	return resolved, nil
}

// BordersFor resolves the borders for a cell, falling back to the owning
// table's default border fill and finally to a fully borderless bundle.
func (r *Resolver) BordersFor(cell *document.Cell, table *document.Table) CellBorders {
	if cell != nil {
		if cb, err := r.ResolveBorders(cell.BorderFillID); err == nil {
			return cb
		}
	}
	if table != nil {
		if cb, err := r.ResolveBorders(table.BorderFillID); err == nil {
			return cb
		}
	}
	return CellBorders{}
}

// sideFromBorder drops "NONE" sides entirely rather than producing
// zero-width borders.
func sideFromBorder(bs *document.BorderSide) *SideStyle {
	if bs == nil || bs.Type == "" || bs.Type == "NONE" {
		return nil
	}
	return &SideStyle{Type: bs.Type, Width: bs.Width, Color: bs.Color}
}
