package document

// Header is a document header part holding the style ref-lists that the
// content tree references by ID.
type Header struct {
	CharShapes  map[string]*CharShape
	ParaShapes  map[string]*ParaShape
	BorderFills map[string]*BorderFill
	Fontfaces   map[string]string // face ID -> family name
	Styles      map[string]*Style
}

// NewHeader creates an empty header with initialized ref-lists.
func NewHeader() *Header {
	return &Header{
		CharShapes:  make(map[string]*CharShape),
		ParaShapes:  make(map[string]*ParaShape),
		BorderFills: make(map[string]*BorderFill),
		Fontfaces:   make(map[string]string),
		Styles:      make(map[string]*Style),
	}
}

// CharShape is a character shape ref-list entry. Height is the base size
// in HWPUNIT/100 (a 10pt face stores 1000). Underline and Strikeout are
// nil when the source document carried no marker child at all; a marker
// whose Type is "NONE" is present but disabled.
type CharShape struct {
	Bold      bool
	Italic    bool
	Underline *LineMark
	Strikeout *LineMark
	TextColor string
	Highlight string
	FaceID    string
	Height    int
	Spacing   int // letter spacing, percent
}

// LineMark is an underline or strikeout marker.
type LineMark struct {
	Type  string // "SOLID", "NONE", ...
	Color string
}

// ParaShape is a paragraph shape ref-list entry. Margins and indents are
// in HWPUNIT; LineSpacing is a percent of the default line height.
type ParaShape struct {
	Align       string // "LEFT", "CENTER", "RIGHT", "JUSTIFY"
	LineSpacing int    // percent; 0 means unset
	MarginLeft  int
	MarginRight int
	Indent      int // first-line indent; negative for hanging
	SpaceBefore int
	SpaceAfter  int
}

// BorderFill is a border/fill ref-list entry. A nil side means the side
// was not specified at all.
type BorderFill struct {
	Left      *BorderSide
	Right     *BorderSide
	Top       *BorderSide
	Bottom    *BorderSide
	FillColor string
}

// BorderSide describes one border edge.
type BorderSide struct {
	Type  string // "SOLID", "DASH", "NONE", ...
	Width string // e.g. "0.12 mm"
	Color string
}

// Style is a named style entry linking to shape references.
type Style struct {
	Name        string
	CharShapeID string
	ParaShapeID string
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	if h == nil {
		return nil
	}
	c := NewHeader()
	for id, cs := range h.CharShapes {
		c.CharShapes[id] = cs.Clone()
	}
	for id, ps := range h.ParaShapes {
		c.ParaShapes[id] = ps.Clone()
	}
	for id, bf := range h.BorderFills {
		c.BorderFills[id] = bf.Clone()
	}
	for id, name := range h.Fontfaces {
		c.Fontfaces[id] = name
	}
	for id, s := range h.Styles {
		c.Styles[id] = s.Clone()
	}
	return c
}

// Clone returns a deep copy of the char shape.
func (cs *CharShape) Clone() *CharShape {
	if cs == nil {
		return nil
	}
	c := *cs
	c.Underline = cs.Underline.Clone()
	c.Strikeout = cs.Strikeout.Clone()
	return &c
}

// Clone returns a copy of the line mark.
func (lm *LineMark) Clone() *LineMark {
	if lm == nil {
		return nil
	}
	c := *lm
	return &c
}

// Clone returns a copy of the para shape.
func (ps *ParaShape) Clone() *ParaShape {
	if ps == nil {
		return nil
	}
	c := *ps
	return &c
}

// Clone returns a deep copy of the border fill.
func (bf *BorderFill) Clone() *BorderFill {
	if bf == nil {
		return nil
	}
	c := *bf
	c.Left = bf.Left.Clone()
	c.Right = bf.Right.Clone()
	c.Top = bf.Top.Clone()
	c.Bottom = bf.Bottom.Clone()
	return &c
}

// Clone returns a copy of the border side.
func (bs *BorderSide) Clone() *BorderSide {
	if bs == nil {
		return nil
	}
	c := *bs
	return &c
}

// Clone returns a copy of the style entry.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
