package document

// Document is the root of the object model: header parts plus body
// sections.
type Document struct {
	Headers  []*Header
	Sections []*Section
}

// New creates an empty document with one header part and one empty
// section carrying A4 page defaults.
func New() *Document {
	doc := &Document{
		Headers:  []*Header{NewHeader()},
		Sections: []*Section{NewSection()},
	}
	h := doc.Headers[0]
	h.CharShapes["0"] = &CharShape{Height: 1000}
	h.ParaShapes["0"] = &ParaShape{Align: "JUSTIFY"}
	h.BorderFills["1"] = &BorderFill{
		Left:   &BorderSide{Type: "SOLID", Width: "0.12 mm", Color: "#000000"},
		Right:  &BorderSide{Type: "SOLID", Width: "0.12 mm", Color: "#000000"},
		Top:    &BorderSide{Type: "SOLID", Width: "0.12 mm", Color: "#000000"},
		Bottom: &BorderSide{Type: "SOLID", Width: "0.12 mm", Color: "#000000"},
	}
	h.Styles["0"] = &Style{Name: "Normal", CharShapeID: "0", ParaShapeID: "0"}
	return doc
}

// Header returns the primary header part, or nil for a headerless
// document.
func (d *Document) Header() *Header {
	if len(d.Headers) == 0 {
		return nil
	}
	return d.Headers[0]
}

// Clone returns a deep copy of the whole document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{
		Headers:  make([]*Header, len(d.Headers)),
		Sections: make([]*Section, len(d.Sections)),
	}
	for i, h := range d.Headers {
		c.Headers[i] = h.Clone()
	}
	for i, s := range d.Sections {
		c.Sections[i] = s.Clone()
	}
	return c
}

// Section is one body section: page setup plus a paragraph list.
type Section struct {
	Props      SectionProps
	Paragraphs []*Paragraph
}

// SectionProps holds the per-section page geometry and chrome. All
// lengths are in HWPUNIT.
type SectionProps struct {
	PageWidth    int
	PageHeight   int
	Landscape    bool
	MarginLeft   int
	MarginRight  int
	MarginTop    int
	MarginBottom int
	MarginHeader int
	MarginFooter int

	Columns   int
	ColumnGap int

	PageNumFormat string // "DIGIT", "ROMAN", ...
	PageNumStart  int

	HeaderText  string
	HeaderAlign string
	FooterText  string
	FooterAlign string
}

// NewSection creates an empty section with A4 portrait defaults.
func NewSection() *Section {
	return &Section{
		Props: SectionProps{
			PageWidth:    59528, // 210 mm
			PageHeight:   84188, // 297 mm
			MarginLeft:   8504,
			MarginRight:  8504,
			MarginTop:    5668,
			MarginBottom: 4252,
			MarginHeader: 4252,
			MarginFooter: 4252,
			Columns:      1,
			PageNumStart: 1,
		},
	}
}

// AddParagraph appends a paragraph holding a single text run and returns
// it.
func (s *Section) AddParagraph(text string) *Paragraph {
	p := NewParagraph(text)
	s.Paragraphs = append(s.Paragraphs, p)
	return p
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	c := &Section{
		Props:      s.Props,
		Paragraphs: make([]*Paragraph, len(s.Paragraphs)),
	}
	for i, p := range s.Paragraphs {
		c.Paragraphs[i] = p.Clone()
	}
	return c
}
