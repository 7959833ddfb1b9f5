package document

import "strings"

// Paragraph holds inline runs plus any tables and pictures anchored in
// it.
type Paragraph struct {
	ParaShapeID string
	StyleID     string
	Runs        []*Run
	Tables      []*Table
	Pictures    []*Picture
}

// NewParagraph creates a paragraph. A non-empty text argument seeds one
// text run referencing the default shapes.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{ParaShapeID: "0", StyleID: "0"}
	if text != "" {
		p.Runs = append(p.Runs, NewTextRun(text))
	}
	return p
}

// Text returns the concatenated plain text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Clone returns a deep copy of the paragraph.
func (p *Paragraph) Clone() *Paragraph {
	if p == nil {
		return nil
	}
	c := &Paragraph{
		ParaShapeID: p.ParaShapeID,
		StyleID:     p.StyleID,
		Runs:        make([]*Run, len(p.Runs)),
		Tables:      make([]*Table, len(p.Tables)),
		Pictures:    make([]*Picture, len(p.Pictures)),
	}
	for i, r := range p.Runs {
		c.Runs[i] = r.Clone()
	}
	for i, t := range p.Tables {
		c.Tables[i] = t.Clone()
	}
	for i, pic := range p.Pictures {
		c.Pictures[i] = pic.Clone()
	}
	return c
}

// Run is the smallest styled unit of inline content. Items holds the
// ordered mixed content; LegacyText carries plain text for degenerate
// encodings that never produced items.
type Run struct {
	CharShapeID string
	Items       []RunItem
	LegacyText  string
}

// NewTextRun creates a run holding one text item with the default char
// shape.
func NewTextRun(text string) *Run {
	return &Run{CharShapeID: "0", Items: []RunItem{TextItem{Text: text}}}
}

// Text returns the plain text of the run: item text with tabs, breaks,
// and full-width spaces mapped to their character equivalents. Runs with
// no items fall back to LegacyText.
func (r *Run) Text() string {
	if len(r.Items) == 0 {
		return r.LegacyText
	}
	var sb strings.Builder
	for _, item := range r.Items {
		switch it := item.(type) {
		case TextItem:
			sb.WriteString(it.Text)
		case TabItem:
			sb.WriteByte('\t')
		case FWSpaceItem:
			sb.WriteRune('　')
		case LineBreakItem:
			sb.WriteByte('\n')
		case NoteItem:
			// Note bodies are not inline text.
		}
	}
	return sb.String()
}

// Clone returns a deep copy of the run.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := &Run{
		CharShapeID: r.CharShapeID,
		LegacyText:  r.LegacyText,
	}
	if r.Items != nil {
		c.Items = make([]RunItem, len(r.Items))
		for i, item := range r.Items {
			c.Items[i] = item.CloneItem()
		}
	}
	return c
}

// RunItem is one node of a run's mixed content.
type RunItem interface {
	CloneItem() RunItem
}

// TextItem is a span of plain text.
type TextItem struct {
	Text string
}

// TabItem is a tab marker.
type TabItem struct{}

// FWSpaceItem is a full-width (ideographic) space marker.
type FWSpaceItem struct{}

// LineBreakItem is an in-paragraph line break.
type LineBreakItem struct{}

// FieldBeginItem opens a field control such as a hyperlink. Params is
// the field's parameter payload in document order.
type FieldBeginItem struct {
	Kind   string // "HYPERLINK", "BOOKMARK", ...
	Params []FieldParam
}

// FieldParam is one named field parameter.
type FieldParam struct {
	Name  string
	Value string
}

// FieldEndItem closes the innermost open field.
type FieldEndItem struct{}

// NoteItem is a footnote or endnote anchored at this position.
type NoteItem struct {
	Endnote bool
	Text    string
}

// CloneItem implements RunItem.
func (t TextItem) CloneItem() RunItem { return t }

// CloneItem implements RunItem.
func (t TabItem) CloneItem() RunItem { return t }

// CloneItem implements RunItem.
func (f FWSpaceItem) CloneItem() RunItem { return f }

// CloneItem implements RunItem.
func (l LineBreakItem) CloneItem() RunItem { return l }

// CloneItem implements RunItem.
func (f FieldBeginItem) CloneItem() RunItem {
	c := f
	c.Params = make([]FieldParam, len(f.Params))
	copy(c.Params, f.Params)
	return c
}

// CloneItem implements RunItem.
func (f FieldEndItem) CloneItem() RunItem { return f }

// CloneItem implements RunItem.
func (n NoteItem) CloneItem() RunItem { return n }
