package hwpx

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/openhwp/hwpview/document"
)

// sectionWriter serializes body sections. Run content is ordered mixed
// content (text, markers, fields, anchored objects), so sections are
// written token by token instead of through structs.
type sectionWriter struct {
	doc *document.Document

	// bandShapes holds synthetic paragraph shape IDs allocated for
	// header/footer band alignments, keyed by shape ID.
	bandShapes map[string]string
}

// bandShapeID returns the paragraph shape ID whose alignment matches a
// band alignment, allocating a synthetic one when none exists. An empty
// alignment needs no shape at all.
func (sw *sectionWriter) bandShapeID(align string) string {
	if align == "" {
		return ""
	}
	h := sw.doc.Header()
	if h != nil {
		for _, id := range sortedKeys(h.ParaShapes) {
			if h.ParaShapes[id].Align == align {
				return id
			}
		}
	}
	id := "band" + align
	sw.bandShapes[id] = align
	return id
}

// writeSection serializes one section part. The first paragraph carries
// a leading run holding the page setup and any header/footer bands.
func (sw *sectionWriter) writeSection(sec *document.Section) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	root := xml.StartElement{
		Name: xml.Name{Local: "hs:sec"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:hs"}, Value: nsHS},
			{Name: xml.Name{Local: "xmlns:hp"}, Value: nsHP},
			{Name: xml.Name{Local: "xmlns:hc"}, Value: nsHC},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	paragraphs := sec.Paragraphs
	if len(paragraphs) == 0 {
		// The page setup needs a carrier paragraph.
		paragraphs = []*document.Paragraph{{}}
	}
	for i, p := range paragraphs {
		var props *document.SectionProps
		if i == 0 {
			props = &sec.Props
		}
		if err := sw.writeParagraph(enc, p, props); err != nil {
			return nil, err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (sw *sectionWriter) writeParagraph(enc *xml.Encoder, p *document.Paragraph, props *document.SectionProps) error {
	var attrs []xml.Attr
	if p.ParaShapeID != "" {
		attrs = append(attrs, xmlAttr("paraPrIDRef", p.ParaShapeID))
	}
	if p.StyleID != "" {
		attrs = append(attrs, xmlAttr("styleIDRef", p.StyleID))
	}
	start := xml.StartElement{Name: xml.Name{Local: "hp:p"}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if props != nil {
		if err := sw.writeSetupRun(enc, props); err != nil {
			return err
		}
	}
	for _, run := range p.Runs {
		if err := sw.writeRun(enc, run); err != nil {
			return err
		}
	}
	for _, tbl := range p.Tables {
		if err := sw.writeAnchored(enc, func() error { return sw.writeTable(enc, tbl) }); err != nil {
			return err
		}
	}
	for _, pic := range p.Pictures {
		if err := sw.writeAnchored(enc, func() error { return sw.writePicture(enc, pic) }); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// writeAnchored wraps an anchored object (table, picture) in its own
// carrier run.
func (sw *sectionWriter) writeAnchored(enc *xml.Encoder, body func() error) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:run"},
		Attr: []xml.Attr{xmlAttr("charPrIDRef", "0")},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// writeSetupRun emits the run carrying the section's page setup and
// header/footer bands.
func (sw *sectionWriter) writeSetupRun(enc *xml.Encoder, props *document.SectionProps) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:run"},
		Attr: []xml.Attr{xmlAttr("charPrIDRef", "0")},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	secPr := xml.StartElement{Name: xml.Name{Local: "hp:secPr"}}
	if err := enc.EncodeToken(secPr); err != nil {
		return err
	}
	landscape := "0"
	if props.Landscape {
		landscape = "1"
	}
	pagePr := xml.StartElement{
		Name: xml.Name{Local: "hp:pagePr"},
		Attr: []xml.Attr{
			xmlAttr("landscape", landscape),
			xmlIntAttr("width", props.PageWidth),
			xmlIntAttr("height", props.PageHeight),
		},
	}
	if err := enc.EncodeToken(pagePr); err != nil {
		return err
	}
	if err := writeLeaf(enc, "hp:margin",
		xmlIntAttr("header", props.MarginHeader),
		xmlIntAttr("footer", props.MarginFooter),
		xmlIntAttr("left", props.MarginLeft),
		xmlIntAttr("right", props.MarginRight),
		xmlIntAttr("top", props.MarginTop),
		xmlIntAttr("bottom", props.MarginBottom),
	); err != nil {
		return err
	}
	if err := enc.EncodeToken(pagePr.End()); err != nil {
		return err
	}
	if err := writeLeaf(enc, "hp:colPr",
		xmlIntAttr("colCount", props.Columns),
		xmlIntAttr("sameGap", props.ColumnGap),
	); err != nil {
		return err
	}
	if err := writeLeaf(enc, "hp:startNum", xmlIntAttr("page", props.PageNumStart)); err != nil {
		return err
	}
	if props.PageNumFormat != "" {
		if err := writeLeaf(enc, "hp:pageNum", xmlAttr("formatType", props.PageNumFormat)); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(secPr.End()); err != nil {
		return err
	}

	if props.HeaderText != "" {
		if err := sw.writeBand(enc, "hp:header", props.HeaderText, props.HeaderAlign); err != nil {
			return err
		}
	}
	if props.FooterText != "" {
		if err := sw.writeBand(enc, "hp:footer", props.FooterText, props.FooterAlign); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// writeBand emits a header or footer band control.
func (sw *sectionWriter) writeBand(enc *xml.Encoder, name, text, align string) error {
	ctrl := xml.StartElement{Name: xml.Name{Local: "hp:ctrl"}}
	if err := enc.EncodeToken(ctrl); err != nil {
		return err
	}
	band := xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: []xml.Attr{xmlAttr("applyPageType", "BOTH")},
	}
	if err := enc.EncodeToken(band); err != nil {
		return err
	}
	subList := xml.StartElement{Name: xml.Name{Local: "hp:subList"}}
	if err := enc.EncodeToken(subList); err != nil {
		return err
	}

	var pAttrs []xml.Attr
	if id := sw.bandShapeID(align); id != "" {
		pAttrs = append(pAttrs, xmlAttr("paraPrIDRef", id))
	}
	p := xml.StartElement{Name: xml.Name{Local: "hp:p"}, Attr: pAttrs}
	if err := enc.EncodeToken(p); err != nil {
		return err
	}
	if err := sw.writeTextRun(enc, "0", text); err != nil {
		return err
	}
	if err := enc.EncodeToken(p.End()); err != nil {
		return err
	}

	if err := enc.EncodeToken(subList.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(band.End()); err != nil {
		return err
	}
	return enc.EncodeToken(ctrl.End())
}

// writeTextRun emits a run holding a single text element.
func (sw *sectionWriter) writeTextRun(enc *xml.Encoder, charRef, text string) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:run"},
		Attr: []xml.Attr{xmlAttr("charPrIDRef", charRef)},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeTextElement(enc, text); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func (sw *sectionWriter) writeRun(enc *xml.Encoder, run *document.Run) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:run"},
		Attr: []xml.Attr{xmlAttr("charPrIDRef", run.CharShapeID)},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if len(run.Items) == 0 && run.LegacyText != "" {
		if err := writeTextElement(enc, run.LegacyText); err != nil {
			return err
		}
	}
	for _, item := range run.Items {
		if err := sw.writeRunItem(enc, item); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func (sw *sectionWriter) writeRunItem(enc *xml.Encoder, item document.RunItem) error {
	switch it := item.(type) {
	case document.TextItem:
		return writeTextElement(enc, it.Text)
	case document.TabItem:
		return writeLeaf(enc, "hp:tab")
	case document.FWSpaceItem:
		return writeLeaf(enc, "hp:fwSpace")
	case document.LineBreakItem:
		return writeLeaf(enc, "hp:lineBreak")
	case document.FieldBeginItem:
		return sw.writeFieldBegin(enc, it)
	case document.FieldEndItem:
		return writeCtrl(enc, func() error {
			return writeLeaf(enc, "hp:fieldEnd")
		})
	case document.NoteItem:
		return sw.writeNote(enc, it)
	}
	return nil
}

func (sw *sectionWriter) writeFieldBegin(enc *xml.Encoder, item document.FieldBeginItem) error {
	return writeCtrl(enc, func() error {
		begin := xml.StartElement{
			Name: xml.Name{Local: "hp:fieldBegin"},
			Attr: []xml.Attr{xmlAttr("type", item.Kind)},
		}
		if err := enc.EncodeToken(begin); err != nil {
			return err
		}
		if len(item.Params) > 0 {
			params := xml.StartElement{
				Name: xml.Name{Local: "hp:parameters"},
				Attr: []xml.Attr{xmlIntAttr("count", len(item.Params))},
			}
			if err := enc.EncodeToken(params); err != nil {
				return err
			}
			for _, p := range item.Params {
				sp := xml.StartElement{
					Name: xml.Name{Local: "hp:stringParam"},
					Attr: []xml.Attr{xmlAttr("name", p.Name)},
				}
				if err := enc.EncodeToken(sp); err != nil {
					return err
				}
				if err := enc.EncodeToken(xml.CharData(p.Value)); err != nil {
					return err
				}
				if err := enc.EncodeToken(sp.End()); err != nil {
					return err
				}
			}
			if err := enc.EncodeToken(params.End()); err != nil {
				return err
			}
		}
		return enc.EncodeToken(begin.End())
	})
}

func (sw *sectionWriter) writeNote(enc *xml.Encoder, item document.NoteItem) error {
	name := "hp:footNote"
	if item.Endnote {
		name = "hp:endNote"
	}
	return writeCtrl(enc, func() error {
		note := xml.StartElement{Name: xml.Name{Local: name}}
		if err := enc.EncodeToken(note); err != nil {
			return err
		}
		subList := xml.StartElement{Name: xml.Name{Local: "hp:subList"}}
		if err := enc.EncodeToken(subList); err != nil {
			return err
		}
		for _, line := range strings.Split(item.Text, "\n") {
			p := xml.StartElement{Name: xml.Name{Local: "hp:p"}}
			if err := enc.EncodeToken(p); err != nil {
				return err
			}
			if err := sw.writeTextRun(enc, "0", line); err != nil {
				return err
			}
			if err := enc.EncodeToken(p.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(subList.End()); err != nil {
			return err
		}
		return enc.EncodeToken(note.End())
	})
}

func (sw *sectionWriter) writeTable(enc *xml.Encoder, tbl *document.Table) error {
	repeat := "0"
	if tbl.RepeatHeader {
		repeat = "1"
	}
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:tbl"},
		Attr: []xml.Attr{
			xmlIntAttr("rowCnt", tbl.RowCnt),
			xmlIntAttr("colCnt", tbl.ColCnt),
			xmlIntAttr("cellSpacing", tbl.CellSpacing),
			xmlAttr("borderFillIDRef", tbl.BorderFillID),
			xmlAttr("pageBreak", tbl.PageBreak),
			xmlAttr("repeatHeader", repeat),
		},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if err := writeLeaf(enc, "hp:sz",
		xmlIntAttr("width", tbl.Width), xmlIntAttr("height", tbl.Height)); err != nil {
		return err
	}
	if err := writeMargins(enc, "hp:inMargin", tbl.InnerMargin); err != nil {
		return err
	}
	if err := writeMargins(enc, "hp:outMargin", tbl.OuterMargin); err != nil {
		return err
	}

	for _, row := range rowOrder(tbl) {
		tr := xml.StartElement{Name: xml.Name{Local: "hp:tr"}}
		if err := enc.EncodeToken(tr); err != nil {
			return err
		}
		for _, cell := range tbl.Cells {
			if cell.Row != row {
				continue
			}
			if err := sw.writeCell(enc, cell); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(tr.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// rowOrder returns the distinct anchor rows of a table in ascending
// order.
func rowOrder(tbl *document.Table) []int {
	seen := make(map[int]bool)
	var rows []int
	for _, cell := range tbl.Cells {
		if !seen[cell.Row] {
			seen[cell.Row] = true
			rows = append(rows, cell.Row)
		}
	}
	sort.Ints(rows)
	return rows
}

func (sw *sectionWriter) writeCell(enc *xml.Encoder, cell *document.Cell) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:tc"},
		Attr: []xml.Attr{xmlAttr("borderFillIDRef", cell.BorderFillID)},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	subList := xml.StartElement{
		Name: xml.Name{Local: "hp:subList"},
		Attr: []xml.Attr{xmlAttr("vertAlign", cell.VertAlign)},
	}
	if err := enc.EncodeToken(subList); err != nil {
		return err
	}
	for _, p := range cell.Paragraphs {
		if err := sw.writeParagraph(enc, p, nil); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(subList.End()); err != nil {
		return err
	}

	if err := writeLeaf(enc, "hp:cellAddr",
		xmlIntAttr("colAddr", cell.Col), xmlIntAttr("rowAddr", cell.Row)); err != nil {
		return err
	}
	if err := writeLeaf(enc, "hp:cellSpan",
		xmlIntAttr("colSpan", cell.ColSpan), xmlIntAttr("rowSpan", cell.RowSpan)); err != nil {
		return err
	}
	if err := writeLeaf(enc, "hp:cellSz",
		xmlIntAttr("width", cell.Width), xmlIntAttr("height", cell.Height)); err != nil {
		return err
	}

	return enc.EncodeToken(start.End())
}

func (sw *sectionWriter) writePicture(enc *xml.Encoder, pic *document.Picture) error {
	treat := "0"
	if pic.TreatAsChar {
		treat = "1"
	}
	start := xml.StartElement{
		Name: xml.Name{Local: "hp:pic"},
		Attr: []xml.Attr{xmlAttr("treatAsChar", treat)},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if err := writeLeaf(enc, "hp:orgSz",
		xmlIntAttr("width", pic.OrigWidth), xmlIntAttr("height", pic.OrigHeight)); err != nil {
		return err
	}
	if err := writeLeaf(enc, "hp:curSz",
		xmlIntAttr("width", pic.CurWidth), xmlIntAttr("height", pic.CurHeight)); err != nil {
		return err
	}
	if pic.CropLeft != 0 || pic.CropRight != 0 || pic.CropTop != 0 || pic.CropBottom != 0 {
		if err := writeLeaf(enc, "hp:imgClip",
			xmlIntAttr("left", pic.CropLeft),
			xmlIntAttr("right", pic.CropRight),
			xmlIntAttr("top", pic.CropTop),
			xmlIntAttr("bottom", pic.CropBottom),
		); err != nil {
			return err
		}
	}
	if pic.Rotation != 0 {
		if err := writeLeaf(enc, "hp:rotationInfo", xmlIntAttr("angle", pic.Rotation)); err != nil {
			return err
		}
	}
	if pic.HRelTo != "" || pic.VRelTo != "" {
		if err := writeLeaf(enc, "hp:pos",
			xmlAttr("hRelTo", pic.HRelTo), xmlAttr("vRelTo", pic.VRelTo)); err != nil {
			return err
		}
	}
	if pic.BinDataID != "" {
		if err := writeLeaf(enc, "hc:img", xmlAttr("binaryItemIDRef", pic.BinDataID)); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func writeMargins(enc *xml.Encoder, name string, m document.Margins) error {
	return writeLeaf(enc, name,
		xmlIntAttr("left", m.Left),
		xmlIntAttr("right", m.Right),
		xmlIntAttr("top", m.Top),
		xmlIntAttr("bottom", m.Bottom),
	)
}

func writeCtrl(enc *xml.Encoder, body func() error) error {
	ctrl := xml.StartElement{Name: xml.Name{Local: "hp:ctrl"}}
	if err := enc.EncodeToken(ctrl); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return enc.EncodeToken(ctrl.End())
}

func writeTextElement(enc *xml.Encoder, text string) error {
	start := xml.StartElement{Name: xml.Name{Local: "hp:t"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func writeLeaf(enc *xml.Encoder, name string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func xmlAttr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func xmlIntAttr(name string, value int) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: strconv.Itoa(value)}
}
