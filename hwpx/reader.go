package hwpx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/openhwp/hwpview/document"
)

// Open reads an HWPX file from disk.
func Open(filename string) (*document.Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()
	return read(&zr.Reader)
}

// Read parses an HWPX container held in memory.
func Read(data []byte) (*document.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return read(zr)
}

// reader walks one container.
type reader struct {
	zr      *zip.Reader
	header  *document.Header
	binData map[string]string // binary item ID -> container path
}

func read(zr *zip.Reader) (*document.Document, error) {
	r := &reader{zr: zr, binData: make(map[string]string)}

	headerPath, sectionPaths := r.locateParts()
	if len(sectionPaths) == 0 {
		return nil, fmt.Errorf("container has no body sections")
	}

	doc := &document.Document{}

	if headerPath != "" {
		data, err := r.fileContent(headerPath)
		if err != nil {
			return nil, fmt.Errorf("reading header part: %w", err)
		}
		h, err := parseHeader(data)
		if err != nil {
			return nil, fmt.Errorf("parsing header part: %w", err)
		}
		doc.Headers = append(doc.Headers, h)
		r.header = h
	} else {
		doc.Headers = append(doc.Headers, document.NewHeader())
		r.header = doc.Headers[0]
	}

	for _, sp := range sectionPaths {
		data, err := r.fileContent(sp)
		if err != nil {
			return nil, fmt.Errorf("reading section %s: %w", sp, err)
		}
		sec, err := r.parseSection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing section %s: %w", sp, err)
		}
		doc.Sections = append(doc.Sections, sec)
	}

	return doc, nil
}

// locateParts resolves the header and section paths, via the manifest
// when present and by scanning the container when not.
func (r *reader) locateParts() (headerPath string, sectionPaths []string) {
	if data, err := r.fileContent("Contents/content.hpf"); err == nil {
		if m, err := parseManifest(data); err == nil {
			r.binData = m.binDataPaths()
			return m.headerPath(), m.sectionPaths()
		}
	}

	// No usable manifest: fall back to well-known names.
	for _, f := range r.zr.File {
		name := f.Name
		switch {
		case strings.HasSuffix(name, "header.xml"):
			headerPath = name
		case strings.Contains(name, "section") && strings.HasSuffix(name, ".xml"):
			sectionPaths = append(sectionPaths, name)
		case strings.HasPrefix(name, "BinData/"):
			base := path.Base(name)
			stem := strings.TrimSuffix(base, path.Ext(base))
			r.binData[stem] = name
			r.binData[base] = name
		}
	}
	sort.Strings(sectionPaths)
	return headerPath, sectionPaths
}

// fileContent reads one file from the container. Paths from the
// manifest may or may not carry the Contents/ prefix.
func (r *reader) fileContent(name string) ([]byte, error) {
	for _, f := range r.zr.File {
		if f.Name == name || f.Name == "Contents/"+name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// loadBinData resolves a binary item reference to its payload, or nil
// for dangling references.
func (r *reader) loadBinData(id string) []byte {
	p, ok := r.binData[id]
	if !ok {
		return nil
	}
	data, err := r.fileContent(p)
	if err != nil {
		return nil
	}
	return data
}

// parseSection walks one section XML part. Section content nests
// arbitrarily (tables hold paragraphs that hold runs), so parsing is
// recursive descent over the token stream rather than struct
// unmarshaling.
func (r *reader) parseSection(data []byte) (*document.Section, error) {
	sec := document.NewSection()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("section XML: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "p" {
			p, err := r.parseParagraph(dec, se, sec)
			if err != nil {
				return nil, err
			}
			sec.Paragraphs = append(sec.Paragraphs, p)
		}
	}
	return sec, nil
}

// parseParagraph consumes one <hp:p> element. sec receives page-setup
// side effects from any secPr found inside.
func (r *reader) parseParagraph(dec *xml.Decoder, start xml.StartElement, sec *document.Section) (*document.Paragraph, error) {
	p := &document.Paragraph{
		ParaShapeID: attr(start, "paraPrIDRef"),
		StyleID:     attr(start, "styleIDRef"),
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("paragraph XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "run" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			if err := r.parseRun(dec, t, p, sec); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return p, nil
		}
	}
}

// parseRun consumes one <hp:run>, appending inline content, tables,
// and pictures to the paragraph. Runs that carried only structure (a
// secPr, a table anchor) produce no inline run.
func (r *reader) parseRun(dec *xml.Decoder, start xml.StartElement, p *document.Paragraph, sec *document.Section) error {
	run := &document.Run{CharShapeID: attr(start, "charPrIDRef")}
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("run XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				if err := r.parseText(dec, run); err != nil {
					return err
				}
			case "tab":
				run.Items = append(run.Items, document.TabItem{})
				if err := dec.Skip(); err != nil {
					return err
				}
			case "fwSpace":
				run.Items = append(run.Items, document.FWSpaceItem{})
				if err := dec.Skip(); err != nil {
					return err
				}
			case "lineBreak":
				run.Items = append(run.Items, document.LineBreakItem{})
				if err := dec.Skip(); err != nil {
					return err
				}
			case "ctrl":
				if err := r.parseCtrl(dec, run, sec); err != nil {
					return err
				}
			case "secPr":
				if err := r.parseSecPr(dec, sec); err != nil {
					return err
				}
			case "tbl":
				tbl, err := r.parseTable(dec, t, sec)
				if err != nil {
					return err
				}
				p.Tables = append(p.Tables, tbl)
			case "pic":
				pic, err := r.parsePicture(dec, t)
				if err != nil {
					return err
				}
				p.Pictures = append(p.Pictures, pic)
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if len(run.Items) > 0 {
				p.Runs = append(p.Runs, run)
			}
			return nil
		}
	}
}

// parseText consumes one <hp:t>. Text elements hold mixed content:
// character data interleaved with tab, fwSpace, and lineBreak markers.
func (r *reader) parseText(dec *xml.Decoder, run *document.Run) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("text XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(t) > 0 {
				run.Items = append(run.Items, document.TextItem{Text: string(t)})
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "tab":
				run.Items = append(run.Items, document.TabItem{})
			case "fwSpace":
				run.Items = append(run.Items, document.FWSpaceItem{})
			case "lineBreak":
				run.Items = append(run.Items, document.LineBreakItem{})
			}
			if err := dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseCtrl consumes one <hp:ctrl> wrapper: field begin/end markers,
// notes, and header/footer bands.
func (r *reader) parseCtrl(dec *xml.Decoder, run *document.Run, sec *document.Section) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("ctrl XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "fieldBegin":
				item, err := r.parseFieldBegin(dec, t)
				if err != nil {
					return err
				}
				run.Items = append(run.Items, item)
			case "fieldEnd":
				run.Items = append(run.Items, document.FieldEndItem{})
				if err := dec.Skip(); err != nil {
					return err
				}
			case "footNote", "endNote":
				text, err := r.collectText(dec)
				if err != nil {
					return err
				}
				run.Items = append(run.Items, document.NoteItem{
					Endnote: t.Name.Local == "endNote",
					Text:    text,
				})
			case "header", "footer":
				text, align, err := r.parseBand(dec)
				if err != nil {
					return err
				}
				if t.Name.Local == "header" {
					sec.Props.HeaderText = text
					sec.Props.HeaderAlign = align
				} else {
					sec.Props.FooterText = text
					sec.Props.FooterAlign = align
				}
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseFieldBegin consumes one <hp:fieldBegin> with its parameters.
func (r *reader) parseFieldBegin(dec *xml.Decoder, start xml.StartElement) (document.FieldBeginItem, error) {
	item := document.FieldBeginItem{Kind: attr(start, "type")}
	depth := 1
	var paramName string
	var paramText strings.Builder
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return item, fmt.Errorf("fieldBegin XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if strings.HasSuffix(t.Name.Local, "Param") {
				paramName = attr(t, "name")
				paramText.Reset()
			}
		case xml.CharData:
			if paramName != "" {
				paramText.Write(t)
			}
		case xml.EndElement:
			depth--
			if strings.HasSuffix(t.Name.Local, "Param") && paramName != "" {
				item.Params = append(item.Params, document.FieldParam{
					Name:  paramName,
					Value: paramText.String(),
				})
				paramName = ""
			}
		}
	}
	return item, nil
}

// collectText gathers all character data under <hp:t> descendants of
// the current element, paragraphs joined by newlines.
func (r *reader) collectText(dec *xml.Decoder) (string, error) {
	var parts []string
	var cur strings.Builder
	depth := 1
	inText := 0
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("note XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				inText++
			}
		case xml.CharData:
			if inText > 0 {
				cur.Write(t)
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText--
			}
			if t.Name.Local == "p" && cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return strings.Join(parts, "\n"), nil
}

// parseBand reads a header/footer band: its text plus the alignment of
// the band paragraph's referenced shape.
func (r *reader) parseBand(dec *xml.Decoder) (text, align string, err error) {
	var cur strings.Builder
	depth := 1
	inText := 0
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", "", fmt.Errorf("band XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "t":
				inText++
			case "p":
				if ref := attr(t, "paraPrIDRef"); ref != "" && r.header != nil {
					if ps := r.header.ParaShapes[ref]; ps != nil {
						align = ps.Align
					}
				}
			}
		case xml.CharData:
			if inText > 0 {
				cur.Write(t)
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText--
			}
		}
	}
	return cur.String(), align, nil
}

// parseSecPr consumes one <hp:secPr>, filling the section's page setup.
func (r *reader) parseSecPr(dec *xml.Decoder, sec *document.Section) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("secPr XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "pagePr":
				if v := intAttr(t, "width"); v > 0 {
					sec.Props.PageWidth = v
				}
				if v := intAttr(t, "height"); v > 0 {
					sec.Props.PageHeight = v
				}
				sec.Props.Landscape = attr(t, "landscape") == "1"
			case "margin":
				sec.Props.MarginLeft = intAttr(t, "left")
				sec.Props.MarginRight = intAttr(t, "right")
				sec.Props.MarginTop = intAttr(t, "top")
				sec.Props.MarginBottom = intAttr(t, "bottom")
				sec.Props.MarginHeader = intAttr(t, "header")
				sec.Props.MarginFooter = intAttr(t, "footer")
			case "colPr":
				if v := intAttr(t, "colCount"); v > 0 {
					sec.Props.Columns = v
				}
				sec.Props.ColumnGap = intAttr(t, "sameGap")
			case "startNum":
				if v := intAttr(t, "page"); v > 0 {
					sec.Props.PageNumStart = v
				}
			case "pageNum":
				sec.Props.PageNumFormat = attr(t, "formatType")
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// parseTable consumes one <hp:tbl>.
func (r *reader) parseTable(dec *xml.Decoder, start xml.StartElement, sec *document.Section) (*document.Table, error) {
	tbl := &document.Table{
		BorderFillID: attr(start, "borderFillIDRef"),
		RowCnt:       intAttr(start, "rowCnt"),
		ColCnt:       intAttr(start, "colCnt"),
		CellSpacing:  intAttr(start, "cellSpacing"),
		PageBreak:    attr(start, "pageBreak"),
		RepeatHeader: attr(start, "repeatHeader") == "1",
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("table XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sz":
				tbl.Width = intAttr(t, "width")
				tbl.Height = intAttr(t, "height")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "inMargin":
				tbl.InnerMargin = marginsOf(t)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "outMargin":
				tbl.OuterMargin = marginsOf(t)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "tr":
				if err := r.parseTableRow(dec, tbl, sec); err != nil {
					return nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return tbl, nil
		}
	}
}

func (r *reader) parseTableRow(dec *xml.Decoder, tbl *document.Table, sec *document.Section) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("table row XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "tc" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			cell, err := r.parseTableCell(dec, t, sec)
			if err != nil {
				return err
			}
			tbl.Cells = append(tbl.Cells, cell)
		case xml.EndElement:
			return nil
		}
	}
}

func (r *reader) parseTableCell(dec *xml.Decoder, start xml.StartElement, sec *document.Section) (*document.Cell, error) {
	cell := &document.Cell{
		RowSpan:      1,
		ColSpan:      1,
		BorderFillID: attr(start, "borderFillIDRef"),
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("table cell XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cellAddr":
				cell.Row = intAttr(t, "rowAddr")
				cell.Col = intAttr(t, "colAddr")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "cellSpan":
				if v := intAttr(t, "rowSpan"); v > 0 {
					cell.RowSpan = v
				}
				if v := intAttr(t, "colSpan"); v > 0 {
					cell.ColSpan = v
				}
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "cellSz":
				cell.Width = intAttr(t, "width")
				cell.Height = intAttr(t, "height")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "subList":
				cell.VertAlign = attr(t, "vertAlign")
				if err := r.parseSubList(dec, cell, sec); err != nil {
					return nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return cell, nil
		}
	}
}

func (r *reader) parseSubList(dec *xml.Decoder, cell *document.Cell, sec *document.Section) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("subList XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "p" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			p, err := r.parseParagraph(dec, t, sec)
			if err != nil {
				return err
			}
			cell.Paragraphs = append(cell.Paragraphs, p)
		case xml.EndElement:
			return nil
		}
	}
}

// parsePicture consumes one <hp:pic>, resolving its binary payload from
// the container.
func (r *reader) parsePicture(dec *xml.Decoder, start xml.StartElement) (*document.Picture, error) {
	pic := &document.Picture{
		TreatAsChar: attr(start, "treatAsChar") == "1",
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("picture XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "orgSz":
				pic.OrigWidth = intAttr(t, "width")
				pic.OrigHeight = intAttr(t, "height")
			case "curSz":
				pic.CurWidth = intAttr(t, "width")
				pic.CurHeight = intAttr(t, "height")
			case "imgClip":
				pic.CropLeft = intAttr(t, "left")
				pic.CropRight = intAttr(t, "right")
				pic.CropTop = intAttr(t, "top")
				pic.CropBottom = intAttr(t, "bottom")
			case "rotationInfo":
				pic.Rotation = intAttr(t, "angle")
			case "pos":
				pic.HRelTo = attr(t, "hRelTo")
				pic.VRelTo = attr(t, "vRelTo")
			case "img":
				pic.BinDataID = attr(t, "binaryItemIDRef")
				pic.Data = r.loadBinData(pic.BinDataID)
			}
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return pic, nil
		}
	}
}

func marginsOf(se xml.StartElement) document.Margins {
	return document.Margins{
		Left:   intAttr(se, "left"),
		Right:  intAttr(se, "right"),
		Top:    intAttr(se, "top"),
		Bottom: intAttr(se, "bottom"),
	}
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(se xml.StartElement, name string) int {
	v, err := strconv.Atoi(attr(se, name))
	if err != nil {
		return 0
	}
	return v
}
