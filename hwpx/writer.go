package hwpx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/openhwp/hwpview/document"
)

const mimeType = "application/hwp+zip"

// WriteFile serializes a document to an HWPX file on disk.
func WriteFile(doc *document.Document, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := Write(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write serializes a document as an HWPX container.
func Write(doc *document.Document, w io.Writer) error {
	zw := zip.NewWriter(w)

	// mimetype must be the first entry and stored uncompressed.
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := mw.Write([]byte(mimeType)); err != nil {
		return err
	}

	if err := writePart(zw, "version.xml", []byte(versionXML)); err != nil {
		return err
	}

	sw := &sectionWriter{doc: doc, bandShapes: make(map[string]string)}

	// Band paragraphs reference paragraph shapes by alignment, so any
	// alignment without a matching shape gets a synthetic ref-list
	// entry. Collect those before the header part is serialized.
	for _, sec := range doc.Sections {
		if sec.Props.HeaderText != "" {
			sw.bandShapeID(sec.Props.HeaderAlign)
		}
		if sec.Props.FooterText != "" {
			sw.bandShapeID(sec.Props.FooterAlign)
		}
	}

	headerData, err := buildHeaderXML(doc, sw.bandShapes)
	if err != nil {
		return fmt.Errorf("serializing header part: %w", err)
	}
	if err := writePart(zw, "Contents/header.xml", headerData); err != nil {
		return err
	}

	var sectionPaths []string
	for i, sec := range doc.Sections {
		data, err := sw.writeSection(sec)
		if err != nil {
			return fmt.Errorf("serializing section %d: %w", i, err)
		}
		p := fmt.Sprintf("Contents/section%d.xml", i)
		if err := writePart(zw, p, data); err != nil {
			return err
		}
		sectionPaths = append(sectionPaths, p)
	}

	binItems := collectBinData(doc)
	for _, item := range binItems {
		if err := writePart(zw, item.href, item.data); err != nil {
			return err
		}
	}

	manifestData, err := buildManifestXML(sectionPaths, binItems)
	if err != nil {
		return fmt.Errorf("serializing manifest: %w", err)
	}
	if err := writePart(zw, "Contents/content.hpf", manifestData); err != nil {
		return err
	}

	return zw.Close()
}

const versionXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<hv:HCFVersion xmlns:hv="http://www.hancom.co.kr/hwpml/2011/version" ` +
	`targetApplication="WORDPROCESSOR" major="5" minor="5" micro="1" buildNumber="0" xmlVersion="1.4"/>`

func writePart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// binItem is one embedded binary payload scheduled for the container.
type binItem struct {
	id   string
	href string
	data []byte
}

// collectBinData gathers the picture payloads referenced anywhere in
// the document, one container entry per binary item ID.
func collectBinData(doc *document.Document) []binItem {
	seen := make(map[string]bool)
	var items []binItem
	var fromParagraph func(p *document.Paragraph)
	fromParagraph = func(p *document.Paragraph) {
		for _, pic := range p.Pictures {
			if pic.BinDataID == "" || pic.Data == nil || seen[pic.BinDataID] {
				continue
			}
			seen[pic.BinDataID] = true
			name := pic.BinDataID
			if path.Ext(name) == "" {
				name += sniffExt(pic.Data)
			}
			items = append(items, binItem{id: pic.BinDataID, href: "BinData/" + name, data: pic.Data})
		}
		for _, tbl := range p.Tables {
			for _, cell := range tbl.Cells {
				for _, cp := range cell.Paragraphs {
					fromParagraph(cp)
				}
			}
		}
	}
	for _, sec := range doc.Sections {
		for _, p := range sec.Paragraphs {
			fromParagraph(p)
		}
	}
	return items
}

// sniffExt guesses a file extension from well-known image signatures.
func sniffExt(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return ".png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return ".jpg"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("GIF8")):
		return ".gif"
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return ".bmp"
	}
	return ".bin"
}

func mediaType(href string) string {
	switch path.Ext(href) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	}
	return "application/octet-stream"
}

// Manifest output structs. Prefixed element names serialize literal
// opf: tags; the xmlns declaration lives on the package root.
type opfPackage struct {
	XMLName  xml.Name    `xml:"opf:package"`
	Xmlns    string      `xml:"xmlns:opf,attr"`
	Version  string      `xml:"version,attr"`
	Manifest opfManifest `xml:"opf:manifest"`
	Spine    opfSpine    `xml:"opf:spine"`
}

type opfManifest struct {
	Items []opfItem `xml:"opf:item"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfSpine struct {
	Refs []opfItemRef `xml:"opf:itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

func buildManifestXML(sectionPaths []string, binItems []binItem) ([]byte, error) {
	pkg := opfPackage{
		Xmlns:   "http://www.idpf.org/2007/opf/",
		Version: "1.0",
	}
	pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
		ID: "header", Href: "Contents/header.xml", MediaType: "application/xml",
	})
	for i, p := range sectionPaths {
		id := "section" + strconv.Itoa(i)
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID: id, Href: p, MediaType: "application/xml",
		})
		pkg.Spine.Refs = append(pkg.Spine.Refs, opfItemRef{IDRef: id})
	}
	for _, item := range binItems {
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID: item.id, Href: item.href, MediaType: mediaType(item.href),
		})
	}
	return marshalPart(pkg)
}

// Header output structs.
type wHead struct {
	XMLName xml.Name `xml:"hh:head"`
	XmlnsHH string   `xml:"xmlns:hh,attr"`
	XmlnsHC string   `xml:"xmlns:hc,attr"`
	Version string   `xml:"version,attr"`
	SecCnt  int      `xml:"secCnt,attr"`
	RefList wRefList `xml:"hh:refList"`
}

type wRefList struct {
	Fontfaces   *wFontfaces   `xml:"hh:fontfaces,omitempty"`
	BorderFills *wBorderFills `xml:"hh:borderFills,omitempty"`
	CharPrs     *wCharPrs     `xml:"hh:charProperties,omitempty"`
	ParaPrs     *wParaPrs     `xml:"hh:paraProperties,omitempty"`
	Styles      *wStyles      `xml:"hh:styles,omitempty"`
}

type wFontfaces struct {
	ItemCnt   int         `xml:"itemCnt,attr"`
	Fontfaces []wFontface `xml:"hh:fontface"`
}

type wFontface struct {
	Lang    string  `xml:"lang,attr"`
	FontCnt int     `xml:"fontCnt,attr"`
	Fonts   []wFont `xml:"hh:font"`
}

type wFont struct {
	ID   string `xml:"id,attr"`
	Face string `xml:"face,attr"`
	Type string `xml:"type,attr"`
}

type wBorderFills struct {
	ItemCnt     int           `xml:"itemCnt,attr"`
	BorderFills []wBorderFill `xml:"hh:borderFill"`
}

type wBorderFill struct {
	ID        string       `xml:"id,attr"`
	Left      *wBorderSide `xml:"hh:leftBorder,omitempty"`
	Right     *wBorderSide `xml:"hh:rightBorder,omitempty"`
	Top       *wBorderSide `xml:"hh:topBorder,omitempty"`
	Bottom    *wBorderSide `xml:"hh:bottomBorder,omitempty"`
	FillBrush *wFillBrush  `xml:"hh:fillBrush,omitempty"`
}

type wBorderSide struct {
	Type  string `xml:"type,attr"`
	Width string `xml:"width,attr"`
	Color string `xml:"color,attr"`
}

type wFillBrush struct {
	WinBrush wWinBrush `xml:"hh:winBrush"`
}

type wWinBrush struct {
	FaceColor string `xml:"faceColor,attr"`
}

type wCharPrs struct {
	ItemCnt int       `xml:"itemCnt,attr"`
	CharPrs []wCharPr `xml:"hh:charPr"`
}

type wCharPr struct {
	ID         string     `xml:"id,attr"`
	Height     int        `xml:"height,attr"`
	TextColor  string     `xml:"textColor,attr,omitempty"`
	ShadeColor string     `xml:"shadeColor,attr,omitempty"`
	FontRef    *wLangRef  `xml:"hh:fontRef,omitempty"`
	Spacing    *wLangVal  `xml:"hh:spacing,omitempty"`
	Bold       *wEmpty    `xml:"hh:bold,omitempty"`
	Italic     *wEmpty    `xml:"hh:italic,omitempty"`
	Underline  *wLineMark `xml:"hh:underline,omitempty"`
	Strikeout  *wLineMark `xml:"hh:strikeout,omitempty"`
}

type wEmpty struct{}

type wLangRef struct {
	Hangul string `xml:"hangul,attr"`
	Latin  string `xml:"latin,attr"`
}

type wLangVal struct {
	Hangul int `xml:"hangul,attr"`
}

type wLineMark struct {
	Type  string `xml:"type,attr"`
	Color string `xml:"color,attr"`
}

type wParaPrs struct {
	ItemCnt int       `xml:"itemCnt,attr"`
	ParaPrs []wParaPr `xml:"hh:paraPr"`
}

type wParaPr struct {
	ID          string        `xml:"id,attr"`
	Align       wAlign        `xml:"hh:align"`
	Margin      *wParaMargin  `xml:"hh:margin,omitempty"`
	LineSpacing *wLineSpacing `xml:"hh:lineSpacing,omitempty"`
}

type wAlign struct {
	Horizontal string `xml:"horizontal,attr"`
}

type wParaMargin struct {
	Intent *wValue `xml:"hc:intent,omitempty"`
	Left   *wValue `xml:"hc:left,omitempty"`
	Right  *wValue `xml:"hc:right,omitempty"`
	Prev   *wValue `xml:"hc:prev,omitempty"`
	Next   *wValue `xml:"hc:next,omitempty"`
}

type wValue struct {
	Value int    `xml:"value,attr"`
	Unit  string `xml:"unit,attr"`
}

type wLineSpacing struct {
	Type  string `xml:"type,attr"`
	Value int    `xml:"value,attr"`
}

type wStyles struct {
	ItemCnt int      `xml:"itemCnt,attr"`
	Styles  []wStyle `xml:"hh:style"`
}

type wStyle struct {
	ID          string `xml:"id,attr"`
	Type        string `xml:"type,attr"`
	Name        string `xml:"name,attr"`
	CharPrIDRef string `xml:"charPrIDRef,attr"`
	ParaPrIDRef string `xml:"paraPrIDRef,attr"`
}

// buildHeaderXML serializes the primary header part. bandShapes holds
// synthetic paragraph shapes (ID -> alignment) backing header/footer
// band alignments that no declared shape covers.
func buildHeaderXML(doc *document.Document, bandShapes map[string]string) ([]byte, error) {
	h := doc.Header()
	if h == nil {
		h = document.NewHeader()
	}

	head := wHead{
		XmlnsHH: nsHH,
		XmlnsHC: nsHC,
		Version: "1.31",
		SecCnt:  len(doc.Sections),
	}

	if len(h.Fontfaces) > 0 {
		ff := wFontface{Lang: "HANGUL", FontCnt: len(h.Fontfaces)}
		for _, id := range sortedKeys(h.Fontfaces) {
			ff.Fonts = append(ff.Fonts, wFont{ID: id, Face: h.Fontfaces[id], Type: "TTF"})
		}
		head.RefList.Fontfaces = &wFontfaces{ItemCnt: 1, Fontfaces: []wFontface{ff}}
	}

	if len(h.BorderFills) > 0 {
		bfs := &wBorderFills{ItemCnt: len(h.BorderFills)}
		for _, id := range sortedKeys(h.BorderFills) {
			bf := h.BorderFills[id]
			out := wBorderFill{
				ID:     id,
				Left:   wSide(bf.Left),
				Right:  wSide(bf.Right),
				Top:    wSide(bf.Top),
				Bottom: wSide(bf.Bottom),
			}
			if bf.FillColor != "" {
				out.FillBrush = &wFillBrush{WinBrush: wWinBrush{FaceColor: bf.FillColor}}
			}
			bfs.BorderFills = append(bfs.BorderFills, out)
		}
		head.RefList.BorderFills = bfs
	}

	if len(h.CharShapes) > 0 {
		cps := &wCharPrs{ItemCnt: len(h.CharShapes)}
		for _, id := range sortedKeys(h.CharShapes) {
			cs := h.CharShapes[id]
			out := wCharPr{
				ID:         id,
				Height:     cs.Height,
				TextColor:  cs.TextColor,
				ShadeColor: cs.Highlight,
			}
			if cs.FaceID != "" {
				out.FontRef = &wLangRef{Hangul: cs.FaceID, Latin: cs.FaceID}
			}
			if cs.Spacing != 0 {
				out.Spacing = &wLangVal{Hangul: cs.Spacing}
			}
			if cs.Bold {
				out.Bold = &wEmpty{}
			}
			if cs.Italic {
				out.Italic = &wEmpty{}
			}
			if cs.Underline != nil {
				out.Underline = &wLineMark{Type: cs.Underline.Type, Color: cs.Underline.Color}
			}
			if cs.Strikeout != nil {
				out.Strikeout = &wLineMark{Type: cs.Strikeout.Type, Color: cs.Strikeout.Color}
			}
			cps.CharPrs = append(cps.CharPrs, out)
		}
		head.RefList.CharPrs = cps
	}

	paraShapes := make(map[string]*document.ParaShape, len(h.ParaShapes))
	for id, ps := range h.ParaShapes {
		paraShapes[id] = ps
	}
	for id, align := range bandShapes {
		if _, ok := paraShapes[id]; !ok {
			paraShapes[id] = &document.ParaShape{Align: align}
		}
	}
	if len(paraShapes) > 0 {
		pps := &wParaPrs{ItemCnt: len(paraShapes)}
		for _, id := range sortedKeys(paraShapes) {
			ps := paraShapes[id]
			out := wParaPr{ID: id, Align: wAlign{Horizontal: ps.Align}}
			if ps.Indent != 0 || ps.MarginLeft != 0 || ps.MarginRight != 0 ||
				ps.SpaceBefore != 0 || ps.SpaceAfter != 0 {
				out.Margin = &wParaMargin{
					Intent: hwpUnit(ps.Indent),
					Left:   hwpUnit(ps.MarginLeft),
					Right:  hwpUnit(ps.MarginRight),
					Prev:   hwpUnit(ps.SpaceBefore),
					Next:   hwpUnit(ps.SpaceAfter),
				}
			}
			if ps.LineSpacing != 0 {
				out.LineSpacing = &wLineSpacing{Type: "PERCENT", Value: ps.LineSpacing}
			}
			pps.ParaPrs = append(pps.ParaPrs, out)
		}
		head.RefList.ParaPrs = pps
	}

	if len(h.Styles) > 0 {
		sts := &wStyles{ItemCnt: len(h.Styles)}
		for _, id := range sortedKeys(h.Styles) {
			s := h.Styles[id]
			sts.Styles = append(sts.Styles, wStyle{
				ID:          id,
				Type:        "PARA",
				Name:        s.Name,
				CharPrIDRef: s.CharShapeID,
				ParaPrIDRef: s.ParaShapeID,
			})
		}
		head.RefList.Styles = sts
	}

	return marshalPart(head)
}

func wSide(bs *document.BorderSide) *wBorderSide {
	if bs == nil {
		return nil
	}
	return &wBorderSide{Type: bs.Type, Width: bs.Width, Color: bs.Color}
}

func hwpUnit(v int) *wValue {
	return &wValue{Value: v, Unit: "HWPUNIT"}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
