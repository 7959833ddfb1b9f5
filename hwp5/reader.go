package hwp5

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/openhwp/hwpview/document"
)

// Open reads an HWP 5.x binary file into a document.
func Open(filename string) (*document.Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening HWP file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read reads an HWP 5.x binary document from ra.
func Read(ra io.ReaderAt) (*document.Document, error) {
	cfb, err := mscfb.New(ra)
	if err != nil {
		return nil, fmt.Errorf("opening CFB container: %w", err)
	}
	imp := &importer{cfb: cfb}
	return imp.read()
}

type importer struct {
	cfb    *mscfb.Reader
	header *fileHeader
}

func (imp *importer) read() (*document.Document, error) {
	raw, err := imp.stream(streamFileHeader)
	if err != nil {
		return nil, err
	}
	imp.header, err = parseFileHeader(raw)
	if err != nil {
		return nil, err
	}
	if imp.header.protected() {
		return nil, fmt.Errorf("HWP %s: %w", imp.header.version(), ErrProtected)
	}

	doc := document.New()
	doc.Sections = nil

	raw, err = imp.payload(streamDocInfo)
	if err != nil {
		return nil, err
	}
	if err := parseDocInfo(raw, doc.Header()); err != nil {
		return nil, err
	}

	names := imp.sectionStreams()
	if len(names) == 0 {
		return nil, fmt.Errorf("no %s sections in container", streamBodyText)
	}
	for _, name := range names {
		raw, err := imp.payload(name)
		if err != nil {
			return nil, err
		}
		sec, err := buildSection(raw)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

// stream returns the raw bytes of the named stream.
func (imp *importer) stream(name string) ([]byte, error) {
	for _, entry := range imp.cfb.File {
		full := strings.Join(append(append([]string{}, entry.Path...), entry.Name), "/")
		if entry.Name == name || full == name {
			return io.ReadAll(entry)
		}
	}
	return nil, fmt.Errorf("stream %s not found", name)
}

// payload returns a stream's bytes, inflated when the header says the
// document body is compressed.
func (imp *importer) payload(name string) ([]byte, error) {
	raw, err := imp.stream(name)
	if err != nil {
		return nil, err
	}
	if imp.header.compressed() {
		out, err := decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", name, err)
		}
		return out, nil
	}
	return raw, nil
}

// sectionStreams lists the BodyText/SectionN stream paths in numeric
// order. Lexical order would sort Section10 before Section2.
func (imp *importer) sectionStreams() []string {
	var names []string
	for _, entry := range imp.cfb.File {
		if len(entry.Path) == 0 || entry.Path[len(entry.Path)-1] != streamBodyText {
			continue
		}
		if strings.HasPrefix(entry.Name, "Section") {
			names = append(names, strings.Join(append(append([]string{}, entry.Path...), entry.Name), "/"))
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return sectionIndex(names[i]) < sectionIndex(names[j])
	})
	return names
}

func sectionIndex(name string) int {
	tail := name[strings.LastIndex(name, "Section")+len("Section"):]
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 0
	}
	return n
}

// buildSection turns one decompressed BodyText stream into a section.
func buildSection(data []byte) (*document.Section, error) {
	records, err := newRecordReader(data).all()
	if err != nil {
		return nil, err
	}
	w := &sectionWalker{records: records}
	return w.walk()
}

type sectionWalker struct {
	records []*record
	sec     *document.Section
}

func (w *sectionWalker) walk() (*document.Section, error) {
	w.sec = document.NewSection()
	i := 0
	for i < len(w.records) {
		rec := w.records[i]
		switch {
		case rec.tag == tagParaHeader && rec.level == 0:
			i = w.walkParagraph(i)
			continue
		case rec.tag == tagPageDef:
			w.applyPageDef(rec.data)
		case rec.tag == tagCtrlHeader && isBandCtrl(rec.data):
			i = w.walkBand(i)
			continue
		}
		i++
	}
	return w.sec, nil
}

// walkParagraph consumes a top-level paragraph and everything nested
// under it, including anchored tables, returning the next index.
func (w *sectionWalker) walkParagraph(start int) int {
	head := w.records[start]
	para := document.NewParagraph("")
	para.ParaShapeID = paraShapeRef(head.data)
	charShapeID := "0"

	i := start + 1
	for i < len(w.records) {
		rec := w.records[i]
		if rec.tag == tagParaHeader && rec.level <= head.level {
			break
		}
		switch rec.tag {
		case tagParaCharShape:
			charShapeID = firstCharShapeRef(rec.data)
		case tagParaText:
			if items := decodeParaText(rec.data); len(items) > 0 {
				para.Runs = append(para.Runs, &document.Run{CharShapeID: "0", Items: items})
			}
		case tagCtrlHeader:
			if isTableCtrl(rec.data) {
				tbl, next := w.walkTable(i)
				if tbl != nil {
					para.Tables = append(para.Tables, tbl)
				}
				i = next
				continue
			}
			if isBandCtrl(rec.data) {
				i = w.walkBand(i)
				continue
			}
		case tagPageDef:
			w.applyPageDef(rec.data)
		}
		i++
	}
	// The char shape record may trail the text record, so apply it once
	// the whole paragraph block is consumed.
	for _, r := range para.Runs {
		r.CharShapeID = charShapeID
	}
	w.sec.Paragraphs = append(w.sec.Paragraphs, para)
	return i
}

// walkTable consumes a table control block: the table record gives the
// grid size, then one list header per cell with its paragraphs nested
// below it.
func (w *sectionWalker) walkTable(start int) (*document.Table, int) {
	ctrl := w.records[start]
	var tbl *document.Table
	i := start + 1
	for i < len(w.records) {
		rec := w.records[i]
		if rec.level <= ctrl.level && (rec.tag == tagParaHeader || rec.tag == tagCtrlHeader) {
			break
		}
		switch rec.tag {
		case tagTable:
			tbl = parseTableRecord(rec.data)
		case tagListHeader:
			cell, next := w.walkCell(i, ctrl.level)
			if tbl != nil && cell != nil {
				tbl.Cells = append(tbl.Cells, cell)
			}
			i = next
			continue
		}
		i++
	}
	return tbl, i
}

func (w *sectionWalker) walkCell(start, tableLevel int) (*document.Cell, int) {
	list := w.records[start]
	cell := parseCellProps(list.data)
	i := start + 1
	for i < len(w.records) {
		rec := w.records[i]
		if rec.tag == tagListHeader && rec.level <= list.level {
			break
		}
		if rec.level <= tableLevel && (rec.tag == tagParaHeader || rec.tag == tagCtrlHeader) {
			break
		}
		if rec.tag == tagParaHeader {
			p := document.NewParagraph("")
			p.ParaShapeID = paraShapeRef(rec.data)
			if cell != nil {
				cell.Paragraphs = append(cell.Paragraphs, p)
			}
		}
		if rec.tag == tagParaText && cell != nil && len(cell.Paragraphs) > 0 {
			if items := decodeParaText(rec.data); len(items) > 0 {
				last := cell.Paragraphs[len(cell.Paragraphs)-1]
				last.Runs = append(last.Runs, &document.Run{CharShapeID: "0", Items: items})
			}
		}
		i++
	}
	if cell != nil && len(cell.Paragraphs) == 0 {
		cell.Paragraphs = []*document.Paragraph{document.NewParagraph("")}
	}
	return cell, i
}

// walkBand consumes a header or footer control and stores its text in
// the section props. Legacy bands carry no resolvable alignment.
func (w *sectionWalker) walkBand(start int) int {
	ctrl := w.records[start]
	footer := ctrlID(ctrl.data) == "foot"
	var lines []string
	i := start + 1
	for i < len(w.records) {
		rec := w.records[i]
		if rec.level <= ctrl.level {
			break
		}
		if rec.tag == tagParaText {
			var sb strings.Builder
			for _, item := range decodeParaText(rec.data) {
				if t, ok := item.(document.TextItem); ok {
					sb.WriteString(t.Text)
				}
			}
			if sb.Len() > 0 {
				lines = append(lines, sb.String())
			}
		}
		i++
	}
	text := strings.Join(lines, "\n")
	if footer {
		w.sec.Props.FooterText = text
	} else {
		w.sec.Props.HeaderText = text
	}
	return i
}

// applyPageDef maps the page definition record onto the section props.
func (w *sectionWalker) applyPageDef(data []byte) {
	if len(data) < 40 {
		return
	}
	u := func(off int) int { return int(binary.LittleEndian.Uint32(data[off:])) }
	p := &w.sec.Props
	p.PageWidth = u(0)
	p.PageHeight = u(4)
	p.MarginLeft = u(8)
	p.MarginRight = u(12)
	p.MarginTop = u(16)
	p.MarginBottom = u(20)
	p.MarginHeader = u(24)
	p.MarginFooter = u(28)
	p.Landscape = binary.LittleEndian.Uint32(data[36:])&0x3 == 1
}

// parseTableRecord reads the grid dimensions and margins from a table
// record.
func parseTableRecord(data []byte) *document.Table {
	if len(data) < 18 {
		return nil
	}
	rows := int(binary.LittleEndian.Uint16(data[4:6]))
	cols := int(binary.LittleEndian.Uint16(data[6:8]))
	if rows <= 0 || cols <= 0 {
		return nil
	}
	return &document.Table{
		BorderFillID: "1",
		RowCnt:       rows,
		ColCnt:       cols,
		CellSpacing:  int(int16(binary.LittleEndian.Uint16(data[8:10]))),
		InnerMargin: document.Margins{
			Left:   int(int16(binary.LittleEndian.Uint16(data[10:12]))),
			Right:  int(int16(binary.LittleEndian.Uint16(data[12:14]))),
			Top:    int(int16(binary.LittleEndian.Uint16(data[14:16]))),
			Bottom: int(int16(binary.LittleEndian.Uint16(data[16:18]))),
		},
		PageBreak: "CELL",
	}
}

// parseCellProps reads the cell address, spans, and size that follow the
// 6-byte list header prefix of a cell list header record.
func parseCellProps(data []byte) *document.Cell {
	if len(data) < 26 {
		return nil
	}
	u16 := func(off int) int { return int(binary.LittleEndian.Uint16(data[off:])) }
	cell := &document.Cell{
		Col:          u16(6),
		Row:          u16(8),
		ColSpan:      u16(10),
		RowSpan:      u16(12),
		Width:        int(binary.LittleEndian.Uint32(data[14:18])),
		Height:       int(binary.LittleEndian.Uint32(data[18:22])),
		BorderFillID: "1",
		VertAlign:    "CENTER",
	}
	if cell.ColSpan < 1 {
		cell.ColSpan = 1
	}
	if cell.RowSpan < 1 {
		cell.RowSpan = 1
	}
	if len(data) >= 32 {
		cell.BorderFillID = strconv.Itoa(u16(30))
	}
	return cell
}

// paraShapeRef reads the paragraph shape reference from a paragraph
// header record.
func paraShapeRef(data []byte) string {
	if len(data) < 6 {
		return "0"
	}
	return strconv.Itoa(int(binary.LittleEndian.Uint16(data[4:6])))
}

// firstCharShapeRef reads the char shape of the first position span from
// a para-char-shape record, which holds (position, shape ID) uint32
// pairs.
func firstCharShapeRef(data []byte) string {
	if len(data) < 8 {
		return "0"
	}
	return strconv.Itoa(int(binary.LittleEndian.Uint32(data[4:8])))
}

// ctrlID returns the 4-char control ID. The ID is stored as a
// little-endian uint32, so the bytes appear reversed in the stream.
func ctrlID(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	return string([]byte{data[3], data[2], data[1], data[0]})
}

func isTableCtrl(data []byte) bool {
	return ctrlID(data) == "tbl "
}

func isBandCtrl(data []byte) bool {
	id := ctrlID(data)
	return id == "head" || id == "foot"
}
