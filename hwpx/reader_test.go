package hwpx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/openhwp/hwpview/document"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<opf:package xmlns:opf="http://www.idpf.org/2007/opf/" version="1.0">
  <opf:manifest>
    <opf:item id="header" href="Contents/header.xml" media-type="application/xml"/>
    <opf:item id="section0" href="Contents/section0.xml" media-type="application/xml"/>
  </opf:manifest>
  <opf:spine>
    <opf:itemref idref="section0"/>
  </opf:spine>
</opf:package>`

const testHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head" xmlns:hc="http://www.hancom.co.kr/hwpml/2011/core" version="1.31" secCnt="1">
  <hh:refList>
    <hh:fontfaces itemCnt="1">
      <hh:fontface lang="HANGUL" fontCnt="1">
        <hh:font id="0" face="Batang" type="TTF"/>
      </hh:fontface>
    </hh:fontfaces>
    <hh:borderFills itemCnt="1">
      <hh:borderFill id="1">
        <hh:leftBorder type="SOLID" width="0.12 mm" color="#000000"/>
        <hh:rightBorder type="SOLID" width="0.12 mm" color="#000000"/>
        <hh:topBorder type="NONE" width="0.12 mm" color="#000000"/>
        <hh:bottomBorder type="SOLID" width="0.12 mm" color="#000000"/>
        <hh:fillBrush><hh:winBrush faceColor="#FFFF00"/></hh:fillBrush>
      </hh:borderFill>
    </hh:borderFills>
    <hh:charProperties itemCnt="2">
      <hh:charPr id="0" height="1000" textColor="#000000">
        <hh:fontRef hangul="0" latin="0"/>
      </hh:charPr>
      <hh:charPr id="1" height="1200" textColor="#FF0000" shadeColor="#FFFF00">
        <hh:fontRef hangul="0" latin="0"/>
        <hh:spacing hangul="-5"/>
        <hh:bold/>
        <hh:underline type="SOLID" color="#FF0000"/>
      </hh:charPr>
    </hh:charProperties>
    <hh:paraProperties itemCnt="2">
      <hh:paraPr id="0">
        <hh:align horizontal="JUSTIFY"/>
      </hh:paraPr>
      <hh:paraPr id="1">
        <hh:align horizontal="CENTER"/>
        <hh:margin>
          <hc:intent value="800" unit="HWPUNIT"/>
          <hc:left value="400" unit="HWPUNIT"/>
          <hc:prev value="200" unit="HWPUNIT"/>
        </hh:margin>
        <hh:lineSpacing type="PERCENT" value="180"/>
      </hh:paraPr>
    </hh:paraProperties>
    <hh:styles itemCnt="1">
      <hh:style id="0" type="PARA" name="Normal" charPrIDRef="0" paraPrIDRef="0"/>
    </hh:styles>
  </hh:refList>
</hh:head>`

// buildContainer assembles an in-memory HWPX container from part
// contents keyed by path.
func buildContainer(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("creating mimetype entry: %v", err)
	}
	w.Write([]byte(mimeType))
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing container: %v", err)
	}
	return buf.Bytes()
}

func sectionContainer(t *testing.T, sectionXML string) []byte {
	t.Helper()
	return buildContainer(t, map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/header.xml":  testHeader,
		"Contents/section0.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph" xmlns:hc="http://www.hancom.co.kr/hwpml/2011/core">` + sectionXML + `</hs:sec>`,
	})
}

func TestReadHeaderRefLists(t *testing.T) {
	data := sectionContainer(t, `<hp:p paraPrIDRef="0" styleIDRef="0"><hp:run charPrIDRef="0"><hp:t>x</hp:t></hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	h := doc.Header()
	if h == nil {
		t.Fatal("Expected a header part")
	}
	if got := h.Fontfaces["0"]; got != "Batang" {
		t.Errorf("fontface 0 = %q, want %q", got, "Batang")
	}

	cs := h.CharShapes["1"]
	if cs == nil {
		t.Fatal("char shape 1 missing")
	}
	if !cs.Bold || cs.Italic {
		t.Errorf("char shape 1 bold=%v italic=%v, want bold only", cs.Bold, cs.Italic)
	}
	if cs.Height != 1200 || cs.TextColor != "#FF0000" || cs.Highlight != "#FFFF00" {
		t.Errorf("char shape 1 = %+v", cs)
	}
	if cs.Spacing != -5 {
		t.Errorf("spacing = %d, want -5", cs.Spacing)
	}
	if cs.Underline == nil || cs.Underline.Type != "SOLID" {
		t.Errorf("underline = %+v", cs.Underline)
	}
	if cs.Strikeout != nil {
		t.Error("char shape 1 has no strikeout marker")
	}

	ps := h.ParaShapes["1"]
	if ps == nil {
		t.Fatal("para shape 1 missing")
	}
	if ps.Align != "CENTER" || ps.LineSpacing != 180 {
		t.Errorf("para shape 1 = %+v", ps)
	}
	if ps.Indent != 800 || ps.MarginLeft != 400 || ps.SpaceBefore != 200 {
		t.Errorf("para shape 1 margins = %+v", ps)
	}

	bf := h.BorderFills["1"]
	if bf == nil {
		t.Fatal("border fill 1 missing")
	}
	if bf.Top == nil || bf.Top.Type != "NONE" {
		t.Errorf("top border = %+v", bf.Top)
	}
	if bf.FillColor != "#FFFF00" {
		t.Errorf("fill color = %q", bf.FillColor)
	}

	st := h.Styles["0"]
	if st == nil || st.Name != "Normal" || st.CharShapeID != "0" {
		t.Errorf("style 0 = %+v", st)
	}
}

func TestReadParagraphText(t *testing.T) {
	data := sectionContainer(t, `
<hp:p paraPrIDRef="0" styleIDRef="0">
  <hp:run charPrIDRef="1"><hp:t>Hello</hp:t></hp:run>
  <hp:run charPrIDRef="0"><hp:t> world</hp:t></hp:run>
</hp:p>
<hp:p paraPrIDRef="1"><hp:run charPrIDRef="0"><hp:t>second</hp:t></hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	sec := doc.Sections[0]
	if len(sec.Paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(sec.Paragraphs))
	}
	if got := sec.Paragraphs[0].Text(); got != "Hello world" {
		t.Errorf("paragraph 0 text = %q", got)
	}
	if got := sec.Paragraphs[0].Runs[0].CharShapeID; got != "1" {
		t.Errorf("run 0 char shape = %q, want %q", got, "1")
	}
	if got := sec.Paragraphs[1].ParaShapeID; got != "1" {
		t.Errorf("paragraph 1 para shape = %q, want %q", got, "1")
	}
}

func TestReadMixedInlineContent(t *testing.T) {
	data := sectionContainer(t, `
<hp:p><hp:run charPrIDRef="0"><hp:t>a<hp:tab/>b</hp:t><hp:lineBreak/><hp:t>c</hp:t><hp:fwSpace/></hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	run := doc.Sections[0].Paragraphs[0].Runs[0]
	want := []document.RunItem{
		document.TextItem{Text: "a"},
		document.TabItem{},
		document.TextItem{Text: "b"},
		document.LineBreakItem{},
		document.TextItem{Text: "c"},
		document.FWSpaceItem{},
	}
	if len(run.Items) != len(want) {
		t.Fatalf("Expected %d items, got %d (%#v)", len(want), len(run.Items), run.Items)
	}
	for i, item := range want {
		if run.Items[i] != item {
			t.Errorf("item %d = %#v, want %#v", i, run.Items[i], item)
		}
	}
	if got := run.Text(); got != "a\tb\nc　" {
		t.Errorf("run text = %q", got)
	}
}

func TestReadHyperlinkField(t *testing.T) {
	data := sectionContainer(t, `
<hp:p><hp:run charPrIDRef="0">
  <hp:ctrl><hp:fieldBegin type="HYPERLINK" id="7">
    <hp:parameters count="1"><hp:stringParam name="Command">https://example.com;1;0;0;</hp:stringParam></hp:parameters>
  </hp:fieldBegin></hp:ctrl>
  <hp:t>link</hp:t>
  <hp:ctrl><hp:fieldEnd beginIDRef="7"/></hp:ctrl>
</hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	items := doc.Sections[0].Paragraphs[0].Runs[0].Items
	fb, ok := items[0].(document.FieldBeginItem)
	if !ok {
		t.Fatalf("item 0 = %#v, want FieldBeginItem", items[0])
	}
	if fb.Kind != "HYPERLINK" {
		t.Errorf("field kind = %q", fb.Kind)
	}
	if len(fb.Params) != 1 || fb.Params[0].Name != "Command" {
		t.Fatalf("params = %+v", fb.Params)
	}
	if fb.Params[0].Value != "https://example.com;1;0;0;" {
		t.Errorf("command = %q", fb.Params[0].Value)
	}
	if _, ok := items[len(items)-1].(document.FieldEndItem); !ok {
		t.Errorf("last item = %#v, want FieldEndItem", items[len(items)-1])
	}
}

func TestReadFootnote(t *testing.T) {
	data := sectionContainer(t, `
<hp:p><hp:run charPrIDRef="0"><hp:t>body</hp:t>
  <hp:ctrl><hp:footNote><hp:subList><hp:p><hp:run charPrIDRef="0"><hp:t>note text</hp:t></hp:run></hp:p></hp:subList></hp:footNote></hp:ctrl>
</hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	items := doc.Sections[0].Paragraphs[0].Runs[0].Items
	var note *document.NoteItem
	for _, item := range items {
		if n, ok := item.(document.NoteItem); ok {
			note = &n
		}
	}
	if note == nil {
		t.Fatal("Expected a NoteItem")
	}
	if note.Endnote {
		t.Error("Expected a footnote, got an endnote")
	}
	if note.Text != "note text" {
		t.Errorf("note text = %q", note.Text)
	}
}

func TestReadTable(t *testing.T) {
	data := sectionContainer(t, `
<hp:p><hp:run charPrIDRef="0"><hp:tbl rowCnt="2" colCnt="2" cellSpacing="0" borderFillIDRef="1" pageBreak="CELL" repeatHeader="1">
  <hp:sz width="8000" height="2000"/>
  <hp:inMargin left="141" right="141" top="141" bottom="141"/>
  <hp:outMargin left="0" right="0" top="0" bottom="0"/>
  <hp:tr>
    <hp:tc borderFillIDRef="1">
      <hp:subList vertAlign="CENTER"><hp:p><hp:run charPrIDRef="0"><hp:t>wide</hp:t></hp:run></hp:p></hp:subList>
      <hp:cellAddr colAddr="0" rowAddr="0"/><hp:cellSpan colSpan="2" rowSpan="1"/><hp:cellSz width="8000" height="1000"/>
    </hp:tc>
  </hp:tr>
  <hp:tr>
    <hp:tc borderFillIDRef="1">
      <hp:subList vertAlign="TOP"><hp:p><hp:run charPrIDRef="0"><hp:t>a</hp:t></hp:run></hp:p></hp:subList>
      <hp:cellAddr colAddr="0" rowAddr="1"/><hp:cellSpan colSpan="1" rowSpan="1"/><hp:cellSz width="4000" height="1000"/>
    </hp:tc>
    <hp:tc borderFillIDRef="1">
      <hp:subList vertAlign="TOP"><hp:p><hp:run charPrIDRef="0"><hp:t>b</hp:t></hp:run></hp:p></hp:subList>
      <hp:cellAddr colAddr="1" rowAddr="1"/><hp:cellSpan colSpan="1" rowSpan="1"/><hp:cellSz width="4000" height="1000"/>
    </hp:tc>
  </hp:tr>
</hp:tbl></hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	p := doc.Sections[0].Paragraphs[0]
	if len(p.Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(p.Tables))
	}
	tbl := p.Tables[0]
	if tbl.RowCnt != 2 || tbl.ColCnt != 2 {
		t.Errorf("table = %dx%d", tbl.RowCnt, tbl.ColCnt)
	}
	if tbl.Width != 8000 || !tbl.RepeatHeader || tbl.PageBreak != "CELL" {
		t.Errorf("table props = %+v", tbl)
	}
	if tbl.InnerMargin.Left != 141 {
		t.Errorf("inner margin = %+v", tbl.InnerMargin)
	}
	if len(tbl.Cells) != 3 {
		t.Fatalf("Expected 3 cells, got %d", len(tbl.Cells))
	}

	merged := tbl.Cell(0, 0)
	if merged == nil || merged.ColSpan != 2 {
		t.Fatalf("merged cell = %+v", merged)
	}
	if got := merged.Text(); got != "wide" {
		t.Errorf("merged cell text = %q", got)
	}
	if merged.VertAlign != "CENTER" {
		t.Errorf("vertAlign = %q", merged.VertAlign)
	}
	if c := tbl.Cell(1, 1); c == nil || c.Text() != "b" {
		t.Errorf("cell (1,1) = %+v", c)
	}
}

func TestReadSectionProps(t *testing.T) {
	data := sectionContainer(t, `
<hp:p><hp:run charPrIDRef="0">
  <hp:secPr>
    <hp:pagePr landscape="1" width="84188" height="59528">
      <hp:margin header="4252" footer="4252" left="8504" right="8504" top="5668" bottom="4252"/>
    </hp:pagePr>
    <hp:colPr colCount="2" sameGap="1000"/>
    <hp:startNum page="5"/>
    <hp:pageNum formatType="ROMAN"/>
  </hp:secPr>
  <hp:t>content</hp:t>
</hp:run></hp:p>`)
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	props := doc.Sections[0].Props
	if props.PageWidth != 84188 || props.PageHeight != 59528 || !props.Landscape {
		t.Errorf("page geometry = %+v", props)
	}
	if props.Columns != 2 || props.ColumnGap != 1000 {
		t.Errorf("columns = %d gap %d", props.Columns, props.ColumnGap)
	}
	if props.PageNumStart != 5 || props.PageNumFormat != "ROMAN" {
		t.Errorf("page numbering = %+v", props)
	}
	// The setup run still carries body text.
	if got := doc.Sections[0].Paragraphs[0].Text(); got != "content" {
		t.Errorf("paragraph text = %q", got)
	}
}

func TestReadWithoutManifestFallsBackToScan(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"Contents/header.xml":   testHeader,
		"Contents/section0.xml": `<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph"><hp:p><hp:run charPrIDRef="0"><hp:t>scanned</hp:t></hp:run></hp:p></hs:sec>`,
	})
	doc, err := Read(data)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got := doc.Sections[0].Paragraphs[0].Text(); got != "scanned" {
		t.Errorf("paragraph text = %q", got)
	}
	if doc.Header() == nil || doc.Header().CharShapes["1"] == nil {
		t.Error("header part not located without a manifest")
	}
}

func TestReadNoSections(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"Contents/header.xml": testHeader,
	})
	if _, err := Read(data); err == nil {
		t.Error("Expected an error for a container with no sections")
	}
}

func TestReadNotZip(t *testing.T) {
	if _, err := Read([]byte("not a zip file")); err == nil {
		t.Error("Expected an error for non-ZIP input")
	}
}
