package hwp5

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func paraHeaderData(paraShapeRef uint16) []byte {
	data := make([]byte, 22)
	binary.LittleEndian.PutUint16(data[4:6], paraShapeRef)
	return data
}

func paraTextData(text string) []byte {
	data := utf16Bytes(text)
	return append(data, controlChar(charPara)...)
}

func ctrlHeaderData(id string) []byte {
	// Control IDs are stored as little-endian uint32s, bytes reversed.
	return []byte{id[3], id[2], id[1], id[0]}
}

func pageDefData(width, height int, landscape bool) []byte {
	data := make([]byte, 40)
	u := func(off, v int) { binary.LittleEndian.PutUint32(data[off:], uint32(v)) }
	u(0, width)
	u(4, height)
	u(8, 8504)
	u(12, 8504)
	u(16, 5668)
	u(20, 4252)
	u(24, 4252)
	u(28, 4252)
	if landscape {
		u(36, 1)
	}
	return data
}

func tableData(rows, cols int) []byte {
	data := make([]byte, 18)
	binary.LittleEndian.PutUint16(data[4:6], uint16(rows))
	binary.LittleEndian.PutUint16(data[6:8], uint16(cols))
	binary.LittleEndian.PutUint16(data[10:12], 141) // cell padding
	return data
}

func cellListData(col, row, colSpan, rowSpan int, width uint32, borderFill uint16) []byte {
	data := make([]byte, 32)
	u16 := func(off, v int) { binary.LittleEndian.PutUint16(data[off:], uint16(v)) }
	u16(0, 1) // paragraph count
	u16(6, col)
	u16(8, row)
	u16(10, colSpan)
	u16(12, rowSpan)
	binary.LittleEndian.PutUint32(data[14:18], width)
	binary.LittleEndian.PutUint32(data[18:22], 282)
	binary.LittleEndian.PutUint16(data[30:32], borderFill)
	return data
}

func TestBuildSectionParagraphs(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("first"))...)
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(2))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("second"))...)

	sec, err := buildSection(stream)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sec.Paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(sec.Paragraphs))
	}
	if sec.Paragraphs[0].Text() != "first" {
		t.Errorf("Expected 'first', got %q", sec.Paragraphs[0].Text())
	}
	if sec.Paragraphs[1].Text() != "second" {
		t.Errorf("Expected 'second', got %q", sec.Paragraphs[1].Text())
	}
	if sec.Paragraphs[1].ParaShapeID != "2" {
		t.Errorf("Expected para shape ref 2, got %q", sec.Paragraphs[1].ParaShapeID)
	}
}

func TestBuildSectionCharShapeRef(t *testing.T) {
	charRef := make([]byte, 8)
	binary.LittleEndian.PutUint32(charRef[4:8], 3)

	var stream []byte
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("styled"))...)
	stream = append(stream, encodeRecord(tagParaCharShape, 1, charRef)...)

	sec, err := buildSection(stream)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sec.Paragraphs) != 1 || len(sec.Paragraphs[0].Runs) != 1 {
		t.Fatal("Expected one paragraph with one run")
	}
	if got := sec.Paragraphs[0].Runs[0].CharShapeID; got != "3" {
		t.Errorf("Expected char shape ref 3, got %q", got)
	}
	// The char shape record may also precede the text record.
	var stream2 []byte
	stream2 = append(stream2, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream2 = append(stream2, encodeRecord(tagParaCharShape, 1, charRef)...)
	stream2 = append(stream2, encodeRecord(tagParaText, 1, paraTextData("styled"))...)

	sec2, err := buildSection(stream2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := sec2.Paragraphs[0].Runs[0].CharShapeID; got != "3" {
		t.Errorf("Expected char shape ref 3, got %q", got)
	}
}

func TestBuildSectionPageDef(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagCtrlHeader, 1, ctrlHeaderData("secd"))...)
	stream = append(stream, encodeRecord(tagPageDef, 2, pageDefData(84188, 59528, true))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("content"))...)

	sec, err := buildSection(stream)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sec.Props.PageWidth != 84188 || sec.Props.PageHeight != 59528 {
		t.Errorf("Expected 84188x59528, got %dx%d", sec.Props.PageWidth, sec.Props.PageHeight)
	}
	if !sec.Props.Landscape {
		t.Error("Expected landscape orientation")
	}
	if sec.Props.MarginLeft != 8504 || sec.Props.MarginTop != 5668 {
		t.Errorf("Expected margins 8504/5668, got %d/%d",
			sec.Props.MarginLeft, sec.Props.MarginTop)
	}
	if sec.Paragraphs[0].Text() != "content" {
		t.Errorf("Expected 'content', got %q", sec.Paragraphs[0].Text())
	}
}

func TestBuildSectionTable(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("before"))...)
	stream = append(stream, encodeRecord(tagCtrlHeader, 1, ctrlHeaderData("tbl "))...)
	stream = append(stream, encodeRecord(tagTable, 2, tableData(1, 2))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, cellListData(0, 0, 1, 1, 4000, 1))...)
	stream = append(stream, encodeRecord(tagParaHeader, 3, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 4, paraTextData("left"))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, cellListData(1, 0, 1, 1, 4000, 2))...)
	stream = append(stream, encodeRecord(tagParaHeader, 3, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 4, paraTextData("right"))...)
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("after"))...)

	sec, err := buildSection(stream)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sec.Paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(sec.Paragraphs))
	}
	if len(sec.Paragraphs[0].Tables) != 1 {
		t.Fatalf("Expected 1 anchored table, got %d", len(sec.Paragraphs[0].Tables))
	}

	tbl := sec.Paragraphs[0].Tables[0]
	if tbl.RowCnt != 1 || tbl.ColCnt != 2 {
		t.Errorf("Expected a 1x2 grid, got %dx%d", tbl.RowCnt, tbl.ColCnt)
	}
	if tbl.InnerMargin.Left != 141 {
		t.Errorf("Expected inner margin 141, got %d", tbl.InnerMargin.Left)
	}
	if len(tbl.Cells) != 2 {
		t.Fatalf("Expected 2 cells, got %d", len(tbl.Cells))
	}
	if got := tbl.Cell(0, 0).Text(); got != "left" {
		t.Errorf("Expected cell text 'left', got %q", got)
	}
	if got := tbl.Cell(0, 1).Text(); got != "right" {
		t.Errorf("Expected cell text 'right', got %q", got)
	}
	if tbl.Cell(0, 0).Width != 4000 {
		t.Errorf("Expected cell width 4000, got %d", tbl.Cell(0, 0).Width)
	}
	if tbl.Cell(0, 1).BorderFillID != "2" {
		t.Errorf("Expected border fill 2, got %q", tbl.Cell(0, 1).BorderFillID)
	}
	if sec.Paragraphs[1].Text() != "after" {
		t.Errorf("Expected 'after', got %q", sec.Paragraphs[1].Text())
	}
}

func TestBuildSectionMergedCells(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagCtrlHeader, 1, ctrlHeaderData("tbl "))...)
	stream = append(stream, encodeRecord(tagTable, 2, tableData(2, 2))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, cellListData(0, 0, 2, 1, 8000, 1))...)
	stream = append(stream, encodeRecord(tagParaHeader, 3, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 4, paraTextData("span"))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, cellListData(0, 1, 1, 1, 4000, 1))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, cellListData(1, 1, 1, 1, 4000, 1))...)

	sec, err := buildSection(stream)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tbl := sec.Paragraphs[0].Tables[0]
	if len(tbl.Cells) != 3 {
		t.Fatalf("Expected 3 cells, got %d", len(tbl.Cells))
	}
	span := tbl.Cell(0, 0)
	if span.ColSpan != 2 || span.RowSpan != 1 {
		t.Errorf("Expected a 1x2 span, got %dx%d", span.RowSpan, span.ColSpan)
	}
	if span.Text() != "span" {
		t.Errorf("Expected 'span', got %q", span.Text())
	}
	// Content-less cells still carry one empty paragraph.
	if len(tbl.Cell(1, 1).Paragraphs) != 1 {
		t.Errorf("Expected 1 paragraph in the empty cell, got %d",
			len(tbl.Cell(1, 1).Paragraphs))
	}
}

func TestBuildSectionBands(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeRecord(tagParaHeader, 0, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagCtrlHeader, 1, ctrlHeaderData("head"))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, make([]byte, 6))...)
	stream = append(stream, encodeRecord(tagParaHeader, 2, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 3, paraTextData("Confidential"))...)
	stream = append(stream, encodeRecord(tagCtrlHeader, 1, ctrlHeaderData("foot"))...)
	stream = append(stream, encodeRecord(tagListHeader, 2, make([]byte, 6))...)
	stream = append(stream, encodeRecord(tagParaHeader, 2, paraHeaderData(0))...)
	stream = append(stream, encodeRecord(tagParaText, 3, paraTextData("Page"))...)
	stream = append(stream, encodeRecord(tagParaText, 1, paraTextData("body"))...)

	sec, err := buildSection(stream)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sec.Props.HeaderText != "Confidential" {
		t.Errorf("Expected header 'Confidential', got %q", sec.Props.HeaderText)
	}
	if sec.Props.FooterText != "Page" {
		t.Errorf("Expected footer 'Page', got %q", sec.Props.FooterText)
	}
	if sec.Paragraphs[0].Text() != "body" {
		t.Errorf("Expected 'body', got %q", sec.Paragraphs[0].Text())
	}
}

func TestParseFileHeaderValid(t *testing.T) {
	data := make([]byte, fileHeaderSize)
	copy(data, signature)
	data[32] = 0 // revision
	data[33] = 3 // build
	data[34] = 0 // minor
	data[35] = 5 // major
	binary.LittleEndian.PutUint32(data[36:40], flagCompressed)

	h, err := parseFileHeader(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if h.version() != "5.0.3.0" {
		t.Errorf("Expected version 5.0.3.0, got %s", h.version())
	}
	if !h.compressed() {
		t.Error("Expected compressed flag")
	}
	if h.protected() {
		t.Error("Expected no protection flags")
	}
}

func TestParseFileHeaderRejectsBadSignature(t *testing.T) {
	data := make([]byte, fileHeaderSize)
	copy(data, "Not An HWP File")
	if _, err := parseFileHeader(data); err == nil {
		t.Error("Expected error for bad signature, got nil")
	}
	if _, err := parseFileHeader(data[:10]); err == nil {
		t.Error("Expected error for short header, got nil")
	}
}

func TestProtectedFlags(t *testing.T) {
	for _, flag := range []uint32{flagEncrypted, flagDRM} {
		data := make([]byte, fileHeaderSize)
		copy(data, signature)
		binary.LittleEndian.PutUint32(data[36:40], flag)
		h, err := parseFileHeader(data)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !h.protected() {
			t.Errorf("Expected flag 0x%X to mark the document protected", flag)
		}
	}
}

func TestReadRejectsNonCFB(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("plain text, not a compound file"))); err == nil {
		t.Error("Expected error for a non-CFB input, got nil")
	}
}

func TestSectionStreamOrder(t *testing.T) {
	names := []string{"BodyText/Section10", "BodyText/Section2", "BodyText/Section0"}
	if sectionIndex(names[0]) != 10 || sectionIndex(names[1]) != 2 {
		t.Errorf("Expected indices 10/2, got %d/%d",
			sectionIndex(names[0]), sectionIndex(names[1]))
	}
}
