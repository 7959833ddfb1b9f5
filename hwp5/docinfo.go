package hwp5

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/openhwp/hwpview/document"
)

// Char shape attribute bits.
const (
	attrItalic    uint32 = 1 << 0
	attrBold      uint32 = 1 << 1
	attrUnderline uint32 = 0x3 << 2  // underline position, 0 means none
	attrStrikeout uint32 = 0x7 << 18 // strikeout kind, 0 means none
)

// parseDocInfo walks the DocInfo records and fills the header ref-lists.
// DocInfo entries are referenced by position, so each kind gets sequential
// string IDs starting at "0", replacing the seeded defaults.
func parseDocInfo(data []byte, hdr *document.Header) error {
	records, err := newRecordReader(data).all()
	if err != nil {
		return fmt.Errorf("reading DocInfo records: %w", err)
	}

	var faces, charShapes, paraShapes, styles int
	for _, rec := range records {
		switch rec.tag {
		case tagFaceName:
			if name := parseFaceName(rec.data); name != "" {
				hdr.Fontfaces[strconv.Itoa(faces)] = name
			}
			faces++
		case tagCharShape:
			if cs := parseCharShape(rec.data); cs != nil {
				hdr.CharShapes[strconv.Itoa(charShapes)] = cs
			}
			charShapes++
		case tagParaShape:
			if ps := parseParaShape(rec.data); ps != nil {
				hdr.ParaShapes[strconv.Itoa(paraShapes)] = ps
			}
			paraShapes++
		case tagStyle:
			if s := parseStyle(rec.data); s != nil {
				hdr.Styles[strconv.Itoa(styles)] = s
			}
			styles++
		}
	}
	return nil
}

// parseFaceName reads a font entry: a 1-byte attribute, a 2-byte name
// length, and the UTF-16LE name.
func parseFaceName(data []byte) string {
	if len(data) < 3 {
		return ""
	}
	nameLen := int(binary.LittleEndian.Uint16(data[1:3]))
	if 3+nameLen*2 > len(data) {
		return ""
	}
	return decodeUTF16(data[3 : 3+nameLen*2])
}

// parseCharShape reads the fixed 72-byte char shape layout: seven
// per-language font IDs, ratios, spacings, relative sizes, and offsets,
// then base height, attribute bits, shadow gaps, and colors.
func parseCharShape(data []byte) *document.CharShape {
	if len(data) < 64 {
		return nil
	}
	attrs := binary.LittleEndian.Uint32(data[46:50])
	cs := &document.CharShape{
		FaceID:    strconv.Itoa(int(binary.LittleEndian.Uint16(data[0:2]))),
		Spacing:   int(int8(data[21])),
		Height:    int(int32(binary.LittleEndian.Uint32(data[42:46]))),
		Bold:      attrs&attrBold != 0,
		Italic:    attrs&attrItalic != 0,
		TextColor: colorRef(binary.LittleEndian.Uint32(data[52:56])),
	}
	if attrs&attrUnderline != 0 {
		cs.Underline = &document.LineMark{
			Type:  "SOLID",
			Color: colorRef(binary.LittleEndian.Uint32(data[56:60])),
		}
	}
	if attrs&attrStrikeout != 0 {
		cs.Strikeout = &document.LineMark{Type: "SOLID", Color: cs.TextColor}
	}
	if shade := binary.LittleEndian.Uint32(data[60:64]); shade != 0xFFFFFFFF {
		cs.Highlight = colorRef(shade)
	}
	return cs
}

// parseParaShape reads the paragraph shape layout: a 4-byte attribute
// word followed by margins, indent, spacing, and line spacing.
func parseParaShape(data []byte) *document.ParaShape {
	if len(data) < 28 {
		return nil
	}
	attrs := binary.LittleEndian.Uint32(data[0:4])
	ps := &document.ParaShape{
		Align:       paraAlign(attrs),
		MarginLeft:  int(int32(binary.LittleEndian.Uint32(data[4:8]))),
		MarginRight: int(int32(binary.LittleEndian.Uint32(data[8:12]))),
		Indent:      int(int32(binary.LittleEndian.Uint32(data[12:16]))),
		SpaceBefore: int(int32(binary.LittleEndian.Uint32(data[16:20]))),
		SpaceAfter:  int(int32(binary.LittleEndian.Uint32(data[20:24]))),
	}
	// Line spacing type lives in bits 0-1; only the percent kind maps.
	if attrs&0x3 == 0 {
		ps.LineSpacing = int(int32(binary.LittleEndian.Uint32(data[24:28])))
	}
	return ps
}

// paraAlign maps attribute bits 2-4 to the alignment keywords.
func paraAlign(attrs uint32) string {
	switch (attrs >> 2) & 0x7 {
	case 1:
		return "LEFT"
	case 2:
		return "RIGHT"
	case 3:
		return "CENTER"
	default:
		return "JUSTIFY"
	}
}

// parseStyle reads a style entry: UTF-16LE local and latin names, then
// type, next-style, language, and the para/char shape references.
func parseStyle(data []byte) *document.Style {
	if len(data) < 2 {
		return nil
	}
	offset := 0
	name, n := readPString(data, offset)
	offset = n
	latin, n := readPString(data, offset)
	offset = n
	if name == "" {
		name = latin
	}
	s := &document.Style{Name: name}

	// type (1) + next style (1) + language (2)
	offset += 4
	if offset+4 <= len(data) {
		s.ParaShapeID = strconv.Itoa(int(binary.LittleEndian.Uint16(data[offset : offset+2])))
		s.CharShapeID = strconv.Itoa(int(binary.LittleEndian.Uint16(data[offset+2 : offset+4])))
	}
	return s
}

// readPString reads a length-prefixed UTF-16LE string at offset and
// returns it with the offset past its end.
func readPString(data []byte, offset int) (string, int) {
	if offset+2 > len(data) {
		return "", len(data)
	}
	n := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+n*2 > len(data) {
		return "", len(data)
	}
	return decodeUTF16(data[offset : offset+n*2]), offset + n*2
}

// colorRef converts a COLORREF (0x00BBGGRR) to "#RRGGBB".
func colorRef(c uint32) string {
	return fmt.Sprintf("#%02X%02X%02X", c&0xFF, (c>>8)&0xFF, (c>>16)&0xFF)
}
