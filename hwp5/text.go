package hwp5

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/openhwp/hwpview/document"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUTF16(data []byte) string {
	out, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// decodeParaText turns a ParaText payload into run items. Plain spans
// become text items; tab, line-break, and fixed-width-space controls map
// to their item kinds; other controls are dropped, skipping the 14 extra
// bytes that extended and inline controls carry.
func decodeParaText(data []byte) []document.RunItem {
	var items []document.RunItem
	var sb strings.Builder
	spanStart := 0

	flushSpan := func(end int) {
		if spanStart < end {
			sb.WriteString(decodeUTF16(data[spanStart:end]))
		}
	}
	flushText := func() {
		if sb.Len() > 0 {
			items = append(items, document.TextItem{Text: sb.String()})
			sb.Reset()
		}
	}

	i := 0
	for i+1 < len(data) {
		ch := binary.LittleEndian.Uint16(data[i:])
		if ch >= 0x0020 {
			i += 2
			continue
		}
		flushSpan(i)
		i += 2

		switch ch {
		case charTab:
			flushText()
			items = append(items, document.TabItem{})
		case charLineBreak:
			flushText()
			items = append(items, document.LineBreakItem{})
		case charFWSpace:
			flushText()
			items = append(items, document.FWSpaceItem{})
		case charLineJoin, charPara:
			// Unusable padding and the paragraph terminator; the record
			// boundary already splits paragraphs.
		case charHyphen:
			sb.WriteByte('-')
		case charNBSP:
			sb.WriteByte(' ')
		default:
			if extraControlBytes(ch) {
				if i+14 <= len(data) {
					i += 14
				} else {
					i = len(data)
				}
			}
		}
		spanStart = i
	}
	flushSpan(len(data))
	flushText()
	return items
}

// extraControlBytes reports whether an inline control code is followed by
// a 14-byte payload. Extended controls (1-3, 11-18, 21-23) and inline
// controls (4-9, 19-20) are; char controls (0, 10, 13) are not.
func extraControlBytes(ch uint16) bool {
	switch {
	case ch >= 1 && ch <= 9:
		return true
	case ch >= 11 && ch <= 12:
		return true
	case ch >= 14 && ch <= 23:
		return true
	}
	return false
}
