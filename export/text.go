package export

import (
	"strings"

	"github.com/openhwp/hwpview/view"
)

// Text returns the plain-text projection: one line per paragraph, table
// rows as tab-separated cell text, bands and notes included.
func Text(v *view.DocumentView) string {
	var sb strings.Builder
	for i, sec := range v.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		if sec.Header != nil && sec.Header.Text != "" {
			sb.WriteString(sec.Header.Text + "\n")
		}
		for _, pv := range sec.Paragraphs {
			if text := pv.Text(); text != "" {
				sb.WriteString(text + "\n")
			}
			for _, tv := range pv.Tables {
				sb.WriteString(tableText(tv))
			}
		}
		for _, note := range sec.Footnotes {
			sb.WriteString(note.Marker + ") " + note.Text + "\n")
		}
		for _, note := range sec.Endnotes {
			sb.WriteString(note.Marker + ") " + note.Text + "\n")
		}
		if sec.Footer != nil && sec.Footer.Text != "" {
			sb.WriteString(sec.Footer.Text + "\n")
		}
	}
	return sb.String()
}

// tableText renders a grid as tab-separated rows. Non-anchor positions
// repeat nothing; each anchor contributes once at its own position.
func tableText(tv *view.TableView) string {
	var sb strings.Builder
	for _, row := range tv.Cells {
		first := true
		for _, cell := range row {
			if !cell.IsAnchor {
				continue
			}
			if !first {
				sb.WriteString("\t")
			}
			first = false
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
