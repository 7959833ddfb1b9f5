package export

import (
	"strings"

	"github.com/openhwp/hwpview/inline"
	"github.com/openhwp/hwpview/view"
)

// Markdown returns the Markdown projection. Character styles map to
// inline markers (bold, italic, strike), hyperlink segments become
// links, and tables render with the first row as the header.
func Markdown(v *view.DocumentView) string {
	var sb strings.Builder
	for _, sec := range v.Sections {
		if sec.Header != nil && sec.Header.Text != "" {
			sb.WriteString("> " + sec.Header.Text + "\n\n")
		}
		for _, pv := range sec.Paragraphs {
			if text := strings.TrimSpace(markdownInline(pv.Segments)); text != "" {
				sb.WriteString(text + "\n\n")
			}
			for _, tv := range pv.Tables {
				sb.WriteString(markdownTable(tv))
			}
			for _, iv := range pv.Images {
				sb.WriteString("![" + iv.BinDataID + "](" + iv.BinDataID + ")\n\n")
			}
		}
		writeMarkdownNotes(&sb, sec.Footnotes)
		writeMarkdownNotes(&sb, sec.Endnotes)
	}
	return sb.String()
}

func writeMarkdownNotes(sb *strings.Builder, notes []view.NoteView) {
	for _, note := range notes {
		sb.WriteString("[^" + note.Marker + "]: " + note.Text + "\n")
	}
	if len(notes) > 0 {
		sb.WriteString("\n")
	}
}

// markdownInline renders segments with style markers. Line breaks become
// hard breaks; tabs and full-width spaces flatten to plain spaces.
func markdownInline(segments []view.RunSegment) string {
	var sb strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case inline.KindTab, inline.KindFWSpace:
			sb.WriteString(" ")
		case inline.KindLineBreak:
			sb.WriteString("  \n")
		case inline.KindText:
			sb.WriteString(markdownSpan(seg))
		}
	}
	return sb.String()
}

func markdownSpan(seg view.RunSegment) string {
	text := seg.Text
	if text == "" {
		return ""
	}
	if seg.Style.Bold {
		text = "**" + text + "**"
	}
	if seg.Style.Italic {
		text = "*" + text + "*"
	}
	if seg.Style.Strike {
		text = "~~" + text + "~~"
	}
	if seg.Hyperlink != "" {
		text = "[" + text + "](" + seg.Hyperlink + ")"
	}
	return text
}

// TableMarkdown renders a single table view as Markdown.
func TableMarkdown(tv *view.TableView) string {
	return markdownTable(tv)
}

// markdownTable renders the grid with the first row as the header row.
// Merged continuations repeat their anchor's text so every column stays
// addressable, the way spreadsheet-style Markdown expects.
func markdownTable(tv *view.TableView) string {
	if tv.RowCount == 0 || tv.ColCount == 0 {
		return ""
	}
	var sb strings.Builder
	for i, row := range tv.Cells {
		sb.WriteString("|")
		for _, cell := range row {
			text := cellText(tv, cell)
			text = strings.ReplaceAll(text, "\n", " ")
			text = strings.ReplaceAll(text, "|", "\\|")
			sb.WriteString(" " + strings.TrimSpace(text) + " |")
		}
		sb.WriteString("\n")
		if i == 0 {
			sb.WriteString("|")
			for range row {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func cellText(tv *view.TableView, cell view.CellView) string {
	if cell.IsAnchor {
		return cell.Text
	}
	return tv.Cells[cell.AnchorRow][cell.AnchorCol].Text
}
