package export

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/openhwp/hwpview/inline"
	"github.com/openhwp/hwpview/view"
)

// HTML returns the HTML projection as a string.
func HTML(v *view.DocumentView) (string, error) {
	var sb strings.Builder
	if err := WriteHTML(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteHTML builds an HTML node tree for the view and renders it to w.
// Styled segments map to strong/em/u/s elements and hyperlink segments
// to anchors; merged cells carry rowspan/colspan attributes.
func WriteHTML(w io.Writer, v *view.DocumentView) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlNode := element(atom.Html, nil)
	root.AppendChild(htmlNode)

	head := element(atom.Head, nil)
	head.AppendChild(element(atom.Meta, map[string]string{"charset": "utf-8"}))
	htmlNode.AppendChild(head)

	body := element(atom.Body, nil)
	htmlNode.AppendChild(body)

	for _, sec := range v.Sections {
		body.AppendChild(sectionNode(sec))
	}
	return html.Render(w, root)
}

func sectionNode(sec *view.SectionView) *html.Node {
	node := element(atom.Section, nil)
	if sec.Header != nil && sec.Header.Text != "" {
		node.AppendChild(bandNode(atom.Header, sec.Header))
	}
	for _, pv := range sec.Paragraphs {
		if len(pv.Segments) > 0 {
			node.AppendChild(paragraphNode(pv))
		}
		for _, tv := range pv.Tables {
			node.AppendChild(tableNode(tv))
		}
		for _, iv := range pv.Images {
			node.AppendChild(imageNode(iv))
		}
	}
	if notes := notesNode(sec.Footnotes, sec.Endnotes); notes != nil {
		node.AppendChild(notes)
	}
	if sec.Footer != nil && sec.Footer.Text != "" {
		node.AppendChild(bandNode(atom.Footer, sec.Footer))
	}
	return node
}

func bandNode(tag atom.Atom, band *view.BandView) *html.Node {
	node := element(tag, nil)
	p := element(atom.P, alignAttr(band.Align))
	p.AppendChild(textNode(band.Text))
	node.AppendChild(p)
	return node
}

func paragraphNode(pv *view.ParagraphView) *html.Node {
	p := element(atom.P, alignAttr(pv.Align))
	appendSegments(p, pv.Segments)
	return p
}

func appendSegments(parent *html.Node, segments []view.RunSegment) {
	for _, seg := range segments {
		switch seg.Kind {
		case inline.KindTab:
			parent.AppendChild(textNode("\t"))
		case inline.KindFWSpace:
			parent.AppendChild(textNode("　"))
		case inline.KindLineBreak:
			parent.AppendChild(element(atom.Br, nil))
		case inline.KindText:
			if seg.Text != "" {
				parent.AppendChild(spanNode(seg))
			}
		}
	}
}

// spanNode nests style wrappers innermost-out around the text node, with
// any hyperlink anchor outermost.
func spanNode(seg view.RunSegment) *html.Node {
	node := textNode(seg.Text)
	if seg.Style.Bold {
		node = wrap(atom.Strong, node)
	}
	if seg.Style.Italic {
		node = wrap(atom.Em, node)
	}
	if seg.Style.Underline {
		node = wrap(atom.U, node)
	}
	if seg.Style.Strike {
		node = wrap(atom.S, node)
	}
	if seg.Hyperlink != "" {
		a := element(atom.A, map[string]string{"href": seg.Hyperlink})
		a.AppendChild(node)
		node = a
	}
	return node
}

func tableNode(tv *view.TableView) *html.Node {
	table := element(atom.Table, nil)
	for _, row := range tv.Cells {
		tr := element(atom.Tr, nil)
		for _, cell := range row {
			if !cell.IsAnchor {
				continue
			}
			attrs := map[string]string{}
			if cell.RowSpan > 1 {
				attrs["rowspan"] = strconv.Itoa(cell.RowSpan)
			}
			if cell.ColSpan > 1 {
				attrs["colspan"] = strconv.Itoa(cell.ColSpan)
			}
			td := element(atom.Td, attrs)
			appendSegments(td, cell.Segments)
			if len(cell.Segments) == 0 && cell.Text != "" {
				td.AppendChild(textNode(cell.Text))
			}
			tr.AppendChild(td)
		}
		table.AppendChild(tr)
	}
	return table
}

func imageNode(iv *view.ImageView) *html.Node {
	attrs := map[string]string{"src": iv.BinDataID}
	if iv.CurrentWidthPx > 0 {
		attrs["width"] = strconv.Itoa(iv.CurrentWidthPx)
	}
	if iv.CurrentHeightPx > 0 {
		attrs["height"] = strconv.Itoa(iv.CurrentHeightPx)
	}
	return element(atom.Img, attrs)
}

func notesNode(footnotes, endnotes []view.NoteView) *html.Node {
	if len(footnotes) == 0 && len(endnotes) == 0 {
		return nil
	}
	ol := element(atom.Ol, map[string]string{"class": "notes"})
	for _, note := range append(append([]view.NoteView{}, footnotes...), endnotes...) {
		li := element(atom.Li, nil)
		li.AppendChild(textNode(note.Text))
		ol.AppendChild(li)
	}
	return ol
}

func alignAttr(align string) map[string]string {
	switch align {
	case "", "JUSTIFY":
		return nil
	}
	return map[string]string{"style": "text-align:" + strings.ToLower(align)}
}

func element(tag atom.Atom, attrs map[string]string) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
	for key, val := range attrs {
		node.Attr = append(node.Attr, html.Attribute{Key: key, Val: val})
	}
	return node
}

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func wrap(tag atom.Atom, child *html.Node) *html.Node {
	node := element(tag, nil)
	node.AppendChild(child)
	return node
}
