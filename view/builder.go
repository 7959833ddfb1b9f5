package view

import (
	"bytes"
	"image"
	"strconv"

	// Decoders for the payload formats HWP BinData commonly carries.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/grid"
	"github.com/openhwp/hwpview/inline"
	"github.com/openhwp/hwpview/style"
	"github.com/openhwp/hwpview/unit"
)

// Builder produces DocumentView trees from a document.
type Builder struct {
	doc *document.Document
	res *style.Resolver
}

// NewBuilder creates a builder sharing the given resolver. A nil
// resolver gets a private one.
func NewBuilder(doc *document.Document, res *style.Resolver) *Builder {
	if res == nil {
		res = style.NewResolver(doc)
	}
	return &Builder{doc: doc, res: res}
}

// Build constructs the whole view-model from scratch. It never fails:
// malformed sub-trees are skipped or defaulted per component contract.
func (b *Builder) Build() *DocumentView {
	dv := &DocumentView{}
	if b.doc == nil {
		return dv
	}
	for _, sec := range b.doc.Sections {
		dv.Sections = append(dv.Sections, b.buildSection(sec))
	}
	return dv
}

func (b *Builder) buildSection(sec *document.Section) *SectionView {
	p := sec.Props
	sv := &SectionView{
		PageWidthPx:    unit.ToPixels(p.PageWidth),
		PageHeightPx:   unit.ToPixels(p.PageHeight),
		Landscape:      p.Landscape,
		MarginLeftPx:   unit.ToPixels(p.MarginLeft),
		MarginRightPx:  unit.ToPixels(p.MarginRight),
		MarginTopPx:    unit.ToPixels(p.MarginTop),
		MarginBottomPx: unit.ToPixels(p.MarginBottom),
		Columns:        p.Columns,
		ColumnGapPx:    unit.ToPixels(p.ColumnGap),
		PageNumFormat:  p.PageNumFormat,
		PageNumStart:   p.PageNumStart,
	}
	if sv.Columns < 1 {
		sv.Columns = 1
	}
	if p.HeaderText != "" {
		sv.Header = &BandView{Text: p.HeaderText, Align: p.HeaderAlign}
	}
	if p.FooterText != "" {
		sv.Footer = &BandView{Text: p.FooterText, Align: p.FooterAlign}
	}

	for _, para := range sec.Paragraphs {
		sv.Paragraphs = append(sv.Paragraphs, b.buildParagraph(para))
		b.collectNotes(para, sv)
	}
	return sv
}

func (b *Builder) buildParagraph(para *document.Paragraph) *ParagraphView {
	ps := b.res.ParaStyleFor(para)
	pv := &ParagraphView{
		Align:         ps.Alignment,
		LineSpacing:   ps.LineSpacing,
		IndentLeftPx:  unit.ToPixels(ps.IndentLeft),
		IndentRightPx: unit.ToPixels(ps.IndentRight),
		IndentFirstPx: unit.ToPixels(ps.IndentFirst),
		SpaceBeforePx: unit.ToPixels(ps.SpaceBefore),
		SpaceAfterPx:  unit.ToPixels(ps.SpaceAfter),
	}

	for _, run := range para.Runs {
		cs := b.res.CharStyleFor(run, para)
		for _, seg := range inline.SegmentRun(run) {
			pv.Segments = append(pv.Segments, RunSegment{Segment: seg, Style: cs})
		}
	}

	for _, tbl := range para.Tables {
		if tv := b.buildTable(tbl); tv != nil {
			pv.Tables = append(pv.Tables, tv)
		}
	}
	for _, pic := range para.Pictures {
		if iv := b.buildImage(pic); iv != nil {
			pv.Images = append(pv.Images, iv)
		}
	}
	return pv
}

// buildTable projects one table through the grid engine. A table that
// fails expansion is skipped; the paragraph still renders its runs.
func (b *Builder) buildTable(tbl *document.Table) *TableView {
	g, err := grid.Expand(tbl)
	if err != nil {
		return nil
	}
	tv := &TableView{
		RowCount:      g.RowCount,
		ColCount:      g.ColCount,
		PageBreak:     tbl.PageBreak,
		RepeatHeader:  tbl.RepeatHeader,
		OuterMarginPx: marginsPx(tbl.OuterMargin),
		InnerMarginPx: marginsPx(tbl.InnerMargin),
	}
	widths := g.ColumnWidths()
	tv.ColumnWidthsPx = make([]int, len(widths))
	for i, w := range widths {
		tv.ColumnWidthsPx[i] = unit.ToPixels(w)
	}

	tv.Cells = make([][]CellView, g.RowCount)
	for r := 0; r < g.RowCount; r++ {
		tv.Cells[r] = make([]CellView, g.ColCount)
		for c := 0; c < g.ColCount; c++ {
			gc := g.At(r, c)
			cv := CellView{
				Row: r, Col: c,
				RowSpan: gc.RowSpan, ColSpan: gc.ColSpan,
				IsAnchor:  gc.IsAnchor,
				AnchorRow: gc.AnchorRow, AnchorCol: gc.AnchorCol,
			}
			if gc.IsAnchor {
				cv.Borders = b.res.BordersFor(gc.Source, tbl)
				cv.VertAlign = "CENTER"
				if gc.Source != nil {
					cv.Text = gc.Source.Text()
					cv.VertAlign = gc.Source.VertAlign
					for _, p := range gc.Source.Paragraphs {
						for _, run := range p.Runs {
							cs := b.res.CharStyleFor(run, p)
							for _, seg := range inline.SegmentRun(run) {
								cv.Segments = append(cv.Segments, RunSegment{Segment: seg, Style: cs})
							}
						}
					}
				}
			}
			tv.Cells[r][c] = cv
		}
	}
	return tv
}

// buildImage extracts render metadata for a picture. A picture with no
// payload and no declared size is skipped.
func (b *Builder) buildImage(pic *document.Picture) *ImageView {
	iv := &ImageView{
		BinDataID:        pic.BinDataID,
		DeclaredWidthPx:  unit.ToPixels(pic.OrigWidth),
		DeclaredHeightPx: unit.ToPixels(pic.OrigHeight),
		CurrentWidthPx:   unit.ToPixels(pic.CurWidth),
		CurrentHeightPx:  unit.ToPixels(pic.CurHeight),
		CropLeftPx:       unit.ToPixels(pic.CropLeft),
		CropRightPx:      unit.ToPixels(pic.CropRight),
		CropTopPx:        unit.ToPixels(pic.CropTop),
		CropBottomPx:     unit.ToPixels(pic.CropBottom),
		Rotation:         pic.Rotation,
		TreatAsChar:      pic.TreatAsChar,
		HRelTo:           pic.HRelTo,
		VRelTo:           pic.VRelTo,
	}
	if len(pic.Data) > 0 {
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(pic.Data)); err == nil {
			iv.IntrinsicWidth = cfg.Width
			iv.IntrinsicHeight = cfg.Height
			iv.Format = format
		}
	}
	if iv.CurrentWidthPx == 0 && iv.DeclaredWidthPx == 0 && iv.IntrinsicWidth == 0 {
		// Dangling reference with no usable geometry at all.
		return nil
	}
	return iv
}

// collectNotes gathers footnotes and endnotes from a paragraph's runs
// in document order, assigning per-section sequential markers.
func (b *Builder) collectNotes(para *document.Paragraph, sv *SectionView) {
	for _, run := range para.Runs {
		for _, item := range run.Items {
			note, ok := item.(document.NoteItem)
			if !ok {
				continue
			}
			if note.Endnote {
				sv.Endnotes = append(sv.Endnotes, NoteView{
					Marker: strconv.Itoa(len(sv.Endnotes) + 1),
					Text:   note.Text,
				})
			} else {
				sv.Footnotes = append(sv.Footnotes, NoteView{
					Marker: strconv.Itoa(len(sv.Footnotes) + 1),
					Text:   note.Text,
				})
			}
		}
	}
}

func marginsPx(m document.Margins) MarginsPx {
	return MarginsPx{
		Left:   unit.ToPixels(m.Left),
		Right:  unit.ToPixels(m.Right),
		Top:    unit.ToPixels(m.Top),
		Bottom: unit.ToPixels(m.Bottom),
	}
}
