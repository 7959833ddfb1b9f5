package inline

import "github.com/openhwp/hwpview/document"

// Kind identifies the type of an inline segment.
type Kind int

const (
	// KindText is a span of plain text.
	KindText Kind = iota
	// KindTab is a tab stop.
	KindTab
	// KindFWSpace is a full-width (ideographic) space.
	KindFWSpace
	// KindLineBreak is an in-paragraph line break.
	KindLineBreak
)

// String returns the segment kind's name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTab:
		return "tab"
	case KindFWSpace:
		return "fwspace"
	case KindLineBreak:
		return "linebreak"
	}
	return "unknown"
}

// Segment is one typed piece of a run's content. Text is set only for
// KindText. Hyperlink carries the target URL for text inside a
// hyperlink field; tab, space, and break segments never carry one.
type Segment struct {
	Kind      Kind
	Text      string
	Hyperlink string
}

// SegmentRun walks a run's items in order and emits the segment
// sequence. A run with no items at all falls back to a single text
// segment from the run's plain-text accessor, so no run is ever
// silently dropped.
func SegmentRun(run *document.Run) []Segment {
	if run == nil {
		return nil
	}
	if len(run.Items) == 0 {
		return []Segment{{Kind: KindText, Text: run.LegacyText}}
	}

	var segs []Segment
	var buf []byte
	link := ""

	flush := func() {
		if len(buf) == 0 {
			return
		}
		segs = append(segs, Segment{Kind: KindText, Text: string(buf), Hyperlink: link})
		buf = buf[:0]
	}

	for _, item := range run.Items {
		switch it := item.(type) {
		case document.TextItem:
			buf = append(buf, it.Text...)
		case document.TabItem:
			flush()
			segs = append(segs, Segment{Kind: KindTab})
		case document.FWSpaceItem:
			flush()
			segs = append(segs, Segment{Kind: KindFWSpace})
		case document.LineBreakItem:
			flush()
			segs = append(segs, Segment{Kind: KindLineBreak})
		case document.FieldBeginItem:
			flush()
			if it.Kind == "HYPERLINK" {
				link = hyperlinkTarget(it.Params)
			}
		case document.FieldEndItem:
			flush()
			link = ""
		}
	}
	flush()
	return segs
}

// hyperlinkTarget extracts the target URL from a hyperlink field's
// parameter payload: the first non-empty "Command" or "Path" parameter.
func hyperlinkTarget(params []document.FieldParam) string {
	for _, p := range params {
		if (p.Name == "Command" || p.Name == "Path") && p.Value != "" {
			return p.Value
		}
	}
	return ""
}
