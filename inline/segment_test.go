package inline

import (
	"testing"

	"github.com/openhwp/hwpview/document"
)

func TestSegmentOrdering(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.TextItem{Text: "A"},
		document.TabItem{},
		document.TextItem{Text: "B"},
	}}
	segs := SegmentRun(run)
	want := []Segment{
		{Kind: KindText, Text: "A"},
		{Kind: KindTab},
		{Kind: KindText, Text: "B"},
	}
	if len(segs) != len(want) {
		t.Fatalf("Expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
}

func TestAdjacentTextItemsCoalesce(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.TextItem{Text: "Hello, "},
		document.TextItem{Text: "world"},
	}}
	segs := SegmentRun(run)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "Hello, world" {
		t.Errorf("Text = %q, want %q", segs[0].Text, "Hello, world")
	}
}

func TestBreakKinds(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.TextItem{Text: "a"},
		document.FWSpaceItem{},
		document.TextItem{Text: "b"},
		document.LineBreakItem{},
		document.TextItem{Text: "c"},
	}}
	segs := SegmentRun(run)
	kinds := make([]Kind, len(segs))
	for i, s := range segs {
		kinds[i] = s.Kind
	}
	want := []Kind{KindText, KindFWSpace, KindText, KindLineBreak, KindText}
	if len(kinds) != len(want) {
		t.Fatalf("Expected kinds %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestHyperlinkScoping(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.TextItem{Text: "before "},
		document.FieldBeginItem{Kind: "HYPERLINK", Params: []document.FieldParam{
			{Name: "Command", Value: "https://example.org;1;0"},
		}},
		document.TextItem{Text: "link text"},
		document.FieldEndItem{},
		document.TextItem{Text: " after"},
	}}
	segs := SegmentRun(run)
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Hyperlink != "" {
		t.Errorf("text before field carries hyperlink %q", segs[0].Hyperlink)
	}
	if segs[1].Hyperlink != "https://example.org;1;0" {
		t.Errorf("link text hyperlink = %q", segs[1].Hyperlink)
	}
	if segs[2].Hyperlink != "" {
		t.Errorf("text after field carries hyperlink %q", segs[2].Hyperlink)
	}
}

func TestHyperlinkTargetFromPathParam(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.FieldBeginItem{Kind: "HYPERLINK", Params: []document.FieldParam{
			{Name: "Command", Value: ""},
			{Name: "Path", Value: "https://example.org/doc"},
		}},
		document.TextItem{Text: "x"},
		document.FieldEndItem{},
	}}
	segs := SegmentRun(run)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	if segs[0].Hyperlink != "https://example.org/doc" {
		t.Errorf("Hyperlink = %q, want Path fallback", segs[0].Hyperlink)
	}
}

func TestTabInsideHyperlinkCarriesNoLink(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.FieldBeginItem{Kind: "HYPERLINK", Params: []document.FieldParam{
			{Name: "Command", Value: "https://example.org"},
		}},
		document.TextItem{Text: "a"},
		document.TabItem{},
		document.TextItem{Text: "b"},
		document.FieldEndItem{},
	}}
	segs := SegmentRun(run)
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}
	if segs[1].Kind != KindTab || segs[1].Hyperlink != "" {
		t.Errorf("tab segment = %+v, want bare tab", segs[1])
	}
	if segs[0].Hyperlink == "" || segs[2].Hyperlink == "" {
		t.Error("text on both sides of the tab must keep the hyperlink")
	}
}

func TestNonHyperlinkFieldIgnored(t *testing.T) {
	run := &document.Run{Items: []document.RunItem{
		document.FieldBeginItem{Kind: "BOOKMARK", Params: []document.FieldParam{
			{Name: "Command", Value: "mark1"},
		}},
		document.TextItem{Text: "x"},
		document.FieldEndItem{},
	}}
	segs := SegmentRun(run)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	if segs[0].Hyperlink != "" {
		t.Errorf("bookmark field must not set a hyperlink, got %q", segs[0].Hyperlink)
	}
}

func TestDegenerateRunFallsBackToPlainText(t *testing.T) {
	run := &document.Run{LegacyText: "legacy"}
	segs := SegmentRun(run)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	if segs[0].Kind != KindText || segs[0].Text != "legacy" {
		t.Errorf("segment = %+v, want plain-text fallback", segs[0])
	}
}

func TestEmptyRunStillEmitsOneSegment(t *testing.T) {
	segs := SegmentRun(&document.Run{})
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment so the run is not dropped, got %d", len(segs))
	}
}
