package hwpx

import (
	"encoding/xml"

	"github.com/openhwp/hwpview/document"
)

// XML namespaces used in HWPX files.
const (
	nsHH = "http://www.hancom.co.kr/hwpml/2011/head"
	nsHP = "http://www.hancom.co.kr/hwpml/2011/paragraph"
	nsHC = "http://www.hancom.co.kr/hwpml/2011/core"
	nsHS = "http://www.hancom.co.kr/hwpml/2011/section"
)

// headXML represents the structure of Contents/header.xml.
type headXML struct {
	XMLName xml.Name   `xml:"head"`
	Version string     `xml:"version,attr"`
	SecCnt  int        `xml:"secCnt,attr"`
	RefList refListXML `xml:"refList"`
}

// refListXML holds the style ref-lists.
type refListXML struct {
	Fontfaces   *fontfacesXML   `xml:"fontfaces"`
	BorderFills *borderFillsXML `xml:"borderFills"`
	CharPrs     *charPrsXML     `xml:"charProperties"`
	ParaPrs     *paraPrsXML     `xml:"paraProperties"`
	Styles      *stylesXML      `xml:"styles"`
}

type fontfacesXML struct {
	Fontfaces []fontfaceXML `xml:"fontface"`
}

type fontfaceXML struct {
	Lang  string    `xml:"lang,attr"`
	Fonts []fontXML `xml:"font"`
}

type fontXML struct {
	ID   string `xml:"id,attr"`
	Face string `xml:"face,attr"`
}

type borderFillsXML struct {
	BorderFills []borderFillXML `xml:"borderFill"`
}

type borderFillXML struct {
	ID        string         `xml:"id,attr"`
	Left      *borderSideXML `xml:"leftBorder"`
	Right     *borderSideXML `xml:"rightBorder"`
	Top       *borderSideXML `xml:"topBorder"`
	Bottom    *borderSideXML `xml:"bottomBorder"`
	FillBrush *fillBrushXML  `xml:"fillBrush"`
}

type borderSideXML struct {
	Type  string `xml:"type,attr"`
	Width string `xml:"width,attr"`
	Color string `xml:"color,attr"`
}

type fillBrushXML struct {
	WinBrush *winBrushXML `xml:"winBrush"`
}

type winBrushXML struct {
	FaceColor string `xml:"faceColor,attr"`
}

type charPrsXML struct {
	CharPrs []charPrXML `xml:"charPr"`
}

type charPrXML struct {
	ID         string        `xml:"id,attr"`
	Height     int           `xml:"height,attr"`
	TextColor  string        `xml:"textColor,attr"`
	ShadeColor string        `xml:"shadeColor,attr"`
	FontRef    *langRefXML   `xml:"fontRef"`
	Spacing    *langValXML   `xml:"spacing"`
	Bold       *struct{}     `xml:"bold"`
	Italic     *struct{}     `xml:"italic"`
	Underline  *lineMarkXML  `xml:"underline"`
	Strikeout  *lineMarkXML  `xml:"strikeout"`
}

type langRefXML struct {
	Hangul string `xml:"hangul,attr"`
	Latin  string `xml:"latin,attr"`
}

type langValXML struct {
	Hangul int `xml:"hangul,attr"`
}

type lineMarkXML struct {
	Type  string `xml:"type,attr"`
	Color string `xml:"color,attr"`
}

type paraPrsXML struct {
	ParaPrs []paraPrXML `xml:"paraPr"`
}

type paraPrXML struct {
	ID          string          `xml:"id,attr"`
	Align       *alignXML       `xml:"align"`
	Margin      *paraMarginXML  `xml:"margin"`
	LineSpacing *lineSpacingXML `xml:"lineSpacing"`
}

type alignXML struct {
	Horizontal string `xml:"horizontal,attr"`
}

// paraMarginXML holds the hc:* length children of hh:margin.
type paraMarginXML struct {
	Intent *valueXML `xml:"intent"`
	Left   *valueXML `xml:"left"`
	Right  *valueXML `xml:"right"`
	Prev   *valueXML `xml:"prev"`
	Next   *valueXML `xml:"next"`
}

type valueXML struct {
	Value int `xml:"value,attr"`
}

type lineSpacingXML struct {
	Type  string `xml:"type,attr"`
	Value int    `xml:"value,attr"`
}

type stylesXML struct {
	Styles []styleXML `xml:"style"`
}

type styleXML struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name,attr"`
	CharPrIDRef string `xml:"charPrIDRef,attr"`
	ParaPrIDRef string `xml:"paraPrIDRef,attr"`
}

// parseHeader converts header.xml into a header part.
func parseHeader(data []byte) (*document.Header, error) {
	var hx headXML
	if err := xml.Unmarshal(data, &hx); err != nil {
		return nil, err
	}

	h := document.NewHeader()

	if hx.RefList.Fontfaces != nil {
		for _, ff := range hx.RefList.Fontfaces.Fontfaces {
			for _, f := range ff.Fonts {
				// The first language list claims an ID; later lists
				// repeat the same IDs for other scripts.
				if _, ok := h.Fontfaces[f.ID]; !ok {
					h.Fontfaces[f.ID] = f.Face
				}
			}
		}
	}

	if hx.RefList.BorderFills != nil {
		for _, bf := range hx.RefList.BorderFills.BorderFills {
			h.BorderFills[bf.ID] = &document.BorderFill{
				Left:      toBorderSide(bf.Left),
				Right:     toBorderSide(bf.Right),
				Top:       toBorderSide(bf.Top),
				Bottom:    toBorderSide(bf.Bottom),
				FillColor: fillColor(bf.FillBrush),
			}
		}
	}

	if hx.RefList.CharPrs != nil {
		for _, cp := range hx.RefList.CharPrs.CharPrs {
			cs := &document.CharShape{
				Bold:      cp.Bold != nil,
				Italic:    cp.Italic != nil,
				TextColor: cp.TextColor,
				Height:    cp.Height,
			}
			if cp.ShadeColor != "" && cp.ShadeColor != "none" {
				cs.Highlight = cp.ShadeColor
			}
			if cp.FontRef != nil {
				cs.FaceID = cp.FontRef.Hangul
				if cs.FaceID == "" {
					cs.FaceID = cp.FontRef.Latin
				}
			}
			if cp.Spacing != nil {
				cs.Spacing = cp.Spacing.Hangul
			}
			if cp.Underline != nil {
				cs.Underline = &document.LineMark{Type: cp.Underline.Type, Color: cp.Underline.Color}
			}
			if cp.Strikeout != nil {
				cs.Strikeout = &document.LineMark{Type: cp.Strikeout.Type, Color: cp.Strikeout.Color}
			}
			h.CharShapes[cp.ID] = cs
		}
	}

	if hx.RefList.ParaPrs != nil {
		for _, pp := range hx.RefList.ParaPrs.ParaPrs {
			ps := &document.ParaShape{}
			if pp.Align != nil {
				ps.Align = pp.Align.Horizontal
			}
			if pp.Margin != nil {
				ps.Indent = value(pp.Margin.Intent)
				ps.MarginLeft = value(pp.Margin.Left)
				ps.MarginRight = value(pp.Margin.Right)
				ps.SpaceBefore = value(pp.Margin.Prev)
				ps.SpaceAfter = value(pp.Margin.Next)
			}
			if pp.LineSpacing != nil && pp.LineSpacing.Type == "PERCENT" {
				ps.LineSpacing = pp.LineSpacing.Value
			}
			h.ParaShapes[pp.ID] = ps
		}
	}

	if hx.RefList.Styles != nil {
		for _, s := range hx.RefList.Styles.Styles {
			h.Styles[s.ID] = &document.Style{
				Name:        s.Name,
				CharShapeID: s.CharPrIDRef,
				ParaShapeID: s.ParaPrIDRef,
			}
		}
	}

	return h, nil
}

func toBorderSide(b *borderSideXML) *document.BorderSide {
	if b == nil {
		return nil
	}
	return &document.BorderSide{Type: b.Type, Width: b.Width, Color: b.Color}
}

func fillColor(fb *fillBrushXML) string {
	if fb == nil || fb.WinBrush == nil {
		return ""
	}
	return fb.WinBrush.FaceColor
}

func value(v *valueXML) int {
	if v == nil {
		return 0
	}
	return v.Value
}
