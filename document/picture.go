package document

// Picture is an image anchored in a paragraph. Declared sizes come from
// the image's intrinsic metadata; current sizes reflect user resizing.
// All lengths are in HWPUNIT.
type Picture struct {
	BinDataID string

	OrigWidth  int
	OrigHeight int
	CurWidth   int
	CurHeight  int

	CropLeft   int
	CropRight  int
	CropTop    int
	CropBottom int

	Rotation    int // degrees
	TreatAsChar bool
	HRelTo      string // "PAPER", "PAGE", "COLUMN", "PARA"
	VRelTo      string

	Data []byte // embedded BinData payload; may be nil for dangling refs
}

// Clone returns a deep copy of the picture.
func (p *Picture) Clone() *Picture {
	if p == nil {
		return nil
	}
	c := *p
	if p.Data != nil {
		c.Data = make([]byte, len(p.Data))
		copy(c.Data, p.Data)
	}
	return &c
}
