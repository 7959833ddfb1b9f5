package hwp5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrProtected is returned for encrypted or DRM-protected documents.
var ErrProtected = errors.New("document is protected")

const (
	signature      = "HWP Document File"
	fileHeaderSize = 256

	flagCompressed    uint32 = 1 << 0
	flagEncrypted     uint32 = 1 << 1
	flagDistributable uint32 = 1 << 2
	flagDRM           uint32 = 1 << 4
)

// Stream names inside the CFB container.
const (
	streamFileHeader = "FileHeader"
	streamDocInfo    = "DocInfo"
	streamBodyText   = "BodyText"
)

// Record tag IDs from the HWP 5.0 specification, chapter 4.
const (
	tagDocumentProperties uint16 = 0x0010
	tagFaceName           uint16 = 0x0013
	tagBorderFill         uint16 = 0x0014
	tagCharShape          uint16 = 0x0015
	tagParaShape          uint16 = 0x0019
	tagStyle              uint16 = 0x001A

	tagParaHeader    uint16 = 0x0042
	tagParaText      uint16 = 0x0043
	tagParaCharShape uint16 = 0x0044
	tagCtrlHeader    uint16 = 0x0047
	tagListHeader    uint16 = 0x0048
	tagPageDef       uint16 = 0x0049
	tagTable         uint16 = 0x004D
	tagShapePicture  uint16 = 0x0055
)

// Inline character codes in ParaText. Codes 1-23 are controls; extended
// and inline controls carry 14 extra bytes after the 2-byte code.
const (
	charLineJoin   uint16 = 0x0000
	charFieldStart uint16 = 0x0003
	charTab        uint16 = 0x0009
	charLineBreak  uint16 = 0x000A
	charPara       uint16 = 0x000D
	charFWSpace    uint16 = 0x0018
	charHyphen     uint16 = 0x001E
	charNBSP       uint16 = 0x001F
)

// fileHeader is the fixed 256-byte FileHeader stream.
type fileHeader struct {
	versionMajor uint8
	versionMinor uint8
	versionBuild uint8
	versionRev   uint8
	flags        uint32
}

func parseFileHeader(data []byte) (*fileHeader, error) {
	if len(data) < fileHeaderSize {
		return nil, fmt.Errorf("file header too small: %d bytes", len(data))
	}
	sig := string(bytes.TrimRight(data[0:32], "\x00"))
	if sig != signature {
		return nil, fmt.Errorf("not an HWP 5.x document: signature %q", sig)
	}
	// Version bytes are stored reversed: revision, build, minor, major.
	return &fileHeader{
		versionRev:   data[32],
		versionBuild: data[33],
		versionMinor: data[34],
		versionMajor: data[35],
		flags:        binary.LittleEndian.Uint32(data[36:40]),
	}, nil
}

func (h *fileHeader) version() string {
	return fmt.Sprintf("%d.%d.%d.%d", h.versionMajor, h.versionMinor, h.versionBuild, h.versionRev)
}

func (h *fileHeader) compressed() bool {
	return h.flags&flagCompressed != 0
}

func (h *fileHeader) protected() bool {
	return h.flags&(flagEncrypted|flagDRM) != 0
}
