package hwp5

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// record is one tagged record from a DocInfo or BodyText stream. The
// 4-byte header packs tag (10 bits), level (10 bits), and size (12 bits);
// a packed size of 0xFFF means the real size follows as a uint32.
type record struct {
	tag   uint16
	level int
	data  []byte
}

type recordReader struct {
	data   []byte
	offset int
}

func newRecordReader(data []byte) *recordReader {
	return &recordReader{data: data}
}

func (r *recordReader) next() (*record, error) {
	if r.offset >= len(r.data) {
		return nil, io.EOF
	}
	if r.offset+4 > len(r.data) {
		return nil, fmt.Errorf("truncated record header at offset %d", r.offset)
	}
	header := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4

	rec := &record{
		tag:   uint16(header & 0x3FF),
		level: int((header >> 10) & 0x3FF),
	}
	size := int((header >> 20) & 0xFFF)
	if size == 0xFFF {
		if r.offset+4 > len(r.data) {
			return nil, fmt.Errorf("truncated extended size at offset %d", r.offset)
		}
		size = int(binary.LittleEndian.Uint32(r.data[r.offset:]))
		r.offset += 4
	}
	if r.offset+size > len(r.data) {
		return nil, fmt.Errorf("truncated record data at offset %d: need %d bytes, have %d",
			r.offset, size, len(r.data)-r.offset)
	}
	rec.data = r.data[r.offset : r.offset+size]
	r.offset += size
	return rec, nil
}

func (r *recordReader) all() ([]*record, error) {
	var records []*record
	for {
		rec, err := r.next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// decompress inflates a compressed stream. HWP 5.x uses raw deflate, but
// some producers emit a zlib wrapper, so a 0x78 lead byte is tried as
// zlib first.
func decompress(data []byte) ([]byte, error) {
	if len(data) >= 2 && data[0] == 0x78 {
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			out, err := io.ReadAll(zr)
			zr.Close()
			if err == nil {
				return out, nil
			}
		}
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("inflating stream: %w", err)
	}
	return out, nil
}
