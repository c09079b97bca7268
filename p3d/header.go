package p3d

import (
	"encoding/binary"
	"fmt"

	"github.com/shar-tools/p3d_browser/utils"
)

const HEADER_SIZE = 12

// Header starts every chunk. Both sizes include the header itself:
// DataSize covers the chunk's own payload, ChunkSize adds all children.
type Header struct {
	Tag       uint32 `json:"tag" yaml:"tag"`
	DataSize  uint32 `json:"dataSize" yaml:"dataSize"`
	ChunkSize uint32 `json:"chunkSize" yaml:"chunkSize"`
}

func (h Header) String() string {
	return fmt.Sprintf("%s data:0x%x chunk:0x%x", TagName(h.Tag), h.DataSize, h.ChunkSize)
}

// ParseHeader decodes a header from the first 12 bytes of buf.
// Sizes are not validated here.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HEADER_SIZE {
		return Header{}, newUntaggedError(ErrTruncatedInput, 0,
			"header needs 0x%x bytes, have 0x%x", HEADER_SIZE, len(buf))
	}
	return Header{
		Tag:       binary.LittleEndian.Uint32(buf[0:4]),
		DataSize:  binary.LittleEndian.Uint32(buf[4:8]),
		ChunkSize: binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}

// ReadHeader decodes a header at the cursor of bs and advances past it.
// The header bytes are carved out as a "header" range of bs.
func ReadHeader(bs *utils.BufStack) (Header, error) {
	offset := bs.AbsolutePos()
	hbs, err := bs.Take("header", HEADER_SIZE)
	if err != nil {
		return Header{}, newUntaggedError(ErrTruncatedInput, offset,
			"header needs 0x%x bytes, have 0x%x", HEADER_SIZE, bs.Remaining())
	}
	return ParseHeader(hbs.Raw())
}

// validate checks chunkSize >= dataSize >= HEADER_SIZE.
func (h Header) validate(offset int) error {
	if h.DataSize < HEADER_SIZE {
		return newDecodeError(ErrSizeInconsistency, offset, h.Tag,
			"data size 0x%x is smaller than the header", h.DataSize)
	}
	if h.ChunkSize < h.DataSize {
		return newDecodeError(ErrSizeInconsistency, offset, h.Tag,
			"chunk size 0x%x is smaller than data size 0x%x", h.ChunkSize, h.DataSize)
	}
	return nil
}
