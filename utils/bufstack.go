package utils

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// OverrunError is returned by every BufStack read that wants more bytes
// than the buffer holds. It matches io.ErrUnexpectedEOF with errors.Is.
type OverrunError struct {
	Buf    string
	Offset int // absolute offset of the failed read
	Need   int
	Have   int
}

func (e *OverrunError) Error() string {
	return fmt.Sprintf("%s: need 0x%x bytes at 0x%x, have 0x%x", e.Buf, e.Need, e.Offset, e.Have)
}

func (e *OverrunError) Is(target error) bool {
	return target == io.ErrUnexpectedEOF
}

// BufStack is a bounded little-endian cursor over a byte range. Sub-ranges
// carved out of it keep track of their absolute position in the root buffer.
type BufStack struct {
	childs         []*BufStack
	buf            []byte
	relativeOffset int
	absoluteOffset int
	pos            int
	kind           string
	name           string
}

func NewBufStack(kind string, b []byte) *BufStack {
	return &BufStack{
		buf:  b,
		kind: kind,
	}
}

func (bs *BufStack) addChild(childBs *BufStack) {
	index := sort.Search(len(bs.childs), func(i int) bool {
		return bs.childs[i].relativeOffset > childBs.relativeOffset
	})
	bs.childs = append(bs.childs, nil)
	copy(bs.childs[index+1:], bs.childs[index:])
	bs.childs[index] = childBs
}

func (bs *BufStack) overrun(need int) error {
	return &OverrunError{
		Buf:    bs.String(),
		Offset: bs.absoluteOffset + bs.pos,
		Need:   need,
		Have:   bs.Remaining(),
	}
}

// SubBuf returns a child range of size bytes starting at offset.
func (bs *BufStack) SubBuf(kind string, offset, size int) (*BufStack, error) {
	if offset < 0 || size < 0 || offset > len(bs.buf) || size > len(bs.buf)-offset {
		return nil, &OverrunError{
			Buf:    bs.String(),
			Offset: bs.absoluteOffset + offset,
			Need:   size,
			Have:   len(bs.buf) - offset,
		}
	}
	childBs := &BufStack{
		relativeOffset: offset,
		absoluteOffset: bs.absoluteOffset + offset,
		kind:           kind,
		buf:            bs.buf[offset : offset+size : offset+size],
	}
	bs.addChild(childBs)
	return childBs, nil
}

// Take carves the next size bytes into a child range and moves the cursor past them.
func (bs *BufStack) Take(kind string, size int) (*BufStack, error) {
	if size < 0 || size > bs.Remaining() {
		return nil, bs.overrun(size)
	}
	childBs, err := bs.SubBuf(kind, bs.pos, size)
	if err != nil {
		return nil, err
	}
	bs.pos += size
	return childBs, nil
}

// TakeRest carves everything after the cursor into a child range.
func (bs *BufStack) TakeRest(kind string) *BufStack {
	childBs, _ := bs.Take(kind, bs.Remaining())
	return childBs
}

func (bs *BufStack) SetName(name string) *BufStack {
	bs.name = name
	return bs
}

// AbsolutePos is the absolute offset of the cursor in the root buffer.
func (bs *BufStack) AbsolutePos() int {
	return bs.absoluteOffset + bs.pos
}

func (bs *BufStack) String() string {
	return fmt.Sprintf("buf<%v>(%v)[o:0x%x,s:0x%x,ao:0x%x,ae:0x%x]",
		bs.kind, bs.name, bs.relativeOffset, len(bs.buf), bs.absoluteOffset, bs.absoluteOffset+len(bs.buf))
}

func (bs *BufStack) stringTree(pad int) string {
	sPad := ""
	for i := 0; i < pad; i++ {
		sPad += ".  "
	}
	s := sPad + bs.String() + "\n"
	pos := 0
	for _, child := range bs.childs {
		if child.relativeOffset > pos {
			s += fmt.Sprintf("%s.  gap [o:0x%x,s:0x%x,ao:0x%x,ae:0x%x]\n",
				sPad, pos, child.relativeOffset-pos, bs.absoluteOffset+pos, child.absoluteOffset)
		} else if child.relativeOffset < pos {
			s += fmt.Sprintf("%s. [OVERLAP]\n", sPad)
		}
		s += child.stringTree(pad + 1)
		pos = child.relativeOffset + len(child.buf)
	}
	return s
}

// StringTree renders the carved ranges with gaps and overlaps marked.
func (bs *BufStack) StringTree() string {
	return bs.stringTree(0)
}

func (bs *BufStack) Raw() []byte {
	return bs.buf
}

func (bs *BufStack) Remaining() int {
	return len(bs.buf) - bs.pos
}

// Read returns the next amount bytes. The slice aliases the buffer.
func (bs *BufStack) Read(amount int) ([]byte, error) {
	if amount < 0 || amount > bs.Remaining() {
		return nil, bs.overrun(amount)
	}
	oldPos := bs.pos
	bs.pos += amount
	return bs.buf[oldPos:bs.pos], nil
}

func (bs *BufStack) ReadLU32() (uint32, error) {
	b, err := bs.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (bs *BufStack) ReadLU16() (uint16, error) {
	b, err := bs.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (bs *BufStack) ReadByte() (byte, error) {
	b, err := bs.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (bs *BufStack) ReadLF() (float32, error) {
	u, err := bs.ReadLU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}
