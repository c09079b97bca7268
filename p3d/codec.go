package p3d

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding"

	"github.com/shar-tools/p3d_browser/utils"
)

// decoder holds what payload decoders share for one Decode call.
type decoder struct {
	enc encoding.Encoding
}

func readVec3(bs *utils.BufStack) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i := range v {
		f, err := bs.ReadLF()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// readMat4 reads 16 floats in file order. The file stores translation in
// elements 12..14, which is mgl32's column-major layout.
func readMat4(bs *utils.BufStack) (mgl32.Mat4, error) {
	var m mgl32.Mat4
	for i := range m {
		f, err := bs.ReadLF()
		if err != nil {
			return m, err
		}
		m[i] = f
	}
	return m, nil
}

// readString reads a u8 length prefixed string with trailing zeros removed.
func (d *decoder) readString(bs *utils.BufStack) (string, error) {
	l, err := bs.ReadByte()
	if err != nil {
		return "", err
	}
	raw, err := bs.Read(int(l))
	if err != nil {
		return "", err
	}
	return utils.BytesToString(d.enc, raw), nil
}

// capHint bounds a preallocation by what the remaining bytes can hold,
// so a bogus count cannot allocate more than the input justifies.
func capHint(count uint32, remaining, elemSize int) int {
	max := remaining / elemSize
	if int64(count) < int64(max) {
		return int(count)
	}
	return max
}
