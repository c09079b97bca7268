package p3d

import (
	"bytes"
	"encoding/binary"
	"math"
)

// helpers assembling chunk bytes for tests

func u32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func u16(v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b[:]
}

func f32(v float32) []byte {
	return u32(math.Float32bits(v))
}

func vec3(x, y, z float32) []byte {
	return cat(f32(x), f32(y), f32(z))
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func header(tag, dataSize, chunkSize uint32) []byte {
	return cat(u32(tag), u32(dataSize), u32(chunkSize))
}

// leaf writes a chunk whose data size equals its chunk size.
func leaf(tag uint32, payload []byte) []byte {
	size := uint32(HEADER_SIZE + len(payload))
	return cat(header(tag, size, size), payload)
}

func container(tag uint32, payload []byte, children ...[]byte) []byte {
	childs := cat(children...)
	dataSize := uint32(HEADER_SIZE + len(payload))
	return cat(header(tag, dataSize, dataSize+uint32(len(childs))), payload, childs)
}

func inlineVec(x, y, z float32) []byte {
	return leaf(TAG_COLLISIONVEC, vec3(x, y, z))
}

func pstr(s string) []byte {
	return cat([]byte{byte(len(s))}, []byte(s))
}

func mat4(m [16]float32) []byte {
	var parts [][]byte
	for _, f := range m {
		parts = append(parts, f32(f))
	}
	return cat(parts...)
}

func triggerRecord(tag uint32, name string, typeOf uint32, scale [3]float32, m [16]float32) []byte {
	body := cat(pstr(name), u32(typeOf), vec3(scale[0], scale[1], scale[2]), mat4(m))
	size := uint32(HEADER_SIZE + len(body))
	return cat(header(tag, size, size), body)
}

func locatorPayload(name string, elementType uint32, elements []byte, pos [3]float32, triggers ...[]byte) []byte {
	return cat(
		pstr(name),
		u32(elementType),
		u32(uint32(len(elements)/4)),
		elements,
		vec3(pos[0], pos[1], pos[2]),
		u32(uint32(len(triggers))),
		cat(triggers...),
	)
}

func spherePayload(radius, x, y, z float32) []byte {
	return cat(f32(radius), inlineVec(x, y, z))
}

var identity = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}
