package p3d

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/shar-tools/p3d_browser/utils"
)

// Variant is the decoded payload of one chunk. The set of implementations
// is closed: Root, Unknown and one type per dispatched tag.
type Variant interface {
	Tag() uint32
	Kind() string
	isVariant()
}

const (
	KIND_ROOT         = "root"
	KIND_UNKNOWN      = "unknown"
	KIND_FENCE        = "fence"
	KIND_OBBOX        = "obbox"
	KIND_SPHERE       = "sphere"
	KIND_CYLINDER     = "cylinder"
	KIND_COLLISIONVEC = "collisionvec"
	KIND_INTERSECT    = "intersect"
	KIND_LOCATOR      = "locator"
)

type Root struct{}

// Unknown is produced for every tag without a decoder. It is a container.
type Unknown struct {
	ChunkTag uint32 `json:"chunkTag" yaml:"chunkTag"`
}

type Wall struct {
	Start  mgl32.Vec3 `json:"start" yaml:"start"`
	End    mgl32.Vec3 `json:"end" yaml:"end"`
	Normal mgl32.Vec3 `json:"normal" yaml:"normal"`
}

type Fence struct {
	Wall `yaml:",inline"`
}

// OBBox is an oriented bounding box. Orientation rows are the box axes.
type OBBox struct {
	Extents     mgl32.Vec3 `json:"extents" yaml:"extents"`
	Position    mgl32.Vec3 `json:"position" yaml:"position"`
	Orientation mgl32.Mat3 `json:"orientation" yaml:"orientation"`
}

type Sphere struct {
	Radius   float32    `json:"radius" yaml:"radius"`
	Position mgl32.Vec3 `json:"position" yaml:"position"`
}

type Cylinder struct {
	Position mgl32.Vec3 `json:"position" yaml:"position"`
	Axis     mgl32.Vec3 `json:"axis" yaml:"axis"`
	Radius   float32    `json:"radius" yaml:"radius"`
	Length   float32    `json:"length" yaml:"length"`
	FlatEnd  bool       `json:"flatEnd" yaml:"flatEnd"`
}

type CollisionVec struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

func (cv *CollisionVec) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{cv.X, cv.Y, cv.Z}
}

// Intersect is an indexed triangle soup used for ground collision.
type Intersect struct {
	Indices   []uint32     `json:"indices" yaml:"indices,flow"`
	Positions []mgl32.Vec3 `json:"positions" yaml:"positions"`
	Normals   []mgl32.Vec3 `json:"normals" yaml:"normals"`
}

func (*Root) Tag() uint32 { return TAG_ROOT }
func (u *Unknown) Tag() uint32 { return u.ChunkTag }
func (*Fence) Tag() uint32 { return TAG_FENCE }
func (*OBBox) Tag() uint32 { return TAG_OBBOX }
func (*Sphere) Tag() uint32 { return TAG_SPHERE }
func (*Cylinder) Tag() uint32 { return TAG_CYLINDER }
func (*CollisionVec) Tag() uint32 { return TAG_COLLISIONVEC }
func (*Intersect) Tag() uint32 { return TAG_INTERSECT }

func (*Root) Kind() string { return KIND_ROOT }
func (*Unknown) Kind() string { return KIND_UNKNOWN }
func (*Fence) Kind() string { return KIND_FENCE }
func (*OBBox) Kind() string { return KIND_OBBOX }
func (*Sphere) Kind() string { return KIND_SPHERE }
func (*Cylinder) Kind() string { return KIND_CYLINDER }
func (*CollisionVec) Kind() string { return KIND_COLLISIONVEC }
func (*Intersect) Kind() string { return KIND_INTERSECT }

func (*Root) isVariant() {}
func (*Unknown) isVariant() {}
func (*Fence) isVariant() {}
func (*OBBox) isVariant() {}
func (*Sphere) isVariant() {}
func (*Cylinder) isVariant() {}
func (*CollisionVec) isVariant() {}
func (*Intersect) isVariant() {}

func decodeWall(bs *utils.BufStack) (w Wall, err error) {
	if w.Start, err = readVec3(bs); err != nil {
		return
	}
	if w.End, err = readVec3(bs); err != nil {
		return
	}
	w.Normal, err = readVec3(bs)
	return
}

// fence payload is a single embedded wall sub-chunk
func decodeFence(bs *utils.BufStack) (*Fence, error) {
	if _, err := ReadHeader(bs); err != nil {
		return nil, err
	}
	w, err := decodeWall(bs)
	if err != nil {
		return nil, err
	}
	return &Fence{Wall: w}, nil
}

func decodeCollisionVec(bs *utils.BufStack) (*CollisionVec, error) {
	v, err := readVec3(bs)
	if err != nil {
		return nil, err
	}
	return &CollisionVec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// readInlineCollisionVec decodes an embedded CollisionVec sub-chunk:
// a header whose tag and sizes are not consulted, then x, y, z.
func readInlineCollisionVec(bs *utils.BufStack) (mgl32.Vec3, error) {
	if _, err := ReadHeader(bs); err != nil {
		return mgl32.Vec3{}, err
	}
	cv, err := decodeCollisionVec(bs)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return cv.Vec3(), nil
}

func decodeOBBox(bs *utils.BufStack) (*OBBox, error) {
	extents, err := readVec3(bs)
	if err != nil {
		return nil, err
	}
	position, err := readInlineCollisionVec(bs)
	if err != nil {
		return nil, err
	}

	var rows [3]mgl32.Vec3
	for i := range rows {
		if rows[i], err = readInlineCollisionVec(bs); err != nil {
			return nil, err
		}
	}

	return &OBBox{
		Extents:     extents,
		Position:    position,
		Orientation: mgl32.Mat3FromRows(rows[0], rows[1], rows[2]),
	}, nil
}

func decodeSphere(bs *utils.BufStack) (*Sphere, error) {
	radius, err := bs.ReadLF()
	if err != nil {
		return nil, err
	}
	position, err := readInlineCollisionVec(bs)
	if err != nil {
		return nil, err
	}
	return &Sphere{Radius: radius, Position: position}, nil
}

func decodeCylinder(bs *utils.BufStack) (*Cylinder, error) {
	radius, err := bs.ReadLF()
	if err != nil {
		return nil, err
	}
	length, err := bs.ReadLF()
	if err != nil {
		return nil, err
	}
	flatEnd, err := bs.ReadLU16()
	if err != nil {
		return nil, err
	}
	position, err := readInlineCollisionVec(bs)
	if err != nil {
		return nil, err
	}
	axis, err := readInlineCollisionVec(bs)
	if err != nil {
		return nil, err
	}

	return &Cylinder{
		Position: position,
		Axis:     axis,
		Radius:   radius,
		Length:   length,
		FlatEnd:  flatEnd == 1,
	}, nil
}

func decodeIntersect(bs *utils.BufStack) (*Intersect, error) {
	it := &Intersect{}

	count, err := bs.ReadLU32()
	if err != nil {
		return nil, err
	}
	it.Indices = make([]uint32, 0, capHint(count, bs.Remaining(), 4))
	for i := uint32(0); i < count; i++ {
		index, err := bs.ReadLU32()
		if err != nil {
			return nil, err
		}
		it.Indices = append(it.Indices, index)
	}

	for _, dst := range []*[]mgl32.Vec3{&it.Positions, &it.Normals} {
		count, err := bs.ReadLU32()
		if err != nil {
			return nil, err
		}
		*dst = make([]mgl32.Vec3, 0, capHint(count, bs.Remaining(), 12))
		for i := uint32(0); i < count; i++ {
			v, err := readVec3(bs)
			if err != nil {
				return nil, err
			}
			*dst = append(*dst, v)
		}
	}

	return it, nil
}
