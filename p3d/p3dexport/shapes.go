package p3dexport

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/utils"
)

// Shape is an indexed triangle list ready for any mesh format.
type Shape struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
}

type ShapeOptions struct {
	// fences are stored as 2d segments and get extruded up by this much
	FenceHeight      float32
	SphereRings      int
	SphereSegments   int
	CylinderSegments int
}

var DefaultShapeOptions = ShapeOptions{
	FenceHeight:      5,
	SphereRings:      10,
	SphereSegments:   10,
	CylinderSegments: 12,
}

func (o ShapeOptions) normalized() ShapeOptions {
	if o.FenceHeight == 0 {
		o.FenceHeight = DefaultShapeOptions.FenceHeight
	}
	if o.SphereRings < 2 {
		o.SphereRings = DefaultShapeOptions.SphereRings
	}
	if o.SphereSegments < 3 {
		o.SphereSegments = DefaultShapeOptions.SphereSegments
	}
	if o.CylinderSegments < 3 {
		o.CylinderSegments = DefaultShapeOptions.CylinderSegments
	}
	return o
}

// append merges other into s, rebasing its indices.
func (s *Shape) append(other Shape) {
	base := uint32(len(s.Positions))
	s.Positions = append(s.Positions, other.Positions...)
	for _, i := range other.Indices {
		s.Indices = append(s.Indices, base+i)
	}
}

func (s *Shape) quad(a, b, c, d uint32) {
	s.Indices = append(s.Indices, a, b, c, a, c, d)
}

func FenceShape(f *p3d.Fence, height float32) Shape {
	up := mgl32.Vec3{0, height, 0}
	return Shape{
		Positions: []mgl32.Vec3{f.Start, f.End, f.End.Add(up), f.Start.Add(up)},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// boxShape builds a box around center with half sizes along three axes.
func boxShape(center mgl32.Vec3, axes [3]mgl32.Vec3, half mgl32.Vec3) Shape {
	var s Shape
	for i := 0; i < 8; i++ {
		p := center
		for axis := 0; axis < 3; axis++ {
			offset := axes[axis].Mul(half[axis])
			if i&(1<<axis) != 0 {
				p = p.Add(offset)
			} else {
				p = p.Sub(offset)
			}
		}
		s.Positions = append(s.Positions, p)
	}
	s.quad(0, 2, 3, 1) // -z
	s.quad(4, 5, 7, 6) // +z
	s.quad(0, 1, 5, 4) // -y
	s.quad(2, 6, 7, 3) // +y
	s.quad(0, 4, 6, 2) // -x
	s.quad(1, 3, 7, 5) // +x
	return s
}

func OBBoxShape(b *p3d.OBBox) Shape {
	axes := [3]mgl32.Vec3{b.Orientation.Row(0), b.Orientation.Row(1), b.Orientation.Row(2)}
	return boxShape(b.Position, axes, b.Extents)
}

func sphereShape(center mgl32.Vec3, radius float32, rings, segments int) Shape {
	var s Shape
	for ring := 0; ring <= rings; ring++ {
		theta := math.Pi * float64(ring) / float64(rings)
		y := float32(math.Cos(theta)) * radius
		r := float32(math.Sin(theta)) * radius
		for seg := 0; seg <= segments; seg++ {
			phi := 2 * math.Pi * float64(seg) / float64(segments)
			s.Positions = append(s.Positions, center.Add(mgl32.Vec3{
				r * float32(math.Cos(phi)), y, r * float32(math.Sin(phi)),
			}))
		}
	}
	row := uint32(segments + 1)
	for ring := uint32(0); ring < uint32(rings); ring++ {
		for seg := uint32(0); seg < uint32(segments); seg++ {
			a := ring*row + seg
			b := a + row
			s.quad(a, b, b+1, a+1)
		}
	}
	return s
}

func SphereShape(sp *p3d.Sphere, rings, segments int) Shape {
	return sphereShape(sp.Position, sp.Radius, rings, segments)
}

// CylinderShape treats Length as the half length along Axis from Position.
// Rounded cylinders get spherical ends, flat ones get caps.
func CylinderShape(c *p3d.Cylinder, segments int) Shape {
	axis := c.Axis
	if axis.Len() == 0 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	axis = axis.Normalize()
	bottom := c.Position.Sub(axis.Mul(c.Length))
	top := c.Position.Add(axis.Mul(c.Length))

	u := utils.AnyPerpendicular(axis)
	v := axis.Cross(u)

	var s Shape
	for seg := 0; seg < segments; seg++ {
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		dir := u.Mul(float32(math.Cos(phi))).Add(v.Mul(float32(math.Sin(phi)))).Mul(c.Radius)
		s.Positions = append(s.Positions, bottom.Add(dir), top.Add(dir))
	}
	n := uint32(segments)
	for seg := uint32(0); seg < n; seg++ {
		next := (seg + 1) % n
		s.quad(seg*2, next*2, next*2+1, seg*2+1)
	}

	if c.FlatEnd {
		bottomCenter := uint32(len(s.Positions))
		s.Positions = append(s.Positions, bottom, top)
		for seg := uint32(0); seg < n; seg++ {
			next := (seg + 1) % n
			s.Indices = append(s.Indices,
				bottomCenter, next*2, seg*2,
				bottomCenter+1, seg*2+1, next*2+1)
		}
	} else {
		rings := segments / 2
		if rings < 2 {
			rings = 2
		}
		s.append(sphereShape(bottom, c.Radius, rings, segments))
		s.append(sphereShape(top, c.Radius, rings, segments))
	}
	return s
}

func IntersectShape(it *p3d.Intersect) Shape {
	s := Shape{Positions: it.Positions}
	count := uint32(len(it.Positions))
	for i := 0; i+2 < len(it.Indices); i += 3 {
		tri := it.Indices[i : i+3]
		if tri[0] >= count || tri[1] >= count || tri[2] >= count {
			continue
		}
		s.Indices = append(s.Indices, tri...)
	}
	return s
}

// TriggerShape places a sphere of radius Scale.X or a box of half size
// Scale in the trigger transform.
func TriggerShape(t *p3d.Trigger, rings, segments int) Shape {
	if t.IsSphere() {
		return sphereShape(t.Translation(), t.Scale.X(), rings, segments)
	}
	axes := [3]mgl32.Vec3{
		t.Matrix.Col(0).Vec3(),
		t.Matrix.Col(1).Vec3(),
		t.Matrix.Col(2).Vec3(),
	}
	for i := range axes {
		if l := axes[i].Len(); l != 0 {
			axes[i] = axes[i].Mul(1 / l)
		}
	}
	return boxShape(t.Translation(), axes, t.Scale)
}

func LocatorShape(l *p3d.Locator, rings, segments int) Shape {
	var s Shape
	for i := range l.Triggers {
		s.append(TriggerShape(&l.Triggers[i], rings, segments))
	}
	return s
}

// ShapeOf converts one variant. Variants without geometry return false.
func ShapeOf(v p3d.Variant, opts ShapeOptions) (Shape, bool) {
	opts = opts.normalized()

	var s Shape
	switch v := v.(type) {
	case *p3d.Fence:
		s = FenceShape(v, opts.FenceHeight)
	case *p3d.OBBox:
		s = OBBoxShape(v)
	case *p3d.Sphere:
		s = SphereShape(v, opts.SphereRings, opts.SphereSegments)
	case *p3d.Cylinder:
		s = CylinderShape(v, opts.CylinderSegments)
	case *p3d.Intersect:
		s = IntersectShape(v)
	case *p3d.Locator:
		s = LocatorShape(v, opts.SphereRings, opts.SphereSegments)
		s.Name = v.Name
	default:
		return s, false
	}
	return s, len(s.Indices) != 0
}

// Shapes converts every variant with geometry and names them kind_index.
func Shapes(variants []p3d.Variant, opts ShapeOptions) []Shape {
	var shapes []Shape
	for i, v := range variants {
		s, ok := ShapeOf(v, opts)
		if !ok {
			continue
		}
		name := fmt.Sprintf("%s_%d", v.Kind(), i)
		if s.Name != "" {
			name += "_" + s.Name
		}
		s.Name = name
		shapes = append(shapes, s)
	}
	return shapes
}
