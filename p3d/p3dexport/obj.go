package p3dexport

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/shar-tools/p3d_browser/p3d"
)

// ObjWriter streams shapes as Wavefront OBJ objects. Vertex indices keep
// counting across objects, so one writer produces one consistent file.
type ObjWriter struct {
	w         io.Writer
	opts      ShapeOptions
	nextIndex uint32
	err       error
}

func NewObjWriter(w io.Writer, opts ShapeOptions) *ObjWriter {
	return &ObjWriter{w: w, opts: opts.normalized(), nextIndex: 1}
}

func (ow *ObjWriter) line(format string, args ...interface{}) {
	if ow.err != nil {
		return
	}
	_, ow.err = fmt.Fprintf(ow.w, format+"\n", args...)
}

// objName makes a name from the file safe for a single OBJ statement.
// Whitespace and control characters become underscores.
func objName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
}

// Shape writes s as one object.
func (ow *ObjWriter) Shape(s Shape) {
	if s.Name != "" {
		ow.line("o %s", objName(s.Name))
	}
	for _, p := range s.Positions {
		ow.line("v %f %f %f", p[0], p[1], p[2])
	}
	for i := 0; i+2 < len(s.Indices); i += 3 {
		ow.line("f %d %d %d",
			ow.nextIndex+s.Indices[i],
			ow.nextIndex+s.Indices[i+1],
			ow.nextIndex+s.Indices[i+2])
	}
	ow.nextIndex += uint32(len(s.Positions))
}

func (ow *ObjWriter) Fence(f *p3d.Fence, height float32) {
	ow.Shape(FenceShape(f, height))
}

func (ow *ObjWriter) OBBox(b *p3d.OBBox) {
	ow.Shape(OBBoxShape(b))
}

func (ow *ObjWriter) Sphere(s *p3d.Sphere, rings, segments int) {
	ow.Shape(SphereShape(s, rings, segments))
}

func (ow *ObjWriter) Cylinder(c *p3d.Cylinder, segments int) {
	ow.Shape(CylinderShape(c, segments))
}

func (ow *ObjWriter) Intersect(it *p3d.Intersect) {
	ow.Shape(IntersectShape(it))
}

func (ow *ObjWriter) Trigger(t *p3d.Trigger) {
	s := TriggerShape(t, ow.opts.SphereRings, ow.opts.SphereSegments)
	s.Name = t.Name
	ow.Shape(s)
}

// Locator writes each trigger as its own object inside a group named after
// the locator.
func (ow *ObjWriter) Locator(l *p3d.Locator) {
	name := objName(l.Name)
	if name == "" {
		name = p3d.KIND_LOCATOR
	}
	ow.line("g %s", name)
	for i := range l.Triggers {
		ow.Trigger(&l.Triggers[i])
	}
}

func (ow *ObjWriter) Variant(v p3d.Variant) {
	switch v := v.(type) {
	case *p3d.Fence:
		ow.Fence(v, ow.opts.FenceHeight)
	case *p3d.OBBox:
		ow.OBBox(v)
	case *p3d.Sphere:
		ow.Sphere(v, ow.opts.SphereRings, ow.opts.SphereSegments)
	case *p3d.Cylinder:
		ow.Cylinder(v, ow.opts.CylinderSegments)
	case *p3d.Intersect:
		ow.Intersect(v)
	case *p3d.Locator:
		ow.Locator(v)
	}
}

func (ow *ObjWriter) Err() error {
	return ow.err
}

func ExportObj(w io.Writer, variants []p3d.Variant, opts ShapeOptions) error {
	ow := NewObjWriter(w, opts)
	for i, v := range variants {
		switch v.(type) {
		case *p3d.Fence, *p3d.OBBox, *p3d.Sphere, *p3d.Cylinder, *p3d.Intersect:
			ow.line("o %s_%d", v.Kind(), i)
		}
		ow.Variant(v)
	}
	return errors.Wrapf(ow.Err(), "writing obj")
}
