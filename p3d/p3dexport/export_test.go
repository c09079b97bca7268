package p3dexport

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shar-tools/p3d_browser/p3d"
)

func testVariants() []p3d.Variant {
	return []p3d.Variant{
		&p3d.Fence{Wall: p3d.Wall{Start: mgl32.Vec3{0, 0, 0}, End: mgl32.Vec3{10, 0, 0}}},
		&p3d.Sphere{Radius: 2, Position: mgl32.Vec3{1, 1, 1}},
		&p3d.CollisionVec{X: 1},
		&p3d.OBBox{
			Extents:     mgl32.Vec3{1, 2, 3},
			Orientation: mgl32.Ident3(),
		},
		&p3d.Locator{Name: "zone", Triggers: []p3d.Trigger{
			{Name: "a", TypeOf: p3d.TRIGGER_RECTANGLE, Scale: mgl32.Vec3{1, 1, 1}, Matrix: mgl32.Ident4()},
		}},
	}
}

func maxIndex(s Shape) uint32 {
	var m uint32
	for _, i := range s.Indices {
		if i > m {
			m = i
		}
	}
	return m
}

func TestShapesIndicesInRange(t *testing.T) {
	for _, test := range []struct {
		name  string
		shape Shape
	}{
		{"fence", FenceShape(&p3d.Fence{}, 5)},
		{"sphere", SphereShape(&p3d.Sphere{Radius: 1}, 6, 8)},
		{"flat cylinder", CylinderShape(&p3d.Cylinder{Radius: 1, Length: 2, Axis: mgl32.Vec3{0, 1, 0}, FlatEnd: true}, 8)},
		{"rounded cylinder", CylinderShape(&p3d.Cylinder{Radius: 1, Length: 2}, 8)},
		{"obbox", OBBoxShape(&p3d.OBBox{Extents: mgl32.Vec3{1, 1, 1}, Orientation: mgl32.Ident3()})},
		{"sphere trigger", TriggerShape(&p3d.Trigger{TypeOf: p3d.TRIGGER_SPHERE, Scale: mgl32.Vec3{3, 3, 3}, Matrix: mgl32.Ident4()}, 4, 4)},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.NotEmpty(t, test.shape.Indices)
			assert.Zero(t, len(test.shape.Indices)%3)
			assert.Less(t, maxIndex(test.shape), uint32(len(test.shape.Positions)))
		})
	}
}

func TestFenceShapeHeight(t *testing.T) {
	s := FenceShape(&p3d.Fence{Wall: p3d.Wall{Start: mgl32.Vec3{0, 0, 0}, End: mgl32.Vec3{4, 0, 0}}}, 5)
	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {4, 0, 0}, {4, 5, 0}, {0, 5, 0}}, s.Positions)
}

func TestOBBoxCorners(t *testing.T) {
	s := OBBoxShape(&p3d.OBBox{
		Extents:     mgl32.Vec3{1, 2, 3},
		Position:    mgl32.Vec3{10, 0, 0},
		Orientation: mgl32.Ident3(),
	})
	require.Len(t, s.Positions, 8)
	assert.Equal(t, mgl32.Vec3{9, -2, -3}, s.Positions[0])
	assert.Equal(t, mgl32.Vec3{11, 2, 3}, s.Positions[7])
	assert.Len(t, s.Indices, 36)
}

func TestTriggerShapeUsesTranslation(t *testing.T) {
	m := mgl32.Translate3D(5, 6, 7)
	s := TriggerShape(&p3d.Trigger{TypeOf: p3d.TRIGGER_RECTANGLE, Scale: mgl32.Vec3{1, 1, 1}, Matrix: m}, 4, 4)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, s.Positions[0])
	assert.Equal(t, mgl32.Vec3{6, 7, 8}, s.Positions[7])
}

func TestIntersectShapeDropsBadTriangles(t *testing.T) {
	s := IntersectShape(&p3d.Intersect{
		Indices:   []uint32{0, 1, 2, 0, 2, 9},
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
	})
	assert.Equal(t, []uint32{0, 1, 2}, s.Indices)
}

func TestShapesNaming(t *testing.T) {
	shapes := Shapes(testVariants(), DefaultShapeOptions)
	var names []string
	for _, s := range shapes {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"fence_0", "sphere_1", "obbox_3", "locator_4_zone"}, names)
}

func TestExportObj(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportObj(&buf, testVariants(), DefaultShapeOptions))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "o fence_0\nv 0.000000 0.000000 0.000000\n"))
	assert.Contains(t, out, "f 1 2 3\n")
	assert.Contains(t, out, "g zone\n")
	assert.Contains(t, out, "o a\n")

	// indices continue across objects and stay within the vertex count
	var vertices, maxFace int
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			vertices++
		case "f":
			for _, f := range fields[1:] {
				var i int
				_, err := fmt.Sscan(f, &i)
				require.NoError(t, err)
				if i > maxFace {
					maxFace = i
				}
			}
		}
	}
	assert.Equal(t, vertices, maxFace)
}

func TestExportObjNames(t *testing.T) {
	assert.Equal(t, "pit_lane__stop", objName("pit lane\r\nstop"))
	assert.Equal(t, "zone\u00e9", objName("zone\u00e9"))

	trigger := p3d.Trigger{Name: "a b\tc", Scale: mgl32.Vec3{1, 1, 1}, Matrix: mgl32.Ident4()}
	var buf bytes.Buffer
	require.NoError(t, ExportObj(&buf, []p3d.Variant{
		&p3d.Locator{Name: "pit lane\nstop", Triggers: []p3d.Trigger{trigger}},
		&p3d.Locator{Triggers: []p3d.Trigger{trigger}},
	}, DefaultShapeOptions))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		fields := strings.Fields(line)
		require.NotEmpty(t, fields, "%q", line)
		switch fields[0] {
		case "o", "g":
			assert.Len(t, fields, 2, "%q", line)
		case "v", "f":
		default:
			t.Errorf("unexpected line %q", line)
		}
	}
	assert.Contains(t, lines, "g pit_lane_stop")
	assert.Contains(t, lines, "o a_b_c")
	assert.Contains(t, lines, "g locator")
}

func TestExportGLTF(t *testing.T) {
	doc := ExportGLTF(testVariants(), DefaultShapeOptions)
	assert.Len(t, doc.Meshes, 4)
	assert.Len(t, doc.Nodes, 4)
	assert.Len(t, doc.Scenes[0].Nodes, 4)
	assert.Equal(t, "sphere_1", doc.Nodes[1].Name)

	var buf bytes.Buffer
	require.NoError(t, WriteGLB(&buf, testVariants(), DefaultShapeOptions))
	assert.Equal(t, "glTF", buf.String()[:4])
}
