package p3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayloadGeometry(t *testing.T) {
	for _, test := range []struct {
		name    string
		tag     uint32
		payload []byte
		want    Variant
	}{
		{
			name:    "sphere",
			tag:     TAG_SPHERE,
			payload: spherePayload(2.5, 1, 2, 3),
			want:    &Sphere{Radius: 2.5, Position: mgl32.Vec3{1, 2, 3}},
		},
		{
			name:    "collisionvec",
			tag:     TAG_COLLISIONVEC,
			payload: vec3(-1, 0.5, 8),
			want:    &CollisionVec{X: -1, Y: 0.5, Z: 8},
		},
		{
			name:    "fence",
			tag:     TAG_FENCE,
			payload: leaf(TAG_WALL, cat(vec3(0, 0, 0), vec3(10, 0, 0), vec3(0, 0, 1))),
			want: &Fence{Wall{
				Start:  mgl32.Vec3{0, 0, 0},
				End:    mgl32.Vec3{10, 0, 0},
				Normal: mgl32.Vec3{0, 0, 1},
			}},
		},
		{
			name: "cylinder",
			tag:  TAG_CYLINDER,
			payload: cat(f32(1.5), f32(4), u16(1),
				inlineVec(5, 6, 7), inlineVec(0, 1, 0)),
			want: &Cylinder{
				Position: mgl32.Vec3{5, 6, 7},
				Axis:     mgl32.Vec3{0, 1, 0},
				Radius:   1.5,
				Length:   4,
				FlatEnd:  true,
			},
		},
		{
			name: "cylinder rounded",
			tag:  TAG_CYLINDER,
			payload: cat(f32(1), f32(2), u16(0),
				inlineVec(0, 0, 0), inlineVec(0, 0, 1)),
			want: &Cylinder{Axis: mgl32.Vec3{0, 0, 1}, Radius: 1, Length: 2},
		},
		{
			name: "obbox",
			tag:  TAG_OBBOX,
			payload: cat(vec3(1, 2, 3), inlineVec(10, 20, 30),
				inlineVec(1, 0, 0), inlineVec(0, 0, 1), inlineVec(0, -1, 0)),
			want: &OBBox{
				Extents:  mgl32.Vec3{1, 2, 3},
				Position: mgl32.Vec3{10, 20, 30},
				Orientation: mgl32.Mat3FromRows(
					mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}),
			},
		},
		{
			name: "intersect",
			tag:  TAG_INTERSECT,
			payload: cat(
				u32(3), u32(0), u32(1), u32(2),
				u32(3), vec3(0, 0, 0), vec3(1, 0, 0), vec3(0, 0, 1),
				u32(1), vec3(0, 1, 0)),
			want: &Intersect{
				Indices:   []uint32{0, 1, 2},
				Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
				Normals:   []mgl32.Vec3{{0, 1, 0}},
			},
		},
		{
			name:    "unknown",
			tag:     0x12345678,
			payload: []byte{1, 2, 3},
			want:    &Unknown{ChunkTag: 0x12345678},
		},
		{
			name: "root",
			tag:  TAG_ROOT,
			want: &Root{},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := DecodePayload(test.tag, test.payload)
			require.NoError(t, err)
			assert.Equal(t, test.want, v)
			assert.Equal(t, test.tag, v.Tag())
		})
	}
}

func TestOBBoxOrientationRows(t *testing.T) {
	payload := cat(vec3(1, 1, 1), inlineVec(0, 0, 0),
		inlineVec(1, 2, 3), inlineVec(4, 5, 6), inlineVec(7, 8, 9))
	v, err := DecodePayload(TAG_OBBOX, payload)
	require.NoError(t, err)

	box := v.(*OBBox)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, box.Orientation.Row(0))
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, box.Orientation.Row(1))
	assert.Equal(t, mgl32.Vec3{7, 8, 9}, box.Orientation.Row(2))
}

func TestDecodePayloadTruncated(t *testing.T) {
	for _, test := range []struct {
		name    string
		tag     uint32
		payload []byte
	}{
		{"sphere without position", TAG_SPHERE, f32(1)},
		{"sphere short vec", TAG_SPHERE, cat(f32(1), header(TAG_COLLISIONVEC, 24, 24), f32(1))},
		{"obbox missing row", TAG_OBBOX, cat(vec3(1, 1, 1), inlineVec(0, 0, 0), inlineVec(1, 0, 0))},
		{"intersect huge count", TAG_INTERSECT, cat(u32(0xFFFFFFFF), u32(1))},
		{"fence empty", TAG_FENCE, nil},
		{"collisionvec short", TAG_COLLISIONVEC, f32(1)},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := DecodePayload(test.tag, test.payload)
			assert.Nil(t, v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncatedInput), "got %v", err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, test.tag, de.Tag)
		})
	}
}

func TestLocatorDynamicZone(t *testing.T) {
	payload := locatorPayload("zone_l1", uint32(ELEMENT_DYNAMIC_ZONE),
		[]byte("ab\x00\x00\x00\x00\x00\x00"), [3]float32{1, 2, 3})

	v, err := DecodePayload(TAG_LOCATOR, payload)
	require.NoError(t, err)

	loc := v.(*Locator)
	assert.Equal(t, "zone_l1", loc.Name)
	assert.Equal(t, ELEMENT_DYNAMIC_ZONE, loc.ElementType)
	assert.Equal(t, &DynamicZone{Zone: "ab"}, loc.Elements)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, loc.Position)
	assert.Empty(t, loc.Triggers)
}

func TestLocatorSkipsOtherElementTypes(t *testing.T) {
	payload := locatorPayload("car", uint32(ELEMENT_CAR_START),
		cat(f32(1), f32(2), f32(3)), [3]float32{4, 5, 6})

	v, err := DecodePayload(TAG_LOCATOR, payload)
	require.NoError(t, err)

	loc := v.(*Locator)
	assert.Equal(t, &SkippedElements{Size: 12}, loc.Elements)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, loc.Position)
	assert.Equal(t, "CarStart", loc.ElementType.String())
}

func TestLocatorTriggers(t *testing.T) {
	m := identity
	m[0], m[2] = 0, 1
	m[12], m[13], m[14] = 100, 5, -20

	payload := locatorPayload("load1", uint32(ELEMENT_EVENT), u32(7), [3]float32{0, 0, 0},
		triggerRecord(TAG_TRIGGER, "t_sphere\x00\x00", uint32(TRIGGER_SPHERE), [3]float32{3, 3, 3}, identity),
		triggerRecord(TAG_TRIGGER, "t_box", uint32(TRIGGER_RECTANGLE), [3]float32{1, 2, 3}, m),
	)

	v, err := DecodePayload(TAG_LOCATOR, payload)
	require.NoError(t, err)

	loc := v.(*Locator)
	require.Len(t, loc.Triggers, 2)

	sphere := loc.Triggers[0]
	assert.Equal(t, "t_sphere", sphere.Name)
	assert.True(t, sphere.IsSphere())
	assert.Equal(t, mgl32.Ident4(), sphere.Matrix)

	box := loc.Triggers[1]
	assert.Equal(t, "t_box", box.Name)
	assert.False(t, box.IsSphere())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, box.Scale)
	assert.Equal(t, mgl32.Vec3{100, 5, -20}, box.Translation())
	assert.InDelta(t, math.Pi/2, float64(box.Yaw()), 1e-6)
}

func TestTriggerMagicMismatch(t *testing.T) {
	payload := locatorPayload("bad", uint32(ELEMENT_EVENT), nil, [3]float32{0, 0, 0},
		triggerRecord(TAG_WALL, "t", 0, [3]float32{1, 1, 1}, identity))
	file := container(TAG_ROOT, nil, leaf(TAG_LOCATOR, payload))

	node, err := Decode(file)
	assert.Nil(t, node)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMagicMismatch), "got %v", err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, uint32(TAG_LOCATOR), de.Tag)
	// root header, locator header, name, type, count, position, trigger count
	assert.Equal(t, HEADER_SIZE*2+1+len("bad")+4+4+12+4, de.Offset)
}

func TestLocatorElementBlockTruncated(t *testing.T) {
	payload := cat(pstr("x"), u32(uint32(ELEMENT_DYNAMIC_ZONE)), u32(100), []byte("ab"))
	_, err := DecodePayload(TAG_LOCATOR, payload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncatedInput))
}

func TestStringTrimming(t *testing.T) {
	payload := locatorPayload("a\x00b\x00\x00", uint32(ELEMENT_EVENT), nil, [3]float32{0, 0, 0})

	first, err := DecodePayload(TAG_LOCATOR, payload)
	require.NoError(t, err)
	second, err := DecodePayload(TAG_LOCATOR, payload)
	require.NoError(t, err)

	assert.Equal(t, "a\x00b", first.(*Locator).Name)
	assert.Equal(t, first.(*Locator).Name, second.(*Locator).Name)
}

func TestStringInvalidUTF8IsLossy(t *testing.T) {
	payload := locatorPayload("a\xffb", uint32(ELEMENT_EVENT), nil, [3]float32{0, 0, 0})

	v, err := DecodePayload(TAG_LOCATOR, payload)
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFDb", v.(*Locator).Name)
}

func TestElementTypeString(t *testing.T) {
	assert.Equal(t, "Event", ELEMENT_EVENT.String())
	assert.Equal(t, "DynamicZone", ELEMENT_DYNAMIC_ZONE.String())
	assert.Equal(t, "SpawnPoint", ELEMENT_SPAWN_POINT.String())
	assert.Equal(t, "Unknown(42)", ElementType(42).String())
}
