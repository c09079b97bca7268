package p3d

import "fmt"

const (
	TAG_ROOT         = 0xFF443350 // "P3D\xff"
	TAG_WALL         = 0x03000000
	TAG_LOCATOR      = 0x03000005
	TAG_TRIGGER      = 0x03000006
	TAG_INTERSECT    = 0x03F00003
	TAG_FENCE        = 0x03F00007
	TAG_SPHERE       = 0x07010002
	TAG_CYLINDER     = 0x07010003
	TAG_OBBOX        = 0x07010004
	TAG_COLLISIONVEC = 0x07010007
)

var tagNames = map[uint32]string{
	TAG_ROOT:         "Root",
	TAG_WALL:         "Wall",
	TAG_LOCATOR:      "Locator",
	TAG_TRIGGER:      "Trigger",
	TAG_INTERSECT:    "Intersect",
	TAG_FENCE:        "Fence",
	TAG_SPHERE:       "Sphere",
	TAG_CYLINDER:     "Cylinder",
	TAG_OBBOX:        "OBBox",
	TAG_COLLISIONVEC: "CollisionVec",
}

// TagName returns the catalog name of tag, or its hex value.
func TagName(tag uint32) string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return fmt.Sprintf("0x%.8x", tag)
}

// IsKnownTag reports whether tag has a dedicated decoder. Wall and
// Trigger only occur embedded in other payloads and are not dispatched.
func IsKnownTag(tag uint32) bool {
	switch tag {
	case TAG_ROOT, TAG_FENCE, TAG_OBBOX, TAG_SPHERE, TAG_CYLINDER,
		TAG_COLLISIONVEC, TAG_INTERSECT, TAG_LOCATOR:
		return true
	}
	return false
}

// IsContainer reports whether chunks with this tag may own child chunks.
// Only the root marker and unrecognized tags do; every decoded
// geometry or locator tag is a leaf.
func IsContainer(tag uint32) bool {
	return tag == TAG_ROOT || !IsKnownTag(tag)
}
