package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// YawFromMatrix returns the rotation around Y of a transform, in radians.
func YawFromMatrix(m mgl32.Mat4) float32 {
	return float32(math.Atan2(float64(m[2]), float64(m[0])))
}

// AnyPerpendicular returns some unit vector orthogonal to v.
func AnyPerpendicular(v mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if math.Abs(float64(v.X())) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	p := v.Cross(axis)
	if p.Len() == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return p.Normalize()
}
