package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

// YawBasis returns the horizontal forward and right unit vectors for a yaw in
// radians. Yaw 0 faces +Z; positive yaw turns toward +X.
func YawBasis(yaw float64) (forward, right mgl64.Vec3) {
	rot := mgl64.Rotate3DY(yaw)
	forward = flatten(rot.Mul3x1(mgl64.Vec3{0, 0, 1}))
	right = flatten(rot.Mul3x1(mgl64.Vec3{1, 0, 0}))
	return forward, right
}

// InputVector maps a 2D input (x = strafe, y = forward) onto the yaw basis
// without normalizing. Its squared length equals the input's.
func InputVector(input mgl64.Vec2, yaw float64) mgl64.Vec3 {
	forward, right := YawBasis(yaw)
	return forward.Mul(input.Y()).Add(right.Mul(input.X()))
}

// MoveDirection is InputVector normalized; zero input gives the zero vector.
func MoveDirection(input mgl64.Vec2, yaw float64) mgl64.Vec3 {
	dir := InputVector(input, yaw)
	if dir.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return dir.Normalize()
}

// Heading returns the yaw that faces along dir in the horizontal plane.
func Heading(dir mgl64.Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}

// RotateY rotates a local offset by yaw around the vertical axis.
func RotateY(v mgl64.Vec3, yaw float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(yaw).Mul3x1(v)
}

func flatten(v mgl64.Vec3) mgl64.Vec3 {
	v[1] = 0
	if v.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}
