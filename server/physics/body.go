package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

// BodyID identifies a body within a World. Zero is never assigned and stands
// for the floor in raycast hits.
type BodyID uint32

// Kind selects the resolv tag a body is indexed under.
type Kind int

const (
	KindPlayer Kind = iota
	KindBall
)

// BodyDesc describes a body to add. Bodies are upright cylinders of the given
// radius spanning Position.Y ± HalfHeight; a ball uses HalfHeight == Radius.
type BodyDesc struct {
	Kind        Kind
	Position    mgl64.Vec3
	Yaw         float64
	Radius      float64
	HalfHeight  float64
	Mass        float64
	Drag        float64
	Restitution float64
	UseGravity  bool
	Kinematic   bool
}

// Body is a simulated rigid body. Fields are read through accessors; all
// mutation goes through World so the broadphase stays in sync.
type Body struct {
	id          BodyID
	kind        Kind
	pos         mgl64.Vec3
	vel         mgl64.Vec3
	yaw         float64
	radius      float64
	halfHeight  float64
	mass        float64
	drag        float64
	restitution float64
	useGravity  bool
	kinematic   bool
	onFloor     bool
	obj         *resolv.Object
}

func (b *Body) ID() BodyID { return b.id }
func (b *Body) Kind() Kind { return b.kind }
func (b *Body) Position() mgl64.Vec3 { return b.pos }
func (b *Body) Velocity() mgl64.Vec3 { return b.vel }
func (b *Body) Yaw() float64 { return b.yaw }
func (b *Body) Radius() float64 { return b.radius }
func (b *Body) HalfHeight() float64 { return b.halfHeight }
func (b *Body) Kinematic() bool { return b.kinematic }
func (b *Body) UseGravity() bool { return b.useGravity }
func (b *Body) OnFloor() bool { return b.onFloor }
func (b *Body) Bottom() float64 { return b.pos.Y() - b.halfHeight }
func (b *Body) Top() float64 { return b.pos.Y() + b.halfHeight }
func (b *Body) Speed() float64 { return b.vel.Len() }

// syncObject moves the broadphase footprint to the body's XZ position.
func (b *Body) syncObject() {
	b.obj.X = (b.pos.X() - b.radius) * unitsPerMeter
	b.obj.Y = (b.pos.Z() - b.radius) * unitsPerMeter
	b.obj.Update()
}

type pairKey struct{ a, b BodyID }

func makePair(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}
