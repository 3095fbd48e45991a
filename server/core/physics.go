package core

import (
	"github.com/automoto/arenaball/server/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// PhysicsWorld is the simulation capability the gameplay core drives.
// *physics.World implements it.
type PhysicsWorld interface {
	AddBody(d physics.BodyDesc) physics.BodyID
	RemoveBody(id physics.BodyID)
	Body(id physics.BodyID) *physics.Body

	Move(id physics.BodyID, delta mgl64.Vec3)
	Teleport(id physics.BodyID, pos mgl64.Vec3)
	SetYaw(id physics.BodyID, yaw float64)
	SetVelocity(id physics.BodyID, v mgl64.Vec3)
	ApplyImpulse(id physics.BodyID, impulse mgl64.Vec3)
	SetKinematic(id physics.BodyID, kinematic bool)
	SetGravity(id physics.BodyID, on bool)
	IgnoreCollision(a, b physics.BodyID, ignore bool)

	Raycast(origin, dir mgl64.Vec3, maxDist float64, ignore physics.BodyID) (physics.Hit, bool)
	OverlapSphere(center mgl64.Vec3, radius float64, tag string) []physics.BodyID
	OnContact(fn func(physics.Contact))
	Step(dt float64)
}

var _ PhysicsWorld = (*physics.World)(nil)
