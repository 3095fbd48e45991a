package core

import (
	"github.com/automoto/arenaball/server/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Player is the server-side state of a connected player. Everything here is
// owned by the tick goroutine except Mailbox.
type Player struct {
	ID      uint32
	Name    string
	Index   int // join order, drives spawn point and colour
	Entity  donburi.Entity
	Body    physics.BodyID
	Mailbox *InputMailbox

	// Movement
	Grounded    bool
	YawVelocity float64
	Input       mgl64.Vec2
	LookYaw     float64
	HasLook     bool

	// Combat
	Charging   bool
	ChargeTime float64
	HeldBall   *Ball

	hitTicks int // remaining ticks the replicated state shows a hit
}
