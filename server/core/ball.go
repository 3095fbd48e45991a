package core

import (
	"github.com/automoto/arenaball/server/physics"
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/yohamta/donburi"
)

// Ball is a shared projectile. Holder, State and LastOwner change only
// through the PossessionManager.
type Ball struct {
	ID     uint32
	Entity donburi.Entity
	Body   physics.BodyID

	State     netconfig.BallState
	Holder    *Player
	LastOwner uint32 // player id of the most recent holder, 0 if never held
	Power     float64
}

// HolderID returns the holder's player id, or 0.
func (b *Ball) HolderID() uint32 {
	if b.Holder == nil {
		return 0
	}
	return b.Holder.ID
}
