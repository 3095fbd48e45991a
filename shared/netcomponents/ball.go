package netcomponents

import (
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetBallData struct {
	BallID      uint32
	State       netconfig.BallState
	HolderID    uint32 // PlayerID of the holder, 0 when not held
	LastOwnerID uint32
	Power       float64
	Kinematic   bool
	UseGravity  bool
}

var NetBall = donburi.NewComponentType[NetBallData]()
