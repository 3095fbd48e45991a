package netcomponents

import (
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetPlayerStateData struct {
	PlayerID    uint32
	StateID     netconfig.StateID
	Health      int // server authoritative, may go negative
	Grounded    bool
	ChargeRatio float64
	HeldBallID  uint32 // 0 when empty handed
	ColorIndex  int
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
