package tags

import "github.com/yohamta/donburi"

var (
	Player = donburi.NewTag().SetName("Player")
	Ball   = donburi.NewTag().SetName("Ball")
)

// Resolv tags for physics collision
const (
	ResolvSolid  = "solid"
	ResolvPlayer = "player"
	ResolvBall   = "ball"
	ResolvProbe  = "probe"
)
