package netcomponents

import (
	"github.com/automoto/arenaball/shared/gamemath"
	"github.com/yohamta/donburi"
)

// NetTransformData is the replicated pose of a player or ball.
type NetTransformData struct {
	X, Y, Z float64
	Yaw     float64
}

var NetTransform = donburi.NewComponentType[NetTransformData]()

// LerpNetTransform interpolates position linearly and yaw along the shortest arc.
func LerpNetTransform(from, to NetTransformData, t float64) *NetTransformData {
	return &NetTransformData{
		X:   from.X + (to.X-from.X)*t,
		Y:   from.Y + (to.Y-from.Y)*t,
		Z:   from.Z + (to.Z-from.Z)*t,
		Yaw: from.Yaw + gamemath.DeltaAngle(from.Yaw, to.Yaw)*t,
	}
}
