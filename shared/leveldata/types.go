// Package leveldata parses arena TMX maps into plain data shared by the server
// and tools. It has no dependencies on donburi or resolv.
//
// One map tile is one meter. Map X becomes world X and map Y becomes world Z;
// the floor is the plane Y = 0.
package leveldata

// ArenaData holds everything the server needs from an arena map.
type ArenaData struct {
	Name         string
	Walls        []SolidRect
	PlayerSpawns []SpawnPoint
	BallSpawns   []SpawnPoint
	Width        float64 // meters along X
	Depth        float64 // meters along Z
}

// SolidRect is an impassable axis-aligned footprint on the floor plane.
type SolidRect struct {
	X, Z, W, D float64
}

// SpawnPoint is a floor location in meters.
type SpawnPoint struct {
	X, Z  float64
	Index int
}
