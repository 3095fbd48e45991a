package messages

// MoveInput carries the latest movement axes and camera yaw. The server keeps
// only the most recent one per player.
type MoveInput struct {
	X, Y float64 // strafe, forward; expected in [-1, 1] but not clamped
	Yaw  float64 // camera yaw in radians, 0 faces +Z
}

// Jump requests a jump on the next tick. Ignored while airborne.
type Jump struct{}

// PickupBall requests pickup of the nearest free ball in reach.
type PickupBall struct{}

// StartCharge begins charging a throw. Ignored unless holding a ball.
type StartCharge struct{}

// ReleaseThrow throws the held ball with the accumulated charge.
type ReleaseThrow struct{}
