// Package netconfig defines lightweight types shared between client and server
// for network serialization. It has no dependencies so bots and the dedicated
// server can both import it.
package netconfig

// StateID identifies a player's replicated activity.
type StateID int

const (
	Idle StateID = iota
	Running
	Airborne
	Holding
	Charging
	Throw
	Hit
)

var stateNames = map[StateID]string{
	Idle:     "idle",
	Running:  "running",
	Airborne: "airborne",
	Holding:  "holding",
	Charging: "charging",
	Throw:    "throw",
	Hit:      "hit",
}

func (s StateID) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// BallState is the possession state of a ball.
type BallState int

const (
	BallFree BallState = iota
	BallHeld
	BallThrown
)

func (s BallState) String() string {
	switch s {
	case BallFree:
		return "free"
	case BallHeld:
		return "held"
	case BallThrown:
		return "thrown"
	}
	return "unknown"
}

// ActionID names a discrete client request latched in a player's mailbox.
type ActionID int

const (
	ActionJump ActionID = iota
	ActionPickup
	ActionStartCharge
	ActionReleaseThrow
	ActionCount // Must be last - used for array sizing
)

func (a ActionID) String() string {
	switch a {
	case ActionJump:
		return "jump"
	case ActionPickup:
		return "pickup"
	case ActionStartCharge:
		return "start_charge"
	case ActionReleaseThrow:
		return "release_throw"
	}
	return "unknown"
}
