package config

import "github.com/go-gl/mathgl/mgl64"

// MovementConfig controls server-side player locomotion.
type MovementConfig struct {
	MoveSpeed           float64 `json:"moveSpeed" jsonschema:"description=Horizontal speed in meters per second,minimum=0"`
	RotationSmoothTime  float64 `json:"rotationSmoothTime" jsonschema:"description=Approximate seconds to reach the target heading,exclusiveMinimum=0"`
	JumpImpulse         float64 `json:"jumpImpulse" jsonschema:"description=Upward impulse applied on jump,minimum=0"`
	GroundCheckDistance float64 `json:"groundCheckDistance" jsonschema:"description=Downward raycast length from the body center,exclusiveMinimum=0"`
	InputEpsilon        float64 `json:"inputEpsilon" jsonschema:"description=Squared input magnitude below which the player stands still,minimum=0"`
}

// PlayerConfig describes the player body.
type PlayerConfig struct {
	Radius         float64 `json:"radius" jsonschema:"exclusiveMinimum=0"`
	HalfHeight     float64 `json:"halfHeight" jsonschema:"exclusiveMinimum=0"`
	Mass           float64 `json:"mass" jsonschema:"exclusiveMinimum=0"`
	Drag           float64 `json:"drag" jsonschema:"description=Horizontal velocity damping per second,minimum=0"`
	StartingHealth int     `json:"startingHealth"`
	Palette        int     `json:"palette" jsonschema:"description=Number of cosmetic colour slots,minimum=1"`
}

// BallConfig describes the ball body and possession.
type BallConfig struct {
	Radius       float64    `json:"radius" jsonschema:"exclusiveMinimum=0"`
	Mass         float64    `json:"mass" jsonschema:"exclusiveMinimum=0"`
	PickupRadius float64    `json:"pickupRadius" jsonschema:"exclusiveMinimum=0"`
	HoldSocket   mgl64.Vec3 `json:"holdSocket" jsonschema:"description=Held ball offset from the holder center in holder space"`
	Restitution  float64    `json:"restitution" jsonschema:"minimum=0,maximum=1"`
	Drag         float64    `json:"drag" jsonschema:"description=Horizontal damping per second while touching the floor,minimum=0"`
	RestSpeed    float64    `json:"restSpeed" jsonschema:"description=Speed below which a grounded thrown ball becomes free,minimum=0"`
}

// ThrowConfig is the charge-to-force model.
type ThrowConfig struct {
	MaxChargeTime float64 `json:"maxChargeTime" jsonschema:"exclusiveMinimum=0"`
	MinForce      float64 `json:"minForce" jsonschema:"minimum=0"`
	MaxForce      float64 `json:"maxForce" jsonschema:"minimum=0"`
}

// CombatConfig scales ball hits by power.
type CombatConfig struct {
	MaxDamage    int     `json:"maxDamage" jsonschema:"minimum=0"`
	MaxKnockback float64 `json:"maxKnockback" jsonschema:"minimum=0"`
}

// PhysicsConfig tunes the world integrator.
type PhysicsConfig struct {
	Gravity  float64 `json:"gravity" jsonschema:"description=Vertical acceleration (negative is down)"`
	Substeps int     `json:"substeps" jsonschema:"minimum=1"`
	CellSize int     `json:"cellSize" jsonschema:"description=Broadphase cell size in meters,minimum=1"`
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	TickRate   int    `json:"tickRate" jsonschema:"minimum=1"`
	MaxPlayers int    `json:"maxPlayers" jsonschema:"minimum=1"`
	Name       string `json:"name"`
	Version    string `json:"version"`
}

// Tuning is the complete set of gameplay parameters. Components take a copy
// at construction so a running arena never observes a half-applied change.
type Tuning struct {
	Movement MovementConfig `json:"movement"`
	Player   PlayerConfig   `json:"player"`
	Ball     BallConfig     `json:"ball"`
	Throw    ThrowConfig    `json:"throw"`
	Combat   CombatConfig   `json:"combat"`
	Physics  PhysicsConfig  `json:"physics"`
	Server   ServerConfig   `json:"server"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		Movement: MovementConfig{
			MoveSpeed:           5.0,
			RotationSmoothTime:  0.1,
			JumpImpulse:         5.0,
			GroundCheckDistance: 1.0,
			InputEpsilon:        0.01,
		},
		Player: PlayerConfig{
			Radius:         0.4,
			HalfHeight:     0.9,
			Mass:           1.0,
			Drag:           4.0,
			StartingHealth: 100,
			Palette:        4,
		},
		Ball: BallConfig{
			Radius:       0.25,
			Mass:         1.0,
			PickupRadius: 1.5,
			HoldSocket:   mgl64.Vec3{0, 0.3, 0.7},
			Restitution:  0.5,
			Drag:         1.5,
			RestSpeed:    0.2,
		},
		Throw: ThrowConfig{
			MaxChargeTime: 2.0,
			MinForce:      5.0,
			MaxForce:      25.0,
		},
		Combat: CombatConfig{
			MaxDamage:    20,
			MaxKnockback: 15.0,
		},
		Physics: PhysicsConfig{
			Gravity:  -9.81,
			Substeps: 4,
			CellSize: 2,
		},
		Server: ServerConfig{
			TickRate:   30,
			MaxPlayers: 8,
			Name:       "ArenaBall Server",
		},
	}
}
