package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads a JSON tuning file and overlays it on the defaults. Fields absent
// from the file keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate reports every out-of-range parameter.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(t.Movement.MoveSpeed >= 0, "movement.moveSpeed must be >= 0, got %v", t.Movement.MoveSpeed)
	check(t.Movement.RotationSmoothTime > 0, "movement.rotationSmoothTime must be > 0, got %v", t.Movement.RotationSmoothTime)
	check(t.Movement.JumpImpulse >= 0, "movement.jumpImpulse must be >= 0, got %v", t.Movement.JumpImpulse)
	check(t.Movement.GroundCheckDistance > 0, "movement.groundCheckDistance must be > 0, got %v", t.Movement.GroundCheckDistance)
	check(t.Movement.InputEpsilon >= 0, "movement.inputEpsilon must be >= 0, got %v", t.Movement.InputEpsilon)

	check(t.Player.Radius > 0, "player.radius must be > 0, got %v", t.Player.Radius)
	check(t.Player.HalfHeight > 0, "player.halfHeight must be > 0, got %v", t.Player.HalfHeight)
	check(t.Player.Mass > 0, "player.mass must be > 0, got %v", t.Player.Mass)
	check(t.Player.Drag >= 0, "player.drag must be >= 0, got %v", t.Player.Drag)
	check(t.Player.Palette >= 1, "player.palette must be >= 1, got %d", t.Player.Palette)

	check(t.Ball.Radius > 0, "ball.radius must be > 0, got %v", t.Ball.Radius)
	check(t.Ball.Mass > 0, "ball.mass must be > 0, got %v", t.Ball.Mass)
	check(t.Ball.PickupRadius > 0, "ball.pickupRadius must be > 0, got %v", t.Ball.PickupRadius)
	check(t.Ball.Drag >= 0, "ball.drag must be >= 0, got %v", t.Ball.Drag)
	check(t.Ball.RestSpeed >= 0, "ball.restSpeed must be >= 0, got %v", t.Ball.RestSpeed)
	check(t.Ball.Restitution >= 0 && t.Ball.Restitution <= 1, "ball.restitution must be in [0,1], got %v", t.Ball.Restitution)

	check(t.Throw.MaxChargeTime > 0, "throw.maxChargeTime must be > 0, got %v", t.Throw.MaxChargeTime)
	check(t.Throw.MinForce >= 0, "throw.minForce must be >= 0, got %v", t.Throw.MinForce)
	check(t.Throw.MaxForce >= t.Throw.MinForce, "throw.maxForce (%v) must be >= minForce (%v)", t.Throw.MaxForce, t.Throw.MinForce)

	check(t.Combat.MaxDamage >= 0, "combat.maxDamage must be >= 0, got %d", t.Combat.MaxDamage)
	check(t.Combat.MaxKnockback >= 0, "combat.maxKnockback must be >= 0, got %v", t.Combat.MaxKnockback)

	check(t.Physics.Substeps >= 1, "physics.substeps must be >= 1, got %d", t.Physics.Substeps)
	check(t.Physics.CellSize >= 1, "physics.cellSize must be >= 1, got %d", t.Physics.CellSize)

	check(t.Server.TickRate >= 1, "server.tickRate must be >= 1, got %d", t.Server.TickRate)
	check(t.Server.MaxPlayers >= 1, "server.maxPlayers must be >= 1, got %d", t.Server.MaxPlayers)

	return errors.Join(errs...)
}

// TickDelta returns the fixed simulation step in seconds.
func (t Tuning) TickDelta() float64 {
	return 1.0 / float64(t.Server.TickRate)
}
