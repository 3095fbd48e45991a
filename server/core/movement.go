package core

import (
	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
)

// MovementSimulator turns a player's latest input into authoritative motion.
type MovementSimulator struct {
	cfg   config.MovementConfig
	world PhysicsWorld
}

func NewMovementSimulator(cfg config.MovementConfig, world PhysicsWorld) *MovementSimulator {
	return &MovementSimulator{cfg: cfg, world: world}
}

// Step advances one player by dt. The grounded flag is sampled first and is
// the only thing a jump request is checked against.
func (m *MovementSimulator) Step(p *Player, jump bool, dt float64) {
	body := m.world.Body(p.Body)
	if body == nil {
		return
	}

	origin := body.Position()
	_, p.Grounded = m.world.Raycast(origin, gamemath.Up.Mul(-1), m.cfg.GroundCheckDistance, p.Body)

	// Stick drift below the deadzone stands still; anything above moves at
	// full speed.
	if raw := gamemath.InputVector(p.Input, p.LookYaw); raw.Dot(raw) > m.cfg.InputEpsilon {
		dir := raw.Normalize()
		m.world.Move(p.Body, dir.Mul(m.cfg.MoveSpeed*dt))

		yaw, vel := gamemath.SmoothDampAngle(body.Yaw(), gamemath.Heading(dir), p.YawVelocity, m.cfg.RotationSmoothTime, dt)
		p.YawVelocity = vel
		m.world.SetYaw(p.Body, gamemath.NormalizeAngle(yaw))
	}

	if jump && p.Grounded {
		m.world.ApplyImpulse(p.Body, gamemath.Up.Mul(m.cfg.JumpImpulse))
	}
}

// AimDirection is the throw direction: camera forward when the client has
// sent a look yaw, body forward otherwise.
func AimDirection(p *Player, world PhysicsWorld) mgl64.Vec3 {
	yaw := p.LookYaw
	if !p.HasLook {
		if body := world.Body(p.Body); body != nil {
			yaw = body.Yaw()
		}
	}
	forward, _ := gamemath.YawBasis(yaw)
	return forward
}
