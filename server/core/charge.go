package core

import (
	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/shared/gamemath"
)

// ChargeThrowModel converts time spent charging into throw power and force.
type ChargeThrowModel struct {
	cfg config.ThrowConfig
}

func NewChargeThrowModel(cfg config.ThrowConfig) *ChargeThrowModel {
	return &ChargeThrowModel{cfg: cfg}
}

// Start begins charging. Ignored unless the player holds a ball; repeated
// starts keep the time already accumulated.
func (c *ChargeThrowModel) Start(p *Player) bool {
	if p.HeldBall == nil {
		return false
	}
	if !p.Charging {
		p.Charging = true
		p.ChargeTime = 0
	}
	return true
}

// Accumulate adds dt while the player is holding and charging.
func (c *ChargeThrowModel) Accumulate(p *Player, dt float64) {
	if !p.Charging || p.HeldBall == nil {
		return
	}
	p.ChargeTime = gamemath.ClampCharge(p.ChargeTime+dt, c.cfg.MaxChargeTime)
}

// Release returns the power fraction and impulse magnitude for the current
// charge, then resets it.
func (c *ChargeThrowModel) Release(p *Player) (power, force float64) {
	power = gamemath.PowerPercent(p.ChargeTime, c.cfg.MaxChargeTime)
	force = gamemath.CalculateThrowForce(c.cfg.MinForce, c.cfg.MaxForce, power)
	c.Reset(p)
	return power, force
}

// Reset clears charge state.
func (c *ChargeThrowModel) Reset(p *Player) {
	p.Charging = false
	p.ChargeTime = 0
}

// Ratio is the replicated charge fraction.
func (c *ChargeThrowModel) Ratio(p *Player) float64 {
	if !p.Charging {
		return 0
	}
	return gamemath.PowerPercent(p.ChargeTime, c.cfg.MaxChargeTime)
}
