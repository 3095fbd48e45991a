package core

import (
	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// HitResult describes one resolved ball hit.
type HitResult struct {
	Ball      *Ball
	Attacker  uint32
	Target    *Player
	Power     float64
	Damage    int
	Health    int
	Knockback mgl64.Vec3
}

// CombatResolver turns ball-player contacts into damage and knockback.
type CombatResolver struct {
	cfg    config.CombatConfig
	world  PhysicsWorld
	health *ReplicatedHealthStore
	log    *zap.Logger
}

func NewCombatResolver(cfg config.CombatConfig, world PhysicsWorld, health *ReplicatedHealthStore, log *zap.Logger) *CombatResolver {
	return &CombatResolver{cfg: cfg, world: world, health: health, log: log.Named("combat")}
}

// Resolve applies a contact between b and target at contactPoint. It returns
// false without touching any state when the ball is held or target is the
// ball's last owner. Otherwise the hit lands, even at zero power, and the
// ball's power is spent.
func (c *CombatResolver) Resolve(b *Ball, target *Player, contactPoint mgl64.Vec3) (HitResult, bool) {
	if b.Holder != nil || target.ID == b.LastOwner {
		return HitResult{}, false
	}
	ballBody := c.world.Body(b.Body)
	if ballBody == nil {
		c.log.Warn("contact with missing ball body", zap.Uint32("ball", b.ID))
		return HitResult{}, false
	}

	res := HitResult{
		Ball:      b,
		Attacker:  b.LastOwner,
		Target:    target,
		Power:     b.Power,
		Damage:    gamemath.CalculateDamage(c.cfg.MaxDamage, b.Power),
		Knockback: gamemath.CalculateKnockback(contactPoint, ballBody.Position(), c.cfg.MaxKnockback, b.Power),
	}

	hp, ok := c.health.apply(target, res.Damage)
	if !ok {
		c.log.Warn("hit player without health", zap.Uint32("player", target.ID))
	}
	res.Health = hp
	c.world.ApplyImpulse(target.Body, res.Knockback)
	b.Power = 0

	c.log.Debug("ball hit",
		zap.Uint32("ball", b.ID),
		zap.Uint32("attacker", res.Attacker),
		zap.Uint32("target", target.ID),
		zap.Int("damage", res.Damage),
		zap.Int("health", hp),
	)
	return res, true
}
