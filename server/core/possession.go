package core

import (
	"sort"
	"sync"

	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/server/physics"
	"github.com/automoto/arenaball/shared/gamemath"
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/automoto/arenaball/tags"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// PossessionManager owns the ball ownership table. Every transition runs
// under one mutex and re-checks the holder before writing it, so two requests
// for the same ball can never both succeed.
type PossessionManager struct {
	mu     sync.Mutex
	cfg    config.BallConfig
	world  PhysicsWorld
	charge *ChargeThrowModel
	log    *zap.Logger

	byBody map[physics.BodyID]*Ball
}

func NewPossessionManager(cfg config.BallConfig, world PhysicsWorld, charge *ChargeThrowModel, log *zap.Logger) *PossessionManager {
	return &PossessionManager{
		cfg:    cfg,
		world:  world,
		charge: charge,
		log:    log.Named("possession"),
		byBody: make(map[physics.BodyID]*Ball),
	}
}

// Track makes a ball eligible for possession.
func (pm *PossessionManager) Track(b *Ball) {
	pm.mu.Lock()
	pm.byBody[b.Body] = b
	pm.mu.Unlock()
}

// Pickup gives p the nearest unheld ball within reach. It returns false when
// p already holds a ball or nothing eligible is in range.
func (pm *PossessionManager) Pickup(p *Player) (*Ball, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if p.HeldBall != nil {
		return nil, false
	}
	body := pm.world.Body(p.Body)
	if body == nil {
		pm.log.Warn("pickup for player without body", zap.Uint32("player", p.ID))
		return nil, false
	}

	for _, id := range pm.world.OverlapSphere(body.Position(), pm.cfg.PickupRadius, tags.ResolvBall) {
		b, ok := pm.byBody[id]
		if !ok || b.Holder != nil {
			continue
		}

		b.Holder = p
		b.State = netconfig.BallHeld
		b.LastOwner = p.ID
		b.Power = 0
		p.HeldBall = b

		pm.world.IgnoreCollision(b.Body, p.Body, true)
		pm.world.SetKinematic(b.Body, true)
		pm.world.SetGravity(b.Body, false)
		pm.world.Teleport(b.Body, pm.socket(p))
		return b, true
	}
	return nil, false
}

// Throw releases p's ball along dir with the given impulse magnitude and
// stamps it with power. Only the current holder may throw.
func (pm *PossessionManager) Throw(p *Player, dir mgl64.Vec3, power, force float64) (*Ball, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	b := p.HeldBall
	if b == nil || b.Holder != p {
		return nil, false
	}
	pm.release(p, b)
	b.State = netconfig.BallThrown
	b.Power = power
	pm.world.ApplyImpulse(b.Body, dir.Mul(force))
	return b, true
}

// Drop releases p's ball in place with no power, e.g. when p leaves.
func (pm *PossessionManager) Drop(p *Player) (*Ball, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	b := p.HeldBall
	if b == nil || b.Holder != p {
		return nil, false
	}
	pm.release(p, b)
	b.State = netconfig.BallFree
	b.Power = 0
	return b, true
}

func (pm *PossessionManager) release(p *Player, b *Ball) {
	b.Holder = nil
	p.HeldBall = nil
	pm.charge.Reset(p)

	pm.world.SetKinematic(b.Body, false)
	pm.world.SetGravity(b.Body, true)
	pm.world.IgnoreCollision(b.Body, p.Body, false)
}

// Follow snaps every held ball to its holder's hold socket.
func (pm *PossessionManager) Follow() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, b := range pm.byBody {
		if b.Holder != nil {
			pm.world.Teleport(b.Body, pm.socket(b.Holder))
		}
	}
}

// Settle marks thrown balls that have come to rest on the floor as free.
func (pm *PossessionManager) Settle() []*Ball {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	var settled []*Ball
	for _, b := range pm.byBody {
		if b.State != netconfig.BallThrown {
			continue
		}
		body := pm.world.Body(b.Body)
		if body != nil && body.OnFloor() && body.Speed() < pm.cfg.RestSpeed {
			b.State = netconfig.BallFree
			settled = append(settled, b)
		}
	}
	sort.Slice(settled, func(i, j int) bool { return settled[i].ID < settled[j].ID })
	return settled
}

func (pm *PossessionManager) socket(p *Player) mgl64.Vec3 {
	body := pm.world.Body(p.Body)
	if body == nil {
		return mgl64.Vec3{}
	}
	return body.Position().Add(gamemath.RotateY(pm.cfg.HoldSocket, body.Yaw()))
}
