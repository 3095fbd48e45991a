package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/server/physics"
	"github.com/automoto/arenaball/shared/leveldata"
	"github.com/automoto/arenaball/shared/messages"
	"github.com/automoto/arenaball/shared/netcomponents"
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/automoto/arenaball/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// hitFlashTicks is how long a player's replicated state reads Hit.
const hitFlashTicks = 6

// Arena is one authoritative match: the ECS world, the physics world and the
// gameplay components. Everything except player mailboxes is confined to the
// goroutine calling Tick.
type Arena struct {
	tuning config.Tuning
	level  *leveldata.ArenaData
	log    *zap.Logger

	world donburi.World
	phys  PhysicsWorld

	movement   *MovementSimulator
	charge     *ChargeThrowModel
	possession *PossessionManager
	combat     *CombatResolver
	health     *ReplicatedHealthStore

	players      []*Player
	playerByID   map[uint32]*Player
	playerByBody map[physics.BodyID]*Player
	balls        []*Ball
	ballByBody   map[physics.BodyID]*Ball
	nextPlayerID uint32
	joined       int

	events  EventSink
	repl    Replicator
	metrics *Metrics
	tick    uint64
}

// ArenaOption customises NewArena.
type ArenaOption func(*Arena)

// WithWorld uses an existing ECS world, e.g. one already bound to srvsync.
func WithWorld(w donburi.World) ArenaOption { return func(a *Arena) { a.world = w } }

func WithEvents(s EventSink) ArenaOption { return func(a *Arena) { a.events = s } }

func WithReplicator(r Replicator) ArenaOption { return func(a *Arena) { a.repl = r } }

func WithMetrics(m *Metrics) ArenaOption { return func(a *Arena) { a.metrics = m } }

// NewArena builds the arena described by level and spawns one ball per ball
// spawn point.
func NewArena(tuning config.Tuning, level *leveldata.ArenaData, log *zap.Logger, opts ...ArenaOption) (*Arena, error) {
	a := &Arena{
		tuning:       tuning,
		level:        level,
		log:          log.Named("arena"),
		playerByID:   make(map[uint32]*Player),
		playerByBody: make(map[physics.BodyID]*Player),
		ballByBody:   make(map[physics.BodyID]*Ball),
		events:       discardEvents{},
		repl:         localOnly{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.world == nil {
		a.world = donburi.NewWorld()
	}
	if a.metrics == nil {
		a.metrics = &Metrics{}
	}

	phys := NewLevelWorld(level, tuning.Physics)
	a.phys = phys
	a.movement = NewMovementSimulator(tuning.Movement, phys)
	a.charge = NewChargeThrowModel(tuning.Throw)
	a.possession = NewPossessionManager(tuning.Ball, phys, a.charge, log)
	a.health = NewReplicatedHealthStore(a.world)
	a.combat = NewCombatResolver(tuning.Combat, phys, a.health, log)
	phys.OnContact(a.onContact)

	if len(level.BallSpawns) == 0 {
		a.log.Error("arena has no ball spawn points, no balls spawned", zap.String("arena", level.Name))
	}
	for _, sp := range level.BallSpawns {
		if _, err := a.spawnBall(mgl64.Vec3{sp.X, tuning.Ball.Radius, sp.Z}); err != nil {
			return nil, err
		}
	}

	a.log.Info("arena ready",
		zap.String("arena", level.Name),
		zap.Int("walls", len(level.Walls)),
		zap.Int("player_spawns", len(level.PlayerSpawns)),
		zap.Int("balls", len(a.balls)),
	)
	return a, nil
}

func (a *Arena) spawnBall(pos mgl64.Vec3) (*Ball, error) {
	cfg := a.tuning.Ball
	body := a.phys.AddBody(physics.BodyDesc{
		Kind:        physics.KindBall,
		Position:    pos,
		Radius:      cfg.Radius,
		HalfHeight:  cfg.Radius,
		Mass:        cfg.Mass,
		Drag:        cfg.Drag,
		Restitution: cfg.Restitution,
		UseGravity:  true,
	})

	entity := a.world.Create(tags.Ball, netcomponents.NetTransform, netcomponents.NetBall)
	b := &Ball{ID: uint32(len(a.balls) + 1), Entity: entity, Body: body, State: netconfig.BallFree}
	netcomponents.NetBall.SetValue(a.world.Entry(entity), netcomponents.NetBallData{BallID: b.ID, UseGravity: true})

	if err := a.repl.TrackBall(a.world, entity); err != nil {
		return nil, fmt.Errorf("sync ball %d: %w", b.ID, err)
	}

	a.balls = append(a.balls, b)
	a.ballByBody[body] = b
	a.possession.Track(b)
	a.writeBall(b)
	return b, nil
}

// AddPlayer spawns a player at the next spawn point.
func (a *Arena) AddPlayer(name string) (*Player, error) {
	cfg := a.tuning.Player
	index := a.joined
	a.joined++
	a.nextPlayerID++

	spawn := mgl64.Vec3{a.level.Width / 2, cfg.HalfHeight, a.level.Depth / 2}
	if n := len(a.level.PlayerSpawns); n > 0 {
		sp := a.level.PlayerSpawns[index%n]
		spawn = mgl64.Vec3{sp.X, cfg.HalfHeight, sp.Z}
	} else {
		a.log.Warn("arena has no player spawn points, using center", zap.String("arena", a.level.Name))
	}

	p := &Player{
		ID:      a.nextPlayerID,
		Name:    name,
		Index:   index,
		Mailbox: &InputMailbox{},
		Body: a.phys.AddBody(physics.BodyDesc{
			Kind:       physics.KindPlayer,
			Position:   spawn,
			Radius:     cfg.Radius,
			HalfHeight: cfg.HalfHeight,
			Mass:       cfg.Mass,
			Drag:       cfg.Drag,
			UseGravity: true,
		}),
	}
	p.Entity = a.world.Create(tags.Player, netcomponents.NetTransform, netcomponents.NetPlayerState)
	netcomponents.NetPlayerState.SetValue(a.world.Entry(p.Entity), netcomponents.NetPlayerStateData{
		PlayerID:   p.ID,
		StateID:    netconfig.Idle,
		ColorIndex: index % cfg.Palette,
	})
	a.health.set(p, cfg.StartingHealth)

	if err := a.repl.TrackPlayer(a.world, p.Entity); err != nil {
		a.phys.RemoveBody(p.Body)
		a.world.Remove(p.Entity)
		return nil, fmt.Errorf("sync player %d: %w", p.ID, err)
	}

	a.players = append(a.players, p)
	a.playerByID[p.ID] = p
	a.playerByBody[p.Body] = p
	a.writePlayer(p)

	a.log.Info("player joined", zap.Uint32("player", p.ID), zap.String("name", name), zap.Int("index", index))
	return p, nil
}

// RemovePlayer drops anything the player holds and deletes it.
func (a *Arena) RemovePlayer(id uint32) {
	p, ok := a.playerByID[id]
	if !ok {
		return
	}
	if b, dropped := a.possession.Drop(p); dropped {
		a.metrics.Drops.Add(1)
		a.writeBall(b)
		a.events.Publish(messages.BallDroppedEvent{BallID: b.ID, PlayerID: p.ID})
	}

	a.phys.RemoveBody(p.Body)
	if a.world.Valid(p.Entity) {
		a.world.Remove(p.Entity)
	}
	delete(a.playerByID, id)
	delete(a.playerByBody, p.Body)
	for i, q := range a.players {
		if q == p {
			a.players = append(a.players[:i], a.players[i+1:]...)
			break
		}
	}
	a.log.Info("player left", zap.Uint32("player", id))
}

type actionRequest struct {
	player  *Player
	action  netconfig.ActionID
	receipt uint64
}

// Tick advances the match by dt seconds.
func (a *Arena) Tick(dt float64) {
	start := time.Now()
	a.tick++

	jumps := make(map[*Player]bool, len(a.players))
	var requests []actionRequest
	for _, p := range a.players {
		f := p.Mailbox.Consume()
		if f.HasMove {
			a.applyMove(p, f.Move)
		}
		jumps[p] = f.Has(netconfig.ActionJump)
		for _, act := range []netconfig.ActionID{netconfig.ActionPickup, netconfig.ActionStartCharge, netconfig.ActionReleaseThrow} {
			if f.Has(act) {
				requests = append(requests, actionRequest{p, act, f.Actions[act]})
			}
		}
	}

	// Requests are served in the order the server received them.
	sort.Slice(requests, func(i, j int) bool { return requests[i].receipt < requests[j].receipt })
	for _, r := range requests {
		switch r.action {
		case netconfig.ActionPickup:
			a.pickup(r.player)
		case netconfig.ActionStartCharge:
			a.startCharge(r.player)
		case netconfig.ActionReleaseThrow:
			a.releaseThrow(r.player)
		}
	}

	for _, p := range a.players {
		a.movement.Step(p, jumps[p], dt)
	}
	for _, p := range a.players {
		a.charge.Accumulate(p, dt)
	}
	a.possession.Follow()

	a.phys.Step(dt)

	a.possession.Settle()
	for _, p := range a.players {
		if p.hitTicks > 0 {
			p.hitTicks--
		}
		a.writePlayer(p)
	}
	for _, b := range a.balls {
		a.writeBall(b)
	}

	a.metrics.AddTick(time.Since(start).Nanoseconds())
}

func (a *Arena) applyMove(p *Player, in messages.MoveInput) {
	if !finite(in.X) || !finite(in.Y) || !finite(in.Yaw) {
		a.metrics.ActionsIgnored.Add(1)
		return
	}
	p.Input = mgl64.Vec2{in.X, in.Y}
	p.LookYaw = in.Yaw
	p.HasLook = true
}

func (a *Arena) pickup(p *Player) {
	b, ok := a.possession.Pickup(p)
	if !ok {
		a.metrics.ActionsIgnored.Add(1)
		a.log.Debug("pickup ignored", zap.Uint32("player", p.ID))
		return
	}
	a.metrics.Pickups.Add(1)
	a.events.Publish(messages.BallPickedUpEvent{BallID: b.ID, PlayerID: p.ID})
}

func (a *Arena) startCharge(p *Player) {
	wasCharging := p.Charging
	if !a.charge.Start(p) {
		a.metrics.ActionsIgnored.Add(1)
		return
	}
	if !wasCharging {
		a.events.Publish(messages.ChargeStartedEvent{PlayerID: p.ID})
	}
}

func (a *Arena) releaseThrow(p *Player) {
	if p.HeldBall == nil {
		a.metrics.ActionsIgnored.Add(1)
		return
	}
	power, force := a.charge.Release(p)
	dir := AimDirection(p, a.phys)
	b, ok := a.possession.Throw(p, dir, power, force)
	if !ok {
		a.metrics.ActionsIgnored.Add(1)
		return
	}
	a.metrics.Throws.Add(1)
	a.events.Publish(messages.BallThrownEvent{
		BallID:   b.ID,
		PlayerID: p.ID,
		Power:    power,
		Force:    force,
		DirX:     dir.X(),
		DirY:     dir.Y(),
		DirZ:     dir.Z(),
	})
}

func (a *Arena) onContact(c physics.Contact) {
	b, target := a.ballByBody[c.A], a.playerByBody[c.B]
	if b == nil || target == nil {
		a.log.Debug("contact with unknown body", zap.Uint32("a", uint32(c.A)), zap.Uint32("b", uint32(c.B)))
		return
	}
	res, ok := a.combat.Resolve(b, target, c.Point)
	if !ok {
		a.metrics.HitsSkipped.Add(1)
		return
	}
	if res.Damage == 0 && res.Knockback.Len() == 0 {
		// Spent or resting ball: a bump, not a hit.
		return
	}
	target.hitTicks = hitFlashTicks
	a.metrics.Hits.Add(1)
	a.metrics.DamageDealt.Add(int64(res.Damage))
	a.events.Publish(messages.BallHitEvent{
		BallID:     b.ID,
		AttackerID: res.Attacker,
		TargetID:   target.ID,
		Damage:     res.Damage,
		Health:     res.Health,
		Power:      res.Power,
		KnockbackX: res.Knockback.X(),
		KnockbackY: res.Knockback.Y(),
		KnockbackZ: res.Knockback.Z(),
	})
}

func (a *Arena) writePlayer(p *Player) {
	body := a.phys.Body(p.Body)
	if body == nil || !a.world.Valid(p.Entity) {
		return
	}
	entry := a.world.Entry(p.Entity)
	pos := body.Position()
	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{X: pos.X(), Y: pos.Y(), Z: pos.Z(), Yaw: body.Yaw()})

	state := netcomponents.NetPlayerState.Get(entry)
	state.StateID = a.playerState(p)
	state.Grounded = p.Grounded
	state.ChargeRatio = a.charge.Ratio(p)
	state.HeldBallID = 0
	if p.HeldBall != nil {
		state.HeldBallID = p.HeldBall.ID
	}
}

func (a *Arena) playerState(p *Player) netconfig.StateID {
	switch {
	case p.hitTicks > 0:
		return netconfig.Hit
	case p.Charging:
		return netconfig.Charging
	case p.HeldBall != nil:
		return netconfig.Holding
	case !p.Grounded:
		return netconfig.Airborne
	case p.Input.Dot(p.Input) > a.tuning.Movement.InputEpsilon:
		return netconfig.Running
	}
	return netconfig.Idle
}

func (a *Arena) writeBall(b *Ball) {
	body := a.phys.Body(b.Body)
	if body == nil || !a.world.Valid(b.Entity) {
		return
	}
	entry := a.world.Entry(b.Entity)
	pos := body.Position()
	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{X: pos.X(), Y: pos.Y(), Z: pos.Z()})
	netcomponents.NetBall.SetValue(entry, netcomponents.NetBallData{
		BallID:      b.ID,
		State:       b.State,
		HolderID:    b.HolderID(),
		LastOwnerID: b.LastOwner,
		Power:       b.Power,
		Kinematic:   body.Kinematic(),
		UseGravity:  body.UseGravity(),
	})
}

// World returns the ECS world holding the replicated components.
func (a *Arena) World() donburi.World { return a.world }

// Physics returns the simulation world.
func (a *Arena) Physics() PhysicsWorld { return a.phys }

// Metrics returns the arena counters.
func (a *Arena) Metrics() *Metrics { return a.metrics }

// Player looks up a player by id.
func (a *Arena) Player(id uint32) *Player { return a.playerByID[id] }

// Players returns players in join order.
func (a *Arena) Players() []*Player { return a.players }

// Balls returns every ball.
func (a *Arena) Balls() []*Ball { return a.balls }

// Health returns a player's replicated health.
func (a *Arena) Health(p *Player) (int, bool) { return a.health.Health(p) }

// TickCount is the number of ticks run so far.
func (a *Arena) TickCount() uint64 { return a.tick }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
