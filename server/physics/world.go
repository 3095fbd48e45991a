// Package physics is a small rigid-body world for the arena: upright
// cylinders on a floor plane at Y = 0, impassable wall footprints, and a
// resolv space as the XZ broadphase.
package physics

import (
	"math"
	"sort"

	"github.com/automoto/arenaball/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

const (
	skin        = 1e-4
	settleSpeed = 0.5 // vertical bounce speed below which a body sticks to the floor

	// resolv works in whole units and treats sizes as pixel spans, so the
	// broadphase runs in centimeters.
	unitsPerMeter = 100
)

// Contact reports two bodies that started touching. A is the ball and B the
// player; Point is B's center.
type Contact struct {
	A, B  BodyID
	Point mgl64.Vec3
}

// Rect is a wall footprint on the floor plane.
type Rect struct {
	X, Z, W, D float64
}

// Config sizes the world.
type Config struct {
	Width, Depth float64 // meters
	CellSize     int
	Gravity      float64
	Substeps     int
}

// World owns every body. It is not safe for concurrent use; the arena tick
// is its only caller.
type World struct {
	space    *resolv.Space
	probe    *resolv.Object
	gravity  float64
	substeps int

	bodies   map[BodyID]*Body
	order    []BodyID
	nextID   BodyID
	ignored  map[pairKey]struct{}
	touching map[pairKey]struct{}
	handlers []func(Contact)
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	cell := cfg.CellSize
	if cell < 1 {
		cell = 1
	}
	substeps := cfg.Substeps
	if substeps < 1 {
		substeps = 1
	}
	cellUnits := cell * unitsPerMeter
	w := &World{
		space: resolv.NewSpace(
			int(math.Ceil(cfg.Width*unitsPerMeter))+cellUnits,
			int(math.Ceil(cfg.Depth*unitsPerMeter))+cellUnits,
			cellUnits, cellUnits,
		),
		gravity:  cfg.Gravity,
		substeps: substeps,
		bodies:   make(map[BodyID]*Body),
		ignored:  make(map[pairKey]struct{}),
		touching: make(map[pairKey]struct{}),
	}
	w.probe = resolv.NewObject(0, 0, 1, 1, tags.ResolvProbe)
	w.space.Add(w.probe)
	return w
}

// AddWall adds an impassable footprint.
func (w *World) AddWall(r Rect) {
	obj := resolv.NewObject(r.X*unitsPerMeter, r.Z*unitsPerMeter, r.W*unitsPerMeter, r.D*unitsPerMeter, tags.ResolvSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, r.W*unitsPerMeter, r.D*unitsPerMeter))
	obj.Data = r
	w.space.Add(obj)
}

// AddBody inserts a body and returns its id.
func (w *World) AddBody(d BodyDesc) BodyID {
	w.nextID++
	tag := tags.ResolvPlayer
	if d.Kind == KindBall {
		tag = tags.ResolvBall
	}
	b := &Body{
		id:          w.nextID,
		kind:        d.Kind,
		pos:         d.Position,
		yaw:         d.Yaw,
		radius:      d.Radius,
		halfHeight:  d.HalfHeight,
		mass:        d.Mass,
		drag:        d.Drag,
		restitution: d.Restitution,
		useGravity:  d.UseGravity,
		kinematic:   d.Kinematic,
		obj:         resolv.NewObject(0, 0, 2*d.Radius*unitsPerMeter, 2*d.Radius*unitsPerMeter, tag),
	}
	if b.mass <= 0 {
		b.mass = 1
	}
	b.obj.Data = b.id
	w.clampToFloor(b)
	w.space.Add(b.obj)
	b.syncObject()

	w.bodies[b.id] = b
	w.order = append(w.order, b.id)
	return b.id
}

// RemoveBody deletes a body and forgets its pair state.
func (w *World) RemoveBody(id BodyID) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	w.space.Remove(b.obj)
	delete(w.bodies, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	for k := range w.ignored {
		if k.a == id || k.b == id {
			delete(w.ignored, k)
		}
	}
	w.forgetContacts(id)
}

// forgetContacts drops every pair id is currently touching, so overlaps that
// persist report a fresh contact-enter on the next step.
func (w *World) forgetContacts(id BodyID) {
	for k := range w.touching {
		if k.a == id || k.b == id {
			delete(w.touching, k)
		}
	}
}

// Body returns the body with the given id, or nil.
func (w *World) Body(id BodyID) *Body {
	return w.bodies[id]
}

// Move displaces a body by delta, sliding along walls and stopping at the floor.
func (w *World) Move(id BodyID, delta mgl64.Vec3) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	w.slide(b, delta.X(), delta.Z())
	b.pos[1] += delta.Y()
	w.clampToFloor(b)
}

// Teleport places a body without collision resolution.
func (w *World) Teleport(id BodyID, pos mgl64.Vec3) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	b.pos = pos
	b.onFloor = b.Bottom() <= skin
	b.syncObject()
}

func (w *World) SetYaw(id BodyID, yaw float64) {
	if b, ok := w.bodies[id]; ok {
		b.yaw = yaw
	}
}

func (w *World) SetVelocity(id BodyID, v mgl64.Vec3) {
	if b, ok := w.bodies[id]; ok {
		b.vel = v
	}
}

// ApplyImpulse changes velocity by impulse/mass. Kinematic bodies ignore it.
func (w *World) ApplyImpulse(id BodyID, impulse mgl64.Vec3) {
	b, ok := w.bodies[id]
	if !ok || b.kinematic {
		return
	}
	b.vel = b.vel.Add(impulse.Mul(1 / b.mass))
}

// SetKinematic switches a body between simulated and externally driven.
// Becoming kinematic clears its velocity. Becoming dynamic forgets its
// contacts, so bodies it already overlaps are entered again.
func (w *World) SetKinematic(id BodyID, kinematic bool) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	wasKinematic := b.kinematic
	b.kinematic = kinematic
	if kinematic {
		b.vel = mgl64.Vec3{}
		return
	}
	if wasKinematic {
		w.forgetContacts(id)
	}
}

func (w *World) SetGravity(id BodyID, on bool) {
	if b, ok := w.bodies[id]; ok {
		b.useGravity = on
	}
}

// IgnoreCollision suppresses or restores contacts between two bodies.
func (w *World) IgnoreCollision(a, b BodyID, ignore bool) {
	k := makePair(a, b)
	if ignore {
		w.ignored[k] = struct{}{}
		delete(w.touching, k)
		return
	}
	delete(w.ignored, k)
}

// Ignored reports whether contacts between a and b are suppressed.
func (w *World) Ignored(a, b BodyID) bool {
	_, ok := w.ignored[makePair(a, b)]
	return ok
}

// OnContact registers fn for contact-enter events. Handlers run synchronously
// inside Step and may mutate the world.
func (w *World) OnContact(fn func(Contact)) {
	w.handlers = append(w.handlers, fn)
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	h := dt / float64(w.substeps)
	for i := 0; i < w.substeps; i++ {
		for _, id := range w.order {
			b := w.bodies[id]
			if b.kinematic {
				continue
			}
			w.integrate(b, h)
		}
		w.detectContacts()
	}
}

func (w *World) integrate(b *Body, h float64) {
	if b.useGravity {
		b.vel[1] += w.gravity * h
	}
	if b.drag > 0 && (b.kind == KindPlayer || b.onFloor) {
		damp := math.Max(0, 1-b.drag*h)
		b.vel[0] *= damp
		b.vel[2] *= damp
	}

	hitX, hitZ := w.slide(b, b.vel.X()*h, b.vel.Z()*h)
	if hitX {
		b.vel[0] = -b.vel[0] * b.restitution
	}
	if hitZ {
		b.vel[2] = -b.vel[2] * b.restitution
	}

	b.pos[1] += b.vel.Y() * h
	w.clampToFloor(b)
}

// clampToFloor keeps the body above Y = 0, bouncing or settling downward motion.
func (w *World) clampToFloor(b *Body) {
	if b.Bottom() > skin {
		b.onFloor = false
		return
	}
	b.pos[1] = b.halfHeight
	b.onFloor = true
	if b.vel.Y() < 0 {
		b.vel[1] = -b.vel.Y() * b.restitution
		if b.vel.Y() < settleSpeed {
			b.vel[1] = 0
		}
	}
}

// slide moves the body along X then Z, pushing it out of any wall it enters.
// Long moves are split so no step exceeds the body radius.
func (w *World) slide(b *Body, dx, dz float64) (hitX, hitZ bool) {
	n := 1
	if b.radius > 0 {
		n = int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dz)) / b.radius))
		if n < 1 {
			n = 1
		}
	}
	sx, sz := dx/float64(n), dz/float64(n)
	for i := 0; i < n; i++ {
		if !hitX && sx != 0 {
			hitX = w.slideAxis(b, 0, sx)
		}
		if !hitZ && sz != 0 {
			hitZ = w.slideAxis(b, 2, sz)
		}
	}
	b.syncObject()
	return hitX, hitZ
}

// slideAxis moves along X (axis 0) or Z (axis 2) and reports a wall hit.
func (w *World) slideAxis(b *Body, axis int, d float64) bool {
	b.pos[axis] += d
	b.syncObject()
	hit := false
	for _, r := range w.wallsTouching(b) {
		hit = true
		lo, size := r.X, r.W
		if axis == 2 {
			lo, size = r.Z, r.D
		}
		if d > 0 {
			b.pos[axis] = math.Min(b.pos[axis], lo-b.radius-skin)
		} else {
			b.pos[axis] = math.Max(b.pos[axis], lo+size+b.radius+skin)
		}
	}
	if hit {
		b.syncObject()
	}
	return hit
}

func (w *World) wallsTouching(b *Body) []Rect {
	check := b.obj.Check(0, 0, tags.ResolvSolid)
	if check == nil {
		return nil
	}
	minX, maxX := b.pos.X()-b.radius, b.pos.X()+b.radius
	minZ, maxZ := b.pos.Z()-b.radius, b.pos.Z()+b.radius
	var out []Rect
	for _, o := range check.ObjectsByTags(tags.ResolvSolid) {
		r, ok := o.Data.(Rect)
		if !ok {
			continue
		}
		if maxX > r.X && minX < r.X+r.W && maxZ > r.Z && minZ < r.Z+r.D {
			out = append(out, r)
		}
	}
	return out
}

func (w *World) detectContacts() {
	now := make(map[pairKey]struct{}, len(w.touching))
	var entered []Contact

	for _, id := range w.order {
		ball := w.bodies[id]
		if ball.kind != KindBall {
			continue
		}
		check := ball.obj.Check(0, 0, tags.ResolvPlayer)
		if check == nil {
			continue
		}
		players := check.ObjectsByTags(tags.ResolvPlayer)
		ids := make([]BodyID, 0, len(players))
		for _, o := range players {
			if pid, ok := o.Data.(BodyID); ok {
				ids = append(ids, pid)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, pid := range ids {
			player := w.bodies[pid]
			if player == nil || !overlapping(ball, player) {
				continue
			}
			k := makePair(ball.id, player.id)
			if _, skip := w.ignored[k]; skip {
				continue
			}
			now[k] = struct{}{}
			if !ball.kinematic {
				separate(ball, player)
			}
			if _, was := w.touching[k]; !was {
				entered = append(entered, Contact{A: ball.id, B: player.id, Point: player.pos})
			}
		}
	}
	w.touching = now

	for _, c := range entered {
		for _, fn := range w.handlers {
			fn(c)
		}
	}
}

func overlapping(a, b *Body) bool {
	dx := a.pos.X() - b.pos.X()
	dz := a.pos.Z() - b.pos.Z()
	rr := a.radius + b.radius
	if dx*dx+dz*dz > rr*rr {
		return false
	}
	return a.Bottom() < b.Top() && b.Bottom() < a.Top()
}

// separate pushes a dynamic ball out of a player horizontally and reflects
// its approaching velocity.
func separate(ball, player *Body) {
	n := mgl64.Vec3{ball.pos.X() - player.pos.X(), 0, ball.pos.Z() - player.pos.Z()}
	dist := n.Len()
	if dist < 1e-9 {
		return
	}
	n = n.Mul(1 / dist)
	if pen := ball.radius + player.radius - dist; pen > 0 {
		ball.pos = ball.pos.Add(n.Mul(pen + skin))
		ball.syncObject()
	}
	if vn := ball.vel.Dot(n); vn < 0 {
		ball.vel = ball.vel.Sub(n.Mul((1 + ball.restitution) * vn))
	}
}
