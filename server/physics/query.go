package physics

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is a raycast result. Body is zero when the floor was hit.
type Hit struct {
	Body     BodyID
	Point    mgl64.Vec3
	Distance float64
}

// Raycast casts a ray against the floor plane and the top faces of bodies,
// ignoring the given body. dir need not be normalized.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64, ignore BodyID) (Hit, bool) {
	if dir.Len() < 1e-9 || maxDist <= 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	best := Hit{Distance: math.Inf(1)}
	found := false

	if dir.Y() < 0 {
		if t := -origin.Y() / dir.Y(); t >= 0 && t <= maxDist {
			best = Hit{Point: origin.Add(dir.Mul(t)), Distance: t}
			found = true
		}
		for _, id := range w.order {
			if id == ignore {
				continue
			}
			b := w.bodies[id]
			t := (b.Top() - origin.Y()) / dir.Y()
			if t < 0 || t > maxDist || t >= best.Distance {
				continue
			}
			p := origin.Add(dir.Mul(t))
			dx, dz := p.X()-b.pos.X(), p.Z()-b.pos.Z()
			if dx*dx+dz*dz <= b.radius*b.radius {
				best = Hit{Body: id, Point: p, Distance: t}
				found = true
			}
		}
	}
	return best, found
}

// OverlapSphere returns bodies with the given resolv tag whose volume
// intersects the sphere, nearest first.
func (w *World) OverlapSphere(center mgl64.Vec3, radius float64, tag string) []BodyID {
	w.probe.X = (center.X() - radius) * unitsPerMeter
	w.probe.Y = (center.Z() - radius) * unitsPerMeter
	w.probe.W = 2 * radius * unitsPerMeter
	w.probe.H = 2 * radius * unitsPerMeter
	w.probe.Update()

	check := w.probe.Check(0, 0, tag)
	if check == nil {
		return nil
	}

	type hit struct {
		id   BodyID
		dist float64
	}
	var hits []hit
	for _, o := range check.ObjectsByTags(tag) {
		id, ok := o.Data.(BodyID)
		if !ok {
			continue
		}
		b := w.bodies[id]
		if b == nil {
			continue
		}
		y := math.Max(b.Bottom(), math.Min(center.Y(), b.Top()))
		d := center.Sub(mgl64.Vec3{b.pos.X(), y, b.pos.Z()}).Len() - b.radius
		if d <= radius {
			hits = append(hits, hit{id, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].id < hits[j].id
	})

	out := make([]BodyID, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}
