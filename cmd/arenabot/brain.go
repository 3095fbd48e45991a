package main

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type action int

const (
	actPickup action = iota
	actStartCharge
	actRelease
	actJump
)

// brain decides what a bot sends each step. It walks forward while sweeping
// its yaw back and forth, grabs balls and throws them after a fixed charge.
type brain struct {
	sweep *gween.Sequence

	chargeFor   float64
	pickupEvery float64
	jumpEvery   float64

	holding   bool
	charging  bool
	charged   float64
	sincePick float64
	sinceJump float64
	yaw       float64
}

func newBrain(sweepSeconds, chargeFor float64) *brain {
	half := float32(sweepSeconds / 2)
	seq := gween.NewSequence()
	seq.Add(
		gween.New(0, 2*math.Pi, half, ease.InOutSine),
		gween.New(2*math.Pi, 0, half, ease.InOutSine),
	)
	return &brain{
		sweep:       seq,
		chargeFor:   chargeFor,
		pickupEvery: 0.5,
		jumpEvery:   3,
	}
}

// setHolding records possession reported by the server.
func (b *brain) setHolding(h bool) {
	b.holding = h
	if !h {
		b.charging = false
		b.charged = 0
	}
}

// step advances dt seconds and returns the stick axes, yaw and actions to send.
func (b *brain) step(dt float64) (x, y, yaw float64, acts []action) {
	v, _, done := b.sweep.Update(float32(dt))
	if done {
		b.sweep.Reset()
	}
	b.yaw = float64(v)

	b.sinceJump += dt
	if b.sinceJump >= b.jumpEvery {
		b.sinceJump = 0
		acts = append(acts, actJump)
	}

	switch {
	case !b.holding:
		b.sincePick += dt
		if b.sincePick >= b.pickupEvery {
			b.sincePick = 0
			acts = append(acts, actPickup)
		}
	case !b.charging:
		b.charging = true
		b.charged = 0
		acts = append(acts, actStartCharge)
	default:
		b.charged += dt
		if b.charged >= b.chargeFor {
			acts = append(acts, actRelease)
			b.setHolding(false)
		}
	}

	return 0, 1, b.yaw, acts
}
