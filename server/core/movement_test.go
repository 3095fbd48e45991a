package core

import (
	"math"
	"testing"

	"github.com/automoto/arenaball/config"
	"github.com/go-gl/mathgl/mgl64"
)

func TestMovementFollowsCameraYaw(t *testing.T) {
	tests := []struct {
		name  string
		input mgl64.Vec2
		yaw   float64
		want  mgl64.Vec3 // displacement direction
	}{
		{"forward at yaw 0", mgl64.Vec2{0, 1}, 0, mgl64.Vec3{0, 0, 1}},
		{"forward at quarter turn", mgl64.Vec2{0, 1}, math.Pi / 2, mgl64.Vec3{1, 0, 0}},
		{"strafe right at yaw 0", mgl64.Vec2{1, 0}, 0, mgl64.Vec3{1, 0, 0}},
		{"backward at half turn", mgl64.Vec2{0, -1}, math.Pi, mgl64.Vec3{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Movement
			w := newTestWorld()
			p := addTestPlayer(w, 1, 10, 10)
			sim := NewMovementSimulator(cfg, w)

			p.Input = tt.input
			p.LookYaw = tt.yaw
			before := w.Body(p.Body).Position()
			sim.Step(p, false, 0.1)
			moved := w.Body(p.Body).Position().Sub(before)

			want := tt.want.Mul(cfg.MoveSpeed * 0.1)
			if !moved.ApproxEqualThreshold(want, 1e-9) {
				t.Fatalf("moved %v, want %v", moved, want)
			}
		})
	}
}

func TestMovementTurnsTowardHeading(t *testing.T) {
	w := newTestWorld()
	p := addTestPlayer(w, 1, 2, 10) // walks about 10m along +X
	sim := NewMovementSimulator(config.Default().Movement, w)

	p.Input = mgl64.Vec2{0, 1}
	p.LookYaw = math.Pi / 2

	sim.Step(p, false, testDT)
	first := w.Body(p.Body).Yaw()
	if first <= 0 || first >= math.Pi/2 {
		t.Fatalf("yaw after one step = %v, want strictly between 0 and pi/2", first)
	}

	for i := 0; i < 60; i++ {
		sim.Step(p, false, testDT)
	}
	if got := w.Body(p.Body).Yaw(); math.Abs(got-math.Pi/2) > 1e-3 {
		t.Fatalf("yaw after settling = %v, want pi/2", got)
	}
}

func TestMovementIgnoresTinyInput(t *testing.T) {
	w := newTestWorld()
	p := addTestPlayer(w, 1, 10, 10)
	sim := NewMovementSimulator(config.Default().Movement, w)

	// 0.05^2 + 0.05^2 = 0.005, inside the 0.01 deadzone.
	p.Input = mgl64.Vec2{0.05, 0.05}
	before := w.Body(p.Body).Position()
	sim.Step(p, false, 0.1)
	if !w.Body(p.Body).Position().ApproxEqual(before) {
		t.Fatalf("drift input moved the player to %v", w.Body(p.Body).Position())
	}
	if p.YawVelocity != 0 || w.Body(p.Body).Yaw() != 0 {
		t.Fatal("drift input turned the player")
	}

	// Just outside the deadzone moves at full speed.
	p.Input = mgl64.Vec2{0, 0.2}
	sim.Step(p, false, 0.1)
	moved := w.Body(p.Body).Position().Sub(before)
	if want := config.Default().Movement.MoveSpeed * 0.1; math.Abs(moved.Len()-want) > 1e-9 {
		t.Fatalf("moved %v, want %v", moved.Len(), want)
	}
}

func TestJumpOnlyWhenGrounded(t *testing.T) {
	cfg := config.Default().Movement
	w := newTestWorld()
	p := addTestPlayer(w, 1, 10, 10)
	sim := NewMovementSimulator(cfg, w)

	sim.Step(p, true, testDT)
	if !p.Grounded {
		t.Fatal("player standing on the floor should be grounded")
	}
	if vy := w.Body(p.Body).Velocity().Y(); math.Abs(vy-cfg.JumpImpulse) > 1e-9 {
		t.Fatalf("vertical velocity after jump = %v, want %v", vy, cfg.JumpImpulse)
	}

	// Airborne: the request is discarded, not deferred.
	w.Teleport(p.Body, mgl64.Vec3{10, 3, 10})
	w.SetVelocity(p.Body, mgl64.Vec3{})
	sim.Step(p, true, testDT)
	if p.Grounded {
		t.Fatal("player 3m up should not be grounded")
	}
	if vy := w.Body(p.Body).Velocity().Y(); vy != 0 {
		t.Fatalf("airborne jump applied impulse, vy = %v", vy)
	}
	sim.Step(p, false, testDT)
	if vy := w.Body(p.Body).Velocity().Y(); vy != 0 {
		t.Fatalf("discarded jump fired later, vy = %v", vy)
	}
}

func TestAimDirectionFallsBackToBodyYaw(t *testing.T) {
	w := newTestWorld()
	p := addTestPlayer(w, 1, 10, 10)
	w.SetYaw(p.Body, math.Pi/2)

	if got := AimDirection(p, w); !got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("aim without look = %v, want +X", got)
	}

	p.LookYaw, p.HasLook = 0, true
	if got := AimDirection(p, w); !got.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Fatalf("aim with look = %v, want +Z", got)
	}
}
