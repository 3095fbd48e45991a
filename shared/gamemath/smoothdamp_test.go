package gamemath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSmoothDampConverges(t *testing.T) {
	v, vel := 0.0, 0.0
	for i := 0; i < 200; i++ {
		v, vel = SmoothDamp(v, 10, vel, 0.1, 1.0/30)
		if v > 10+1e-9 {
			t.Fatalf("overshoot at step %d: %v", i, v)
		}
	}
	if math.Abs(v-10) > 1e-3 {
		t.Fatalf("did not converge: %v", v)
	}
}

func TestSmoothDampAngleTakesShortestArc(t *testing.T) {
	current := math.Pi - 0.1
	target := -math.Pi + 0.1
	next, _ := SmoothDampAngle(current, target, 0, 0.1, 1.0/30)
	if next < current {
		t.Fatalf("turned the long way: %v -> %v", current, next)
	}
}

func TestDeltaAngle(t *testing.T) {
	tests := []struct{ a, b, want float64 }{
		{0, math.Pi / 2, math.Pi / 2},
		{0, -math.Pi / 2, -math.Pi / 2},
		{math.Pi - 0.1, -math.Pi + 0.1, 0.2},
		{0, 2 * math.Pi, 0},
	}
	for _, tt := range tests {
		if got := DeltaAngle(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("DeltaAngle(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestYawBasis(t *testing.T) {
	fwd, right := YawBasis(0)
	if !fwd.ApproxEqual(mgl64.Vec3{0, 0, 1}) || !right.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("yaw 0 basis = %v, %v", fwd, right)
	}
	fwd, _ = YawBasis(math.Pi / 2)
	if !fwd.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("yaw 90 forward = %v", fwd)
	}
}

func TestMoveDirectionNormalized(t *testing.T) {
	dir := MoveDirection(mgl64.Vec2{1, 1}, 0)
	if math.Abs(dir.Len()-1) > 1e-9 {
		t.Fatalf("diagonal not normalized: %v", dir)
	}
	if h := Heading(dir); math.Abs(h-math.Pi/4) > 1e-9 {
		t.Fatalf("heading = %v, want π/4", h)
	}
	if d := MoveDirection(mgl64.Vec2{}, 1); d.Len() != 0 {
		t.Fatalf("zero input gave %v", d)
	}
}
