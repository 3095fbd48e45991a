package gamemath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCalculateDamageMonotonic(t *testing.T) {
	prev := -1
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		d := CalculateDamage(20, p)
		if d < prev {
			t.Fatalf("damage decreased at power %.2f: %d < %d", p, d, prev)
		}
		if again := CalculateDamage(20, p); again != d {
			t.Fatalf("damage not deterministic at power %.2f: %d vs %d", p, d, again)
		}
		prev = d
	}
	if got := CalculateDamage(20, 1); got != 20 {
		t.Fatalf("full power damage = %d, want 20", got)
	}
	if got := CalculateDamage(20, 0); got != 0 {
		t.Fatalf("zero power damage = %d, want 0", got)
	}
}

func TestCalculateDamageRoundsHalfToEven(t *testing.T) {
	// 20 * 0.125 = 2.5 -> 2, 20 * 0.375 = 7.5 -> 8
	if got := CalculateDamage(20, 0.125); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got := CalculateDamage(20, 0.375); got != 8 {
		t.Fatalf("got %d, want 8", got)
	}
}

func TestPowerPercentAndForce(t *testing.T) {
	const maxCharge, minF, maxF = 2.0, 5.0, 25.0
	tests := []struct {
		charge    float64
		wantPct   float64
		wantForce float64
	}{
		{0, 0, minF},
		{maxCharge / 2, 0.5, (minF + maxF) / 2},
		{maxCharge, 1, maxF},
		{maxCharge * 3, 1, maxF},
	}
	for _, tt := range tests {
		pct := PowerPercent(tt.charge, maxCharge)
		if math.Abs(pct-tt.wantPct) > 1e-12 {
			t.Fatalf("PowerPercent(%v) = %v, want %v", tt.charge, pct, tt.wantPct)
		}
		if f := CalculateThrowForce(minF, maxF, pct); math.Abs(f-tt.wantForce) > 1e-12 {
			t.Fatalf("force at %v = %v, want %v", tt.charge, f, tt.wantForce)
		}
	}
}

func TestClampCharge(t *testing.T) {
	if got := ClampCharge(-1, 2); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := ClampCharge(5, 2); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestCalculateKnockback(t *testing.T) {
	k := CalculateKnockback(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 0, 0}, 15, 0.5)
	if math.Abs(k.X()-7.5) > 1e-9 || k.Y() != 0 || k.Z() != 0 {
		t.Fatalf("knockback = %v, want (7.5,0,0)", k)
	}
	if k := CalculateKnockback(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, 15, 1); k.Len() != 0 {
		t.Fatalf("coincident points gave %v", k)
	}
}
