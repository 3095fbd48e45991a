package core

import (
	"math"
	"testing"

	"github.com/automoto/arenaball/config"
)

func TestChargeRequiresBall(t *testing.T) {
	c := NewChargeThrowModel(config.Default().Throw)
	p := &Player{}

	if c.Start(p) {
		t.Fatal("Start succeeded without a ball")
	}
	c.Accumulate(p, 1)
	if p.Charging || p.ChargeTime != 0 {
		t.Fatalf("empty-handed player accumulated charge: %+v", p)
	}
}

func TestChargeClampsAtMax(t *testing.T) {
	cfg := config.Default().Throw
	c := NewChargeThrowModel(cfg)
	p := &Player{HeldBall: &Ball{}}

	c.Start(p)
	for i := 0; i < 200; i++ {
		c.Accumulate(p, testDT)
	}
	if p.ChargeTime != cfg.MaxChargeTime {
		t.Fatalf("charge time = %v, want clamp at %v", p.ChargeTime, cfg.MaxChargeTime)
	}
	if r := c.Ratio(p); r != 1 {
		t.Fatalf("ratio = %v, want 1", r)
	}
}

func TestRepeatedStartKeepsCharge(t *testing.T) {
	c := NewChargeThrowModel(config.Default().Throw)
	p := &Player{HeldBall: &Ball{}}

	c.Start(p)
	c.Accumulate(p, 0.5)
	c.Start(p)
	if p.ChargeTime != 0.5 {
		t.Fatalf("second Start reset charge to %v", p.ChargeTime)
	}
}

func TestReleasePowerAndForce(t *testing.T) {
	cfg := config.Default().Throw // 2s, 5..25

	tests := []struct {
		charge    float64
		wantPower float64
		wantForce float64
	}{
		{0, 0, cfg.MinForce},
		{cfg.MaxChargeTime / 2, 0.5, (cfg.MinForce + cfg.MaxForce) / 2},
		{cfg.MaxChargeTime, 1, cfg.MaxForce},
		{cfg.MaxChargeTime * 3, 1, cfg.MaxForce},
	}

	for _, tt := range tests {
		c := NewChargeThrowModel(cfg)
		p := &Player{HeldBall: &Ball{}}
		c.Start(p)
		c.Accumulate(p, tt.charge)

		power, force := c.Release(p)
		if math.Abs(power-tt.wantPower) > 1e-12 || math.Abs(force-tt.wantForce) > 1e-12 {
			t.Fatalf("charge %v: got power %v force %v, want %v %v",
				tt.charge, power, force, tt.wantPower, tt.wantForce)
		}
		if p.Charging || p.ChargeTime != 0 {
			t.Fatalf("charge %v: release did not reset state", tt.charge)
		}
	}
}
