package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	tn := Default()
	tn.Throw.MaxChargeTime = 0
	tn.Throw.MaxForce = 1
	tn.Server.TickRate = 0

	err := tn.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"maxChargeTime", "maxForce", "tickRate"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateRejectsNegativeTuning(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		want   string
	}{
		{"input epsilon", func(tn *Tuning) { tn.Movement.InputEpsilon = -0.01 }, "inputEpsilon"},
		{"jump impulse", func(tn *Tuning) { tn.Movement.JumpImpulse = -1 }, "jumpImpulse"},
		{"ball rest speed", func(tn *Tuning) { tn.Ball.RestSpeed = -0.2 }, "restSpeed"},
		{"ball drag", func(tn *Tuning) { tn.Ball.Drag = -1 }, "ball.drag"},
		{"player drag", func(tn *Tuning) { tn.Player.Drag = -1 }, "player.drag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn := Default()
			tt.mutate(&tn)
			err := tn.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(`{"combat":{"maxDamage":40},"server":{"tickRate":60}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tn, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tn.Combat.MaxDamage != 40 {
		t.Fatalf("maxDamage = %d, want 40", tn.Combat.MaxDamage)
	}
	if tn.Combat.MaxKnockback != Default().Combat.MaxKnockback {
		t.Fatalf("maxKnockback lost its default: %v", tn.Combat.MaxKnockback)
	}
	if got := tn.TickDelta(); got != 1.0/60 {
		t.Fatalf("TickDelta = %v", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(`{"ball":{"restitution":2}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}
