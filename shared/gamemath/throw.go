package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ClampCharge clamps accumulated charge seconds to [0, maxCharge].
func ClampCharge(chargeTime, maxCharge float64) float64 {
	if chargeTime < 0 {
		return 0
	}
	if chargeTime > maxCharge {
		return maxCharge
	}
	return chargeTime
}

// PowerPercent returns the fraction of the maximum charge reached.
// A non-positive maxCharge yields 0.
func PowerPercent(chargeTime, maxCharge float64) float64 {
	if maxCharge <= 0 {
		return 0
	}
	return ClampCharge(chargeTime, maxCharge) / maxCharge
}

// CalculateThrowForce returns the impulse magnitude for a charge fraction.
func CalculateThrowForce(minForce, maxForce, powerPercent float64) float64 {
	return Lerp(minForce, maxForce, powerPercent)
}

// CalculateDamage returns damage scaled by the ball's power, rounded half to even.
func CalculateDamage(maxDamage int, power float64) int {
	return int(math.RoundToEven(float64(maxDamage) * power))
}

// CalculateKnockback returns the impulse pushing a target away from the ball.
// Coincident points produce no knockback.
func CalculateKnockback(contact, ballPos mgl64.Vec3, maxKnockback, power float64) mgl64.Vec3 {
	dir := contact.Sub(ballPos)
	if dir.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return dir.Normalize().Mul(maxKnockback * power)
}

// Lerp interpolates linearly between a and b; t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
