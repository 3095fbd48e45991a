package gamemath

import "math"

// SmoothDamp moves current toward target with a critically damped spring.
// velocity carries state between calls. Returns the new value and velocity.
func SmoothDamp(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	if dt <= 0 {
		return current, velocity
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	change := current - target
	originalTarget := target

	target = current - change
	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	// no overshoot
	if (originalTarget-current > 0) == (output > originalTarget) {
		output = originalTarget
		velocity = (output - originalTarget) / dt
	}
	return output, velocity
}

// SmoothDampAngle is SmoothDamp for angles in radians, taking the shortest arc.
func SmoothDampAngle(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, dt)
}

// DeltaAngle returns the shortest signed difference target-current in (-π, π].
func DeltaAngle(current, target float64) float64 {
	d := math.Mod(target-current, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	return DeltaAngle(0, a)
}
