// Package kinematics implements the discrete car-following rule for vehicles on
// a circular lane, along with the modular arithmetic of the lane itself.
//
// Positions are cell indices in [0, length) and speeds are cells per step. The
// road package owns the stepping order; this package only answers "what speed
// next" and "where after moving".
package kinematics

import "github.com/samber/lo"

// CarFollowing is the accelerate / hold / decelerate rule. Speed changes by at
// most one unit per step.
type CarFollowing struct {
	MaxSpeed int // cells per step
}

// NextSpeed returns the speed for the coming step given the forward gap (cells)
// to the vehicle ahead.
//
//   - gap > speed+1: accelerate by one, capped at MaxSpeed
//   - gap <= speed: decelerate by one, floored at zero
//   - gap == speed+1: hold
func (c CarFollowing) NextSpeed(speed, gap int) int {
	switch {
	case gap > speed+1:
		return lo.Clamp(speed+1, 0, c.MaxSpeed)
	case gap <= speed:
		return max(speed-1, 0)
	default:
		return speed
	}
}

// Gap returns the forward circular distance from cell `from` to cell `to` on a
// lane of the given length. A vehicle measured against itself has gap 0.
func Gap(from, to, length int) int {
	return (to - from + length) % length
}

// Advance returns the cell reached after moving speed cells forward from pos.
func Advance(pos, speed, length int) int {
	return (pos + speed) % length
}
