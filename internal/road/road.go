// Package road implements a circular single-lane road and its discrete
// simulation step.
//
// Each step has two passes:
//
//  1. Speed pass - every vehicle, in registration order, measures the forward
//     gap to the next registered vehicle and adjusts its speed. Positions are
//     not touched, so every gap is measured on the same unmoved road.
//
//  2. Position pass - every vehicle moves forward by its new speed.
//
// The vehicle ahead of vehicle i is always vehicle (i+1) mod N, whatever their
// order on the lane.
package road

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/cxd309/ringroad/internal/kinematics"
	"github.com/cxd309/ringroad/internal/vehicle"
)

// MaxSpeed is the speed cap, in cells per step, applied to every vehicle.
const MaxSpeed = 5

// Cell markers used by Cells and String.
const (
	EmptyCell    byte = '.'
	OccupiedCell byte = 'V'
)

var (
	ErrInvalidLength = errors.New("road length must be positive")
	ErrNoVehicles    = errors.New("road has no vehicles")
)

// Road is a ring of length cells carrying an ordered set of vehicles.
type Road struct {
	length   int
	vehicles []vehicle.Vehicle
}

// New creates an empty road with the given circumference in cells.
func New(length int) (*Road, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	return &Road{length: length}, nil
}

// Length returns the circumference of the road in cells.
func (r *Road) Length() int { return r.length }

// Len returns the number of registered vehicles.
func (r *Road) Len() int { return len(r.vehicles) }

// AddVehicle appends a vehicle with the given initial state. The position is
// not checked for range or occupancy.
func (r *Road) AddVehicle(position, speed int) {
	r.vehicles = append(r.vehicles, vehicle.New(position, speed))
}

// Update advances the road by one step. It returns ErrNoVehicles if nothing
// has been registered.
func (r *Road) Update() error {
	n := len(r.vehicles)
	if n == 0 {
		return ErrNoVehicles
	}

	// Pass 1: speeds, from the unmoved positions.
	for i := range r.vehicles {
		next := r.vehicles[(i+1)%n].Position()
		gap := kinematics.Gap(r.vehicles[i].Position(), next, r.length)
		r.vehicles[i].UpdateSpeed(MaxSpeed, gap)
	}

	// Pass 2: positions.
	for i := range r.vehicles {
		r.vehicles[i].UpdatePosition(r.length)
	}
	return nil
}

// Cells returns a length-sized marker strip with OccupiedCell at every vehicle
// position. Vehicles sharing a cell show as one marker. Positions outside the
// road are not drawn.
func (r *Road) Cells() []byte {
	cells := make([]byte, r.length)
	for i := range cells {
		cells[i] = EmptyCell
	}
	for i := range r.vehicles {
		if p := r.vehicles[i].Position(); p >= 0 && p < r.length {
			cells[p] = OccupiedCell
		}
	}
	return cells
}

// String renders the road as a line of cell markers.
func (r *Road) String() string { return string(r.Cells()) }

// Vehicles returns a copy of the vehicles in registration order.
func (r *Road) Vehicles() []vehicle.Vehicle { return slices.Clone(r.vehicles) }

// Logs returns a snapshot of every vehicle in registration order.
func (r *Road) Logs() []vehicle.Log {
	return lo.Map(r.vehicles, func(v vehicle.Vehicle, i int) vehicle.Log {
		return v.GetLog(i)
	})
}
