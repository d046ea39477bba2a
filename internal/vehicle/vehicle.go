// Package vehicle defines a single vehicle on the ring road and the operations
// that apply the car-following rule to it.
package vehicle

import "github.com/cxd309/ringroad/internal/kinematics"

// Vehicle holds the live state of one vehicle. Positions are cell indices and
// speeds are cells per step.
type Vehicle struct {
	position int
	speed    int
}

// New creates a vehicle at the given cell with the given speed. Values are
// taken as-is; the caller is responsible for keeping them within the road.
func New(position, speed int) Vehicle {
	return Vehicle{position: position, speed: speed}
}

// Position returns the current cell index.
func (v *Vehicle) Position() int { return v.position }

// Speed returns the current speed in cells per step.
func (v *Vehicle) Speed() int { return v.speed }

// UpdateSpeed adjusts the speed by at most one unit given the forward distance
// to the vehicle ahead. Only the speed is modified.
func (v *Vehicle) UpdateSpeed(maxSpeed, distanceToNext int) {
	v.speed = kinematics.CarFollowing{MaxSpeed: maxSpeed}.NextSpeed(v.speed, distanceToNext)
}

// UpdatePosition moves the vehicle forward by its current speed, wrapping at
// roadLength. Call it after UpdateSpeed for the step.
func (v *Vehicle) UpdatePosition(roadLength int) {
	v.position = kinematics.Advance(v.position, v.speed, roadLength)
}

// Log is a point-in-time snapshot of a vehicle's state.
type Log struct {
	Index    int `json:"index"` // registration index on the road
	Position int `json:"position"`
	Speed    int `json:"speed"`
}

// GetLog returns a snapshot of the vehicle tagged with its registration index.
func (v *Vehicle) GetLog(index int) Log {
	return Log{
		Index:    index,
		Position: v.position,
		Speed:    v.speed,
	}
}
