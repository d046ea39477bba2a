package engine

import (
	"time"

	"github.com/cxd309/ringroad/internal/vehicle"
)

// SimulationMeta holds the identity and run parameters for a simulation.
type SimulationMeta struct {
	SimulationID string `json:"simulation_id"`
	RoadLength   int    `json:"road_length"` // cells
	Steps        int    `json:"steps"`
	// StepDelayMS paces display of successive steps. It has no effect on the
	// simulated state.
	StepDelayMS int `json:"step_delay_ms,omitempty"`
}

// StepDelay returns the pacing delay as a duration.
func (m SimulationMeta) StepDelay() time.Duration {
	return time.Duration(m.StepDelayMS) * time.Millisecond
}

// VehicleInput is the initial state of one vehicle.
type VehicleInput struct {
	Position int `json:"position"` // cell index
	Speed    int `json:"speed"`    // cells per step
}

// SimulationInput is the JSON-serialisable input to the engine. Vehicles are
// registered in the order given, which fixes who follows whom.
type SimulationInput struct {
	Meta     SimulationMeta `json:"simulation_meta"`
	Vehicles []VehicleInput `json:"vehicles"`
}

// SimulationLogRow is the state of the road after a single step.
type SimulationLogRow struct {
	Step     int           `json:"step"` // 1-based
	Road     string        `json:"road"`
	Vehicles []vehicle.Log `json:"vehicles"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta   SimulationMeta     `json:"simulation_meta"`
	Output []SimulationLogRow `json:"output"`
}

// Observer receives each row as soon as its step has been computed.
type Observer func(row SimulationLogRow) error

// Defaults for the built-in scenario.
const (
	DefaultSimulationID = "ring-road-demo"
	DefaultRoadLength   = 20
	DefaultSteps        = 10
	DefaultStepDelayMS  = 1000
)

// DefaultInput returns the built-in two-vehicle scenario.
func DefaultInput() SimulationInput {
	return SimulationInput{
		Meta: SimulationMeta{
			SimulationID: DefaultSimulationID,
			RoadLength:   DefaultRoadLength,
			Steps:        DefaultSteps,
			StepDelayMS:  DefaultStepDelayMS,
		},
		Vehicles: []VehicleInput{
			{Position: 0, Speed: 1},
			{Position: 5, Speed: 2},
		},
	}
}
