// Package engine runs a ring road simulation.
//
// A SimulationInput describes the road length, the number of steps and the
// vehicles in registration order. The engine builds the road, advances it one
// step at a time and records a SimulationLogRow after every step. Pacing
// between steps is left to the caller; the engine itself never sleeps.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cxd309/ringroad/internal/road"
)

// ErrInvalidInput is wrapped by every validation failure in NewSimulation.
var ErrInvalidInput = errors.New("invalid simulation input")

// Simulation is the engine state for one run.
type Simulation struct {
	meta   SimulationMeta
	road   *road.Road
	step   int
	logger log.FieldLogger
}

// NewSimulation validates input and registers its vehicles on a new road.
func NewSimulation(input SimulationInput) (*Simulation, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	r, err := road.New(input.Meta.RoadLength)
	if err != nil {
		return nil, fmt.Errorf("building road: %w", err)
	}
	for _, v := range input.Vehicles {
		r.AddVehicle(v.Position, v.Speed)
	}

	return &Simulation{
		meta:   input.Meta,
		road:   r,
		logger: log.StandardLogger(),
	}, nil
}

// validate checks the input against the road's preconditions: a positive
// length, at least one vehicle, and every vehicle on the road within the
// speed cap.
func validate(input SimulationInput) error {
	m := input.Meta
	if m.RoadLength <= 0 {
		return fmt.Errorf("%w: road length %d must be positive", ErrInvalidInput, m.RoadLength)
	}
	if m.Steps < 0 {
		return fmt.Errorf("%w: steps %d must not be negative", ErrInvalidInput, m.Steps)
	}
	if m.StepDelayMS < 0 {
		return fmt.Errorf("%w: step delay %dms must not be negative", ErrInvalidInput, m.StepDelayMS)
	}
	if len(input.Vehicles) == 0 {
		return fmt.Errorf("%w: at least one vehicle is required", ErrInvalidInput)
	}
	for i, v := range input.Vehicles {
		if v.Position < 0 || v.Position >= m.RoadLength {
			return fmt.Errorf("%w: vehicle %d position %d outside road of length %d",
				ErrInvalidInput, i, v.Position, m.RoadLength)
		}
		if v.Speed < 0 || v.Speed > road.MaxSpeed {
			return fmt.Errorf("%w: vehicle %d speed %d outside [0, %d]",
				ErrInvalidInput, i, v.Speed, road.MaxSpeed)
		}
	}
	return nil
}

// SetLogger replaces the logger used for per-step debug entries.
func (s *Simulation) SetLogger(logger log.FieldLogger) { s.logger = logger }

// Meta returns the run parameters.
func (s *Simulation) Meta() SimulationMeta { return s.meta }

// StepCount returns the number of steps taken so far.
func (s *Simulation) StepCount() int { return s.step }

// Snapshot returns the current road state without advancing it. The row's Step
// is the number of steps taken so far.
func (s *Simulation) Snapshot() SimulationLogRow {
	return SimulationLogRow{
		Step:     s.step,
		Road:     s.road.String(),
		Vehicles: s.road.Logs(),
	}
}

// Step advances the road by one step and returns the resulting row.
func (s *Simulation) Step() (SimulationLogRow, error) {
	if err := s.road.Update(); err != nil {
		return SimulationLogRow{}, fmt.Errorf("step %d: %w", s.step+1, err)
	}
	s.step++

	row := s.Snapshot()
	s.logger.WithFields(log.Fields{
		"simulation_id": s.meta.SimulationID,
		"step":          row.Step,
		"road":          row.Road,
	}).Debug("step complete")
	return row, nil
}

// Run advances the road until Meta().Steps steps have been taken, passing each
// row to observe when it is non-nil. If ctx is cancelled or observe fails, Run
// stops before the next step and returns the rows recorded so far with the
// error.
func (s *Simulation) Run(ctx context.Context, observe Observer) (SimulationLog, error) {
	simLog := SimulationLog{Meta: s.meta}
	for s.step < s.meta.Steps {
		if err := ctx.Err(); err != nil {
			return simLog, fmt.Errorf("before step %d: %w", s.step+1, err)
		}

		row, err := s.Step()
		if err != nil {
			return simLog, err
		}
		simLog.Output = append(simLog.Output, row)

		if observe != nil {
			if err := observe(row); err != nil {
				return simLog, fmt.Errorf("observing step %d: %w", row.Step, err)
			}
		}
	}
	return simLog, nil
}

// RunJSON is the entry point shared by the CLI's JSON mode and the WASM build.
// It accepts a JSON-encoded SimulationInput, runs every step without pacing,
// and returns a JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	var input SimulationInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	sim, err := NewSimulation(input)
	if err != nil {
		return "", err
	}

	simLog, err := sim.Run(context.Background(), nil)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
