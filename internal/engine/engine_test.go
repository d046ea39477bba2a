package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/ringroad/internal/vehicle"
)

func TestNewSimulationValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(in *SimulationInput)
	}{
		{"zero length", func(in *SimulationInput) { in.Meta.RoadLength = 0 }},
		{"negative steps", func(in *SimulationInput) { in.Meta.Steps = -1 }},
		{"negative delay", func(in *SimulationInput) { in.Meta.StepDelayMS = -5 }},
		{"no vehicles", func(in *SimulationInput) { in.Vehicles = nil }},
		{"position past end", func(in *SimulationInput) { in.Vehicles[1].Position = 20 }},
		{"negative position", func(in *SimulationInput) { in.Vehicles[0].Position = -1 }},
		{"speed over cap", func(in *SimulationInput) { in.Vehicles[0].Speed = 6 }},
		{"negative speed", func(in *SimulationInput) { in.Vehicles[0].Speed = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := DefaultInput()
			tc.mutate(&in)
			sim, err := NewSimulation(in)
			assert.Nil(t, sim)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSnapshotBeforeFirstStep(t *testing.T) {
	sim, err := NewSimulation(DefaultInput())
	require.NoError(t, err)

	row := sim.Snapshot()
	assert.Equal(t, 0, row.Step)
	assert.Equal(t, "V....V..............", row.Road)
	assert.Equal(t, []vehicle.Log{
		{Index: 0, Position: 0, Speed: 1},
		{Index: 1, Position: 5, Speed: 2},
	}, row.Vehicles)
	assert.Equal(t, row, sim.Snapshot())
}

func TestStep(t *testing.T) {
	sim, err := NewSimulation(DefaultInput())
	require.NoError(t, err)

	row, err := sim.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, row.Step)
	assert.Equal(t, "..V.....V...........", row.Road)
	assert.Equal(t, []vehicle.Log{
		{Index: 0, Position: 2, Speed: 2},
		{Index: 1, Position: 8, Speed: 3},
	}, row.Vehicles)
	assert.Equal(t, 1, sim.StepCount())
}

func TestRun(t *testing.T) {
	sim, err := NewSimulation(DefaultInput())
	require.NoError(t, err)

	var observed []int
	simLog, err := sim.Run(context.Background(), func(row SimulationLogRow) error {
		observed = append(observed, row.Step)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, simLog.Output, DefaultSteps)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, observed)
	assert.Equal(t, DefaultInput().Meta, simLog.Meta)
	for _, row := range simLog.Output {
		assert.Len(t, row.Road, DefaultRoadLength)
		assert.Len(t, row.Vehicles, 2)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sim, err := NewSimulation(DefaultInput())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	simLog, err := sim.Run(ctx, func(row SimulationLogRow) error {
		if row.Step == 3 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, simLog.Output, 3)
	assert.Equal(t, 3, sim.StepCount())
}

func TestRunStopsOnObserverError(t *testing.T) {
	sim, err := NewSimulation(DefaultInput())
	require.NoError(t, err)

	boom := errors.New("boom")
	simLog, err := sim.Run(context.Background(), func(SimulationLogRow) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Len(t, simLog.Output, 1)
}

func TestStepLogsDebugEntry(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	sim, err := NewSimulation(DefaultInput())
	require.NoError(t, err)
	sim.SetLogger(logger)

	_, err = sim.Step()
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.DebugLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["step"])
	assert.Equal(t, DefaultSimulationID, entry.Data["simulation_id"])
}

func TestRunJSON(t *testing.T) {
	in, err := json.Marshal(DefaultInput())
	require.NoError(t, err)

	out, err := RunJSON(string(in))
	require.NoError(t, err)

	var simLog SimulationLog
	require.NoError(t, json.Unmarshal([]byte(out), &simLog))
	require.Len(t, simLog.Output, DefaultSteps)
	assert.Equal(t, []vehicle.Log{
		{Index: 0, Position: 2, Speed: 2},
		{Index: 1, Position: 8, Speed: 3},
	}, simLog.Output[0].Vehicles)
}

func TestRunJSONErrors(t *testing.T) {
	_, err := RunJSON("{not json")
	assert.ErrorContains(t, err, "invalid input JSON")

	_, err = RunJSON(`{"simulation_meta":{"road_length":10,"steps":1},"vehicles":[]}`)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
