// Command ringroad runs a ring road simulation and prints the road after each
// step. Without -input it runs the built-in two-vehicle scenario. With -json it
// writes the SimulationLog JSON to stdout instead of the console trace.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cxd309/ringroad/internal/engine"
	"github.com/cxd309/ringroad/internal/report"
)

func main() {
	var (
		inputPath = flag.String("input", "", "path to a SimulationInput JSON file (default: built-in scenario)")
		steps     = flag.Int("steps", 0, "number of steps to run (overrides input)")
		delay     = flag.Duration("delay", 0, "pause between printed steps (overrides input)")
		jsonOut   = flag.Bool("json", false, "write the simulation log as JSON instead of the console trace")
		logLevel  = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	input, err := loadInput(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "steps":
			input.Meta.Steps = *steps
		case "delay":
			input.Meta.StepDelayMS = int(delay.Milliseconds())
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, input, *jsonOut); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		os.Exit(1)
	}
}

func loadInput(path string) (engine.SimulationInput, error) {
	if path == "" {
		return engine.DefaultInput(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.SimulationInput{}, err
	}
	var input engine.SimulationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return engine.SimulationInput{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return input, nil
}

func run(ctx context.Context, input engine.SimulationInput, jsonOut bool) error {
	sim, err := engine.NewSimulation(input)
	if err != nil {
		return err
	}
	meta := sim.Meta()
	logger := log.WithField("simulation_id", meta.SimulationID)
	logger.WithFields(log.Fields{
		"road_length": meta.RoadLength,
		"steps":       meta.Steps,
		"vehicles":    len(input.Vehicles),
	}).Info("starting simulation")

	if jsonOut {
		simLog, err := sim.Run(ctx, nil)
		if err != nil {
			return err
		}
		out, err := json.Marshal(simLog)
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	rep := report.New(os.Stdout, meta.Steps)
	if err := rep.Header(); err != nil {
		return err
	}
	_, err = sim.Run(ctx, func(row engine.SimulationLogRow) error {
		if err := rep.Step(row); err != nil {
			return err
		}
		return pause(ctx, meta.StepDelay())
	})
	if err != nil {
		return err
	}
	logger.Info("simulation finished")
	return nil
}

// pause waits for d, returning early with the context error on cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
