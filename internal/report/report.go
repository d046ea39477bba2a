// Package report writes the human-readable console trace of a simulation run.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cxd309/ringroad/internal/engine"
)

// Reporter prints one block per step: the road strip followed by one line per
// vehicle showing where it is and where it was on the previous report.
type Reporter struct {
	w        io.Writer
	total    int
	padding  int
	previous map[int]int // vehicle index -> last reported position
}

// New creates a Reporter for a run of total steps writing to w.
func New(w io.Writer, total int) *Reporter {
	return &Reporter{
		w:        w,
		total:    total,
		padding:  len(strconv.Itoa(total)),
		previous: make(map[int]int),
	}
}

// Header prints the run length.
func (r *Reporter) Header() error {
	_, err := fmt.Fprintf(r.w, "Number of steps: %d\n", r.total)
	return err
}

// Step prints row. A vehicle seen for the first time is reported as coming
// from its current position.
func (r *Reporter) Step(row engine.SimulationLogRow) error {
	if _, err := fmt.Fprintf(r.w, "Step %*d of %d: %s\n", r.padding, row.Step, r.total, row.Road); err != nil {
		return err
	}
	for _, v := range row.Vehicles {
		prev, ok := r.previous[v.Index]
		if !ok {
			prev = v.Position
		}
		if _, err := fmt.Fprintf(r.w, "vehicle%d(%d) from vehicle%d(%d)\n", v.Index, v.Position, v.Index, prev); err != nil {
			return err
		}
		r.previous[v.Index] = v.Position
	}
	return nil
}
