// telemetry.go is the concrete home for the "arena bookkeeping telemetry"
// collaborator: the core pipeline records raw per-function counts as it
// compiles, and this package reduces them to summary statistics the
// driver's -vb flag prints. The core never reads these numbers back.

package util

import "github.com/gonum/stat"

// ArenaStats summarizes the node counts and emitted-line counts collected
// for every function in one compilation.
type ArenaStats struct {
	TotalNodes     int
	FunctionCount  int
	MeanNodes      float64
	StdDevNodes    float64
	MeanIRLines    float64
	StdDevIRLines  float64
}

// Telemetry accumulates per-function samples during one compilation and
// reduces them to an ArenaStats on Finish.
type Telemetry struct {
	nodeCounts []float64
	irLines    []float64
}

// NewTelemetry returns a Telemetry ready to record samples for one
// compilation's worth of functions.
func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

// RecordFunction adds one function's node count and emitted IR line count.
func (t *Telemetry) RecordFunction(nodeCount, irLines int) {
	t.nodeCounts = append(t.nodeCounts, float64(nodeCount))
	t.irLines = append(t.irLines, float64(irLines))
}

// Finish reduces the recorded samples to summary statistics. Called once,
// after the whole program has been emitted.
func (t *Telemetry) Finish() ArenaStats {
	s := ArenaStats{FunctionCount: len(t.nodeCounts)}
	for _, n := range t.nodeCounts {
		s.TotalNodes += int(n)
	}
	if len(t.nodeCounts) > 0 {
		s.MeanNodes = stat.Mean(t.nodeCounts, nil)
		s.StdDevNodes = stat.StdDev(t.nodeCounts, nil)
	}
	if len(t.irLines) > 0 {
		s.MeanIRLines = stat.Mean(t.irLines, nil)
		s.StdDevIRLines = stat.StdDev(t.irLines, nil)
	}
	return s
}
