package puck

import (
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// ChannelLocation marks a grid cell flagged as a channel hot spot.
type ChannelLocation struct {
	Row int
	Col int
}

// SolveStats reports how the pressure solve went. Advisory only: a run that
// hits the iteration caps still carries the best available field.
type SolveStats struct {
	Passes           int     // Ergun outer passes executed
	Sweeps           int     // total SOR sweeps across all passes
	Converged        bool    // pass delta fell below tolerance before the cap
	FinalPassDeltaPa float64 // pressure change across the last pass (Pa)
}

// Cell holds the physical state of one grid cell in SI units.
type Cell struct {
	Porosity      float64 // void fraction
	Permeability  float64 // Kozeny-Carman permeability at the grind diameter (m^2)
	Pressure      float64 // gauge pressure (Pa)
	VelocityR     float64 // radial Darcy velocity (m/s), positive outward
	VelocityZ     float64 // axial Darcy velocity (m/s), positive toward the exit
	FlowMagnitude float64 // velocity magnitude (m/s)
	Extraction    float64 // extraction proxy, normalized to [0,1] within the run
	ResidenceTime float64 // local transit time (s)
}

// SimulationResult is the immutable output bundle of one Simulate call. The
// five display fields are normalized to [0,1] against their own run maximum,
// ready for a per-mode color transfer function; Cells carries the raw
// physical values for vector and velocity consumers. Nothing in the bundle
// is shared with any other run.
type SimulationResult struct {
	Params SimulationParameters // clamped parameters the solve actually used
	Rows   int
	Cols   int

	Pressure      *sparse.DenseArray
	Velocity      *sparse.DenseArray
	Extraction    *sparse.DenseArray
	ResidenceTime *sparse.DenseArray
	Permeability  *sparse.DenseArray

	Cells []Cell // row-major, index row*Cols+col

	TotalFlowRate     float64 // exit flow (ml/s)
	ChannelingRisk    float64 // [0,1]
	UniformityIndex   float64 // [0,1]
	EffectiveShotTime float64 // seconds to the target yield, capped
	ChannelLocations  []ChannelLocation

	Stats SolveStats
}

// CellAt returns the physical cell state at (row, col).
func (r *SimulationResult) CellAt(row, col int) Cell {
	return r.Cells[row*r.Cols+col]
}

// normalizeField rescales a nonnegative field so its maximum is 1. An
// all-zero field (a zero-flow run) stays zero, and a degenerate maximum is
// left untouched rather than poisoning the field with NaN or Inf.
func normalizeField(a *sparse.DenseArray) {
	max := floats.Max(a.Elements)
	if max > 0 && !math.IsInf(max, 1) && !math.IsNaN(max) {
		a.Scale(1 / max)
	}
}
