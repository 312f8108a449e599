// Package trace provides convergence-trace recording for the pressure solver.
// It holds plain data types and has no dependency on the puck package.
package trace

// PassRecord captures one Ergun effective-viscosity outer pass.
type PassRecord struct {
	Pass        int     // 1-based outer pass number
	Sweeps      int     // SOR sweeps spent inside this pass
	MaxUpdatePa float64 // largest pressure update of the final sweep (Pa)
	PassDeltaPa float64 // largest pressure change across the whole pass (Pa)
	Converged   bool    // pass delta fell below the pass tolerance
}

// SweepRecord captures a single SOR sweep.
type SweepRecord struct {
	Pass        int
	Sweep       int     // 1-based sweep number within the pass
	MaxUpdatePa float64 // largest pressure update of this sweep (Pa)
}
