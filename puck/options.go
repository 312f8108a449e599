package puck

import "fmt"

// SolverConfig groups the numerical tuning knobs of the pressure solve.
// The zero value is not usable; start from DefaultSolverConfig.
type SolverConfig struct {
	GridRows int // axial cells; 0 derives from puck depth (min 20, max 48)
	GridCols int // radial cells; 0 derives from basket radius (min 20, max 48)

	MaxPasses      int     // cap on Ergun effective-viscosity outer passes
	MaxSweeps      int     // cap on SOR sweeps per pass
	Omega          float64 // SOR relaxation factor, (0, 2)
	SweepTolerance float64 // per-sweep max pressure update, relative to driving pressure
	PassTolerance  float64 // between-pass max pressure change, relative to driving pressure
}

// DefaultSolverConfig returns the tuning used by Simulate. Omega is kept
// moderate because the wall band introduces large permeability contrast.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxPasses:      8,
		MaxSweeps:      20000,
		Omega:          1.5,
		SweepTolerance: 1e-9,
		PassTolerance:  1e-3,
	}
}

// Validate reports the first nonsensical field, if any. A zero GridRows or
// GridCols is valid and means "derive from geometry".
func (c SolverConfig) Validate() error {
	if c.GridRows < 0 || (c.GridRows > 0 && c.GridRows < 8) {
		return fmt.Errorf("solver config: grid rows must be 0 or >= 8, got %d", c.GridRows)
	}
	if c.GridCols < 0 || (c.GridCols > 0 && c.GridCols < 8) {
		return fmt.Errorf("solver config: grid cols must be 0 or >= 8, got %d", c.GridCols)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("solver config: max passes must be positive, got %d", c.MaxPasses)
	}
	if c.MaxSweeps <= 0 {
		return fmt.Errorf("solver config: max sweeps must be positive, got %d", c.MaxSweeps)
	}
	if c.Omega <= 0 || c.Omega >= 2 {
		return fmt.Errorf("solver config: omega must be in (0, 2), got %v", c.Omega)
	}
	if c.SweepTolerance <= 0 {
		return fmt.Errorf("solver config: sweep tolerance must be positive, got %v", c.SweepTolerance)
	}
	if c.PassTolerance <= 0 {
		return fmt.Errorf("solver config: pass tolerance must be positive, got %v", c.PassTolerance)
	}
	return nil
}
