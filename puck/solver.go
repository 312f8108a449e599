package puck

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pucksim/pucksim/puck/trace"
)

// The steady-state Darcy balance div((k/mu) grad P) = 0 is discretized with
// finite volumes on the axisymmetric lattice. Each face carries a
// transmissibility T = lambda_face * area / distance with lambda = k/mu_eff,
// and the cell update is the transmissibility-weighted mean of its
// neighbors. Boundary handling:
//
//   - inlet (top) and exit (bottom) faces are Dirichlet at half cell
//     distance: P = drive and P = 0 respectively
//   - the centerline face has zero area, so the symmetry condition costs
//     nothing to enforce
//   - the basket wall face is omitted (zero radial flux)
//
// The Ergun inertial term is linearized as a per-cell effective viscosity
// mu_eff = mu + k * C * rho * |v| and relaxed in an outer loop: solve, derive
// velocities, refresh mu_eff, re-solve, until the field stops moving.

// harmonicMean is the correct average for conductance at a cell interface:
// it conserves flux across the permeability jump.
func harmonicMean(a, b float64) float64 {
	return 2. * a * b / (a + b)
}

// ergunCoefficient returns C = 1.75 (1-eps) / (eps^3 d), the linearized
// inertial resistance factor for a bed of hydraulic particle diameter d.
func ergunCoefficient(eps, dM float64) float64 {
	return 1.75 * (1 - eps) / (eps * eps * eps * dM)
}

// buildTransmissibilities fills the face transmissibility buffers from the
// current per-cell conductance. tVert[i*cols+j] is the face below cell (i,j),
// tRad[i*(cols-1)+j] the face right of cell (i,j), tTop/tBot the Dirichlet
// half-cell faces of the inlet and exit rows.
func buildTransmissibilities(g grid, lambda, tVert, tRad, tTop, tBot []float64) {
	rows, cols := g.rows, g.cols
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols; j++ {
			lh := harmonicMean(lambda[i*cols+j], lambda[(i+1)*cols+j])
			tVert[i*cols+j] = lh * g.ringArea(j) / g.dz
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols-1; j++ {
			lh := harmonicMean(lambda[i*cols+j], lambda[i*cols+j+1])
			tRad[i*(cols-1)+j] = lh * g.radialFaceArea(j+1) / g.dr
		}
	}
	for j := 0; j < cols; j++ {
		tTop[j] = lambda[j] * g.ringArea(j) / (g.dz / 2)
		tBot[j] = lambda[(rows-1)*cols+j] * g.ringArea(j) / (g.dz / 2)
	}
}

// sorSweep performs one in-place successive over-relaxation sweep and
// returns the largest absolute pressure update. Writes go straight to the
// flat buffer; cells are visited row-major so downstream values within the
// sweep already see upstream updates (Gauss-Seidel ordering).
func sorSweep(g grid, p, tVert, tRad, tTop, tBot []float64, drivePa, omega float64) float64 {
	rows, cols := g.rows, g.cols
	maxUpdate := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			n := i*cols + j
			num, den := 0.0, 0.0
			if i == 0 {
				num += tTop[j] * drivePa
				den += tTop[j]
			} else {
				t := tVert[n-cols]
				num += t * p[n-cols]
				den += t
			}
			if i == rows-1 {
				den += tBot[j] // exit face holds P = 0
			} else {
				t := tVert[n]
				num += t * p[n+cols]
				den += t
			}
			if j > 0 {
				t := tRad[i*(cols-1)+j-1]
				num += t * p[n-1]
				den += t
			}
			if j < cols-1 {
				t := tRad[i*(cols-1)+j]
				num += t * p[n+1]
				den += t
			}
			if den == 0 {
				continue
			}
			next := p[n] + omega*(num/den-p[n])
			if d := math.Abs(next - p[n]); d > maxUpdate {
				maxUpdate = d
			}
			p[n] = next
		}
	}
	return maxUpdate
}

// solvePressure runs the outer Ergun loop around the SOR solve. It returns
// the pressure field, the final per-cell conductance lambda = k/mu_eff that
// produced it, and advisory convergence stats. Hitting the caps is not an
// error; the best available field is returned.
func solvePressure(g grid, bd bed, drivePa, mu, rhoWater, dHydraulic float64, cfg SolverConfig, tr *trace.SolveTrace) (pressure, lambda []float64, stats SolveStats) {
	n := g.rows * g.cols
	pressure = make([]float64, n)
	for i := 0; i < g.rows; i++ {
		guess := drivePa * (1 - (float64(i)+0.5)/float64(g.rows))
		for j := 0; j < g.cols; j++ {
			pressure[g.idx(i, j)] = guess
		}
	}

	lambda = make([]float64, n)
	for k := range lambda {
		lambda[k] = bd.kHydraulic.Elements[k] / mu
	}

	prev := make([]float64, n)
	vr := make([]float64, n)
	vz := make([]float64, n)
	tVert := make([]float64, (g.rows-1)*g.cols)
	tRad := make([]float64, g.rows*(g.cols-1))
	tTop := make([]float64, g.cols)
	tBot := make([]float64, g.cols)

	sweepTol := cfg.SweepTolerance * drivePa
	passTol := cfg.PassTolerance * drivePa

	for pass := 1; pass <= cfg.MaxPasses; pass++ {
		copy(prev, pressure)
		buildTransmissibilities(g, lambda, tVert, tRad, tTop, tBot)

		sweeps := 0
		maxUpdate := math.Inf(1)
		for sweeps < cfg.MaxSweeps && maxUpdate >= sweepTol {
			maxUpdate = sorSweep(g, pressure, tVert, tRad, tTop, tBot, drivePa, cfg.Omega)
			sweeps++
			if tr.WantSweeps() {
				tr.RecordSweep(trace.SweepRecord{Pass: pass, Sweep: sweeps, MaxUpdatePa: maxUpdate})
			}
		}

		passDelta := 0.0
		for k := range pressure {
			if d := math.Abs(pressure[k] - prev[k]); d > passDelta {
				passDelta = d
			}
		}

		stats.Passes = pass
		stats.Sweeps += sweeps
		stats.FinalPassDeltaPa = passDelta
		converged := pass > 1 && passDelta < passTol
		if tr.WantPasses() {
			tr.RecordPass(trace.PassRecord{
				Pass:        pass,
				Sweeps:      sweeps,
				MaxUpdatePa: maxUpdate,
				PassDeltaPa: passDelta,
				Converged:   converged,
			})
		}
		logrus.Debugf("pressure solve: pass %d used %d sweeps (pass delta %.3g Pa, last update %.3g Pa)",
			pass, sweeps, passDelta, maxUpdate)
		if converged {
			stats.Converged = true
			break
		}

		deriveVelocities(g, lambda, pressure, drivePa, vr, vz)
		for k := 0; k < n; k++ {
			speed := math.Hypot(vr[k], vz[k])
			muEff := mu + bd.kHydraulic.Elements[k]*ergunCoefficient(bd.porosity.Elements[k], dHydraulic)*rhoWater*speed
			lambda[k] = bd.kHydraulic.Elements[k] / muEff
		}
	}

	if !stats.Converged {
		logrus.Warnf("pressure solve hit the pass cap (%d) without converging; returning field at cutoff (last pass delta %.3g Pa)",
			cfg.MaxPasses, stats.FinalPassDeltaPa)
	}
	return pressure, lambda, stats
}
