package puck

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonicMean(t *testing.T) {
	assert.Equal(t, 2.0, harmonicMean(2, 2))
	assert.Equal(t, 1.5, harmonicMean(1, 3))
	assert.Zero(t, harmonicMean(0, 5))
	// Dominated by the tighter side: a choked cell throttles its face.
	assert.InEpsilon(t, 2e-15, harmonicMean(1e-15, 1e-9), 1e-3)
}

func TestErgunCoefficient(t *testing.T) {
	// 1.75 * 0.5 / (0.125 * 1e-3)
	assert.InEpsilon(t, 7000.0, ergunCoefficient(0.5, 1e-3), 1e-12)
	assert.Greater(t, ergunCoefficient(0.3, 1e-3), ergunCoefficient(0.5, 1e-3),
		"tighter beds resist inertia more")
}

func uniformTestBed(rows, cols int, eps, k float64) bed {
	porosity := sparse.ZerosDense(rows, cols)
	kHyd := sparse.ZerosDense(rows, cols)
	kRep := sparse.ZerosDense(rows, cols)
	for n := range porosity.Elements {
		porosity.Elements[n] = eps
		kHyd.Elements[n] = k
		kRep.Elements[n] = k
	}
	return bed{porosity: porosity, kHydraulic: kHyd, kReported: kRep, basePorosity: eps}
}

// A radially uniform bed is a stack of series resistances, so the discrete
// solution is the linear profile through the cell centers. The solve must
// reproduce it and report convergence.
func TestSolvePressure_UniformBedIsLinear(t *testing.T) {
	rows, cols := 24, 24
	g := grid{
		rows: rows, cols: cols,
		radiusM: 0.029, depthM: 0.012,
		dr: 0.029 / float64(cols), dz: 0.012 / float64(rows),
	}
	bd := uniformTestBed(rows, cols, 0.4, 2e-15)
	drive := 9e5
	mu := waterViscosityPaS(93)
	rho := waterDensityKgM3(93)

	pressure, lambda, stats := solvePressure(g, bd, drive, mu, rho, 400e-6*hydraulicDiameterFrac, DefaultSolverConfig(), nil)

	require.True(t, stats.Converged)
	assert.GreaterOrEqual(t, stats.Passes, 2, "convergence needs a confirming pass")

	for i := 0; i < rows; i++ {
		want := drive * (1 - (float64(i)+0.5)/float64(rows))
		for j := 0; j < cols; j++ {
			assert.InDelta(t, want, pressure[g.idx(i, j)], 1e-6*drive,
				"row %d col %d", i, j)
		}
	}

	for _, l := range lambda {
		assert.Greater(t, l, 0.0)
		assert.LessOrEqual(t, l, 2e-15/mu, "Ergun can only add resistance")
	}
}

func TestSolvePressure_BoundedByDrive(t *testing.T) {
	p := ScenarioUnevenDistribution().Clamped()
	g := newGrid(p, DefaultSolverConfig(), puckDepthM(p, basePorosity(p)))
	bd := buildBed(p, g)
	drive := drivingPressurePa(p)
	mu := waterViscosityPaS(p.WaterTempC)
	rho := waterDensityKgM3(p.WaterTempC)
	dHyd := p.GrindSizeMicrons * 1e-6 * hydraulicDiameterFrac

	pressure, _, stats := solvePressure(g, bd, drive, mu, rho, dHyd, DefaultSolverConfig(), nil)

	require.True(t, stats.Converged)
	for n, v := range pressure {
		assert.GreaterOrEqual(t, v, -1.0, "cell %d", n)
		assert.LessOrEqual(t, v, drive+1.0, "cell %d", n)
	}
}

// At steady state everything entering the top face leaves through the screen,
// even on a heterogeneous bed.
func TestSolvePressure_ConservesFlow(t *testing.T) {
	p := ScenarioUnevenDistribution().Clamped()
	g := newGrid(p, DefaultSolverConfig(), puckDepthM(p, basePorosity(p)))
	bd := buildBed(p, g)
	drive := drivingPressurePa(p)
	mu := waterViscosityPaS(p.WaterTempC)
	rho := waterDensityKgM3(p.WaterTempC)
	dHyd := p.GrindSizeMicrons * 1e-6 * hydraulicDiameterFrac

	pressure, lambda, stats := solvePressure(g, bd, drive, mu, rho, dHyd, DefaultSolverConfig(), nil)
	require.True(t, stats.Converged)

	qIn := integrateFlow(g, inletFaceVelocities(g, lambda, pressure, drive))
	qOut := integrateFlow(g, exitFaceVelocities(g, lambda, pressure))

	require.Greater(t, qOut, 0.0)
	assert.InEpsilon(t, qIn, qOut, 5e-3, "inlet flow %v must match exit flow %v", qIn, qOut)
}

func TestIntegrateFlow_UniformVelocityTimesArea(t *testing.T) {
	p := ScenarioDialedIn()
	g := newGrid(p, DefaultSolverConfig(), puckDepthM(p, basePorosity(p)))

	faceV := make([]float64, g.cols)
	for j := range faceV {
		faceV[j] = 1e-3
	}
	want := 1e-3 * math.Pi * g.radiusM * g.radiusM
	assert.InEpsilon(t, want, integrateFlow(g, faceV), 1e-9)
}
