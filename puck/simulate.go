package puck

import (
	"math"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"

	"github.com/pucksim/pucksim/puck/trace"
)

// Simulate runs the full pipeline for one parameter set: bed construction,
// pressure solve, velocity derivation, metric extraction. It is a pure,
// synchronous function of its input: identical parameters produce
// bit-identical results and concurrent calls share no state. Out-of-range
// values are clamped rather than rejected.
func Simulate(params SimulationParameters) *SimulationResult {
	result, _, err := SimulateTraced(params, DefaultSolverConfig(), trace.TraceConfig{})
	if err != nil {
		// DefaultSolverConfig always validates; reaching this is a defect.
		panic(err)
	}
	return result
}

// SimulateWithConfig is Simulate with explicit solver tuning. The only error
// is a nonsensical SolverConfig.
func SimulateWithConfig(params SimulationParameters, cfg SolverConfig) (*SimulationResult, error) {
	result, _, err := SimulateTraced(params, cfg, trace.TraceConfig{})
	return result, err
}

// SimulateTraced additionally captures solver convergence records at the
// requested trace level. With tracing off the returned trace is nil and the
// solve path allocates nothing for it.
func SimulateTraced(params SimulationParameters, cfg SolverConfig, tc trace.TraceConfig) (*SimulationResult, *trace.SolveTrace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	var tr *trace.SolveTrace
	if tc.Level != "" && tc.Level != trace.TraceLevelNone {
		tr = trace.NewSolveTrace(tc)
	}

	p := params.Clamped()
	g := newGrid(p, cfg, puckDepthM(p, basePorosity(p)))
	bd := buildBed(p, g)
	n := g.rows * g.cols

	res := &SimulationResult{
		Params:        p,
		Rows:          g.rows,
		Cols:          g.cols,
		Pressure:      sparse.ZerosDense(g.rows, g.cols),
		Velocity:      sparse.ZerosDense(g.rows, g.cols),
		Extraction:    sparse.ZerosDense(g.rows, g.cols),
		ResidenceTime: sparse.ZerosDense(g.rows, g.cols),
		Permeability:  bd.kReported.Copy(),
		Cells:         make([]Cell, n),
	}
	normalizeField(res.Permeability)
	for k := 0; k < n; k++ {
		res.Cells[k] = Cell{
			Porosity:     bd.porosity.Elements[k],
			Permeability: bd.kReported.Elements[k],
		}
	}

	drive := drivingPressurePa(p)
	if drive == 0 {
		// The valve never opens. Material fields stay meaningful, flow
		// fields stay zero, and the shot never finishes.
		res.UniformityIndex = 1
		res.EffectiveShotTime = shotTimeCapS
		res.Stats = SolveStats{Converged: true}
		logrus.Debugf("valve holds %.3g bar against %.3g bar: zero-flow result",
			p.Basket.BackPressureBar, p.BrewPressureBar)
		return res, tr, nil
	}

	mu := waterViscosityPaS(p.WaterTempC)
	rho := waterDensityKgM3(p.WaterTempC)
	dHydraulic := p.GrindSizeMicrons * 1e-6 * hydraulicDiameterFrac

	pressure, lambda, stats := solvePressure(g, bd, drive, mu, rho, dHydraulic, cfg, tr)
	res.Stats = stats

	vr := make([]float64, n)
	vz := make([]float64, n)
	deriveVelocities(g, lambda, pressure, drive, vr, vz)
	speed := make([]float64, n)
	for k := range speed {
		speed[k] = math.Hypot(vr[k], vz[k])
	}

	exitV := exitFaceVelocities(g, lambda, pressure)
	metrics := computeMetrics(g, p, exitV, vz, integrateFlow(g, exitV))
	residence, extraction := exposureFields(g, bd, speed)

	copy(res.Pressure.Elements, pressure)
	copy(res.Velocity.Elements, speed)
	copy(res.ResidenceTime.Elements, residence)
	copy(res.Extraction.Elements, extraction)
	normalizeField(res.Pressure)
	normalizeField(res.Velocity)
	normalizeField(res.ResidenceTime)
	normalizeField(res.Extraction)

	for k := 0; k < n; k++ {
		c := &res.Cells[k]
		c.Pressure = pressure[k]
		c.VelocityR = vr[k]
		c.VelocityZ = vz[k]
		c.FlowMagnitude = speed[k]
		c.ResidenceTime = residence[k]
		c.Extraction = res.Extraction.Elements[k]
	}

	res.TotalFlowRate = metrics.flowRateML
	res.ChannelingRisk = metrics.channelingRisk
	res.UniformityIndex = metrics.uniformityIndex
	res.EffectiveShotTime = metrics.shotTime
	res.ChannelLocations = metrics.hotspots

	return res, tr, nil
}
