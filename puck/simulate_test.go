package puck

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pucksim/pucksim/puck/internal/testutil"
	"github.com/pucksim/pucksim/puck/trace"
)

func TestSimulate_BrewPressureMonotonicity(t *testing.T) {
	p := ScenarioDialedIn()
	prev := -1.0
	for _, bar := range []float64{2, 4, 6, 8, 10, 12} {
		p.BrewPressureBar = bar
		r := Simulate(p)
		assert.Greater(t, r.TotalFlowRate, prev, "flow must rise with brew pressure (%.0f bar)", bar)
		prev = r.TotalFlowRate
	}
}

func TestSimulate_GrindSizeMonotonicity(t *testing.T) {
	p := ScenarioDialedIn()
	prev := -1.0
	for _, um := range []float64{250, 350, 450, 550, 650, 750} {
		p.GrindSizeMicrons = um
		r := Simulate(p)
		assert.Greater(t, r.TotalFlowRate, prev, "coarser grind must flow faster (%.0f um)", um)
		prev = r.TotalFlowRate
	}
}

func TestSimulate_TampMonotonicity(t *testing.T) {
	p := ScenarioDialedIn()
	prev := math.Inf(1)
	for _, kg := range []float64{5, 10, 15, 20, 25, 30} {
		p.TampPressureKg = kg
		r := Simulate(p)
		assert.Less(t, r.TotalFlowRate, prev, "harder tamp must slow the shot (%.0f kg)", kg)
		prev = r.TotalFlowRate
	}
}

func TestSimulate_TemperatureMonotonicity(t *testing.T) {
	p := ScenarioDialedIn()
	prev := -1.0
	for _, temp := range []float64{75, 85, 95} {
		p.WaterTempC = temp
		r := Simulate(p)
		assert.Greater(t, r.TotalFlowRate, prev, "hotter water is thinner and must flow faster (%.0f C)", temp)
		prev = r.TotalFlowRate
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	p := ScenarioUnevenDistribution()
	a := Simulate(p)
	b := Simulate(p)

	require.Equal(t, a.Params.Fingerprint(), b.Params.Fingerprint())
	assert.Equal(t, a.TotalFlowRate, b.TotalFlowRate)
	assert.Equal(t, a.ChannelingRisk, b.ChannelingRisk)
	assert.Equal(t, a.UniformityIndex, b.UniformityIndex)
	assert.Equal(t, a.EffectiveShotTime, b.EffectiveShotTime)
	assert.Equal(t, a.ChannelLocations, b.ChannelLocations)
	assert.Equal(t, a.Stats, b.Stats)

	require.Equal(t, a.Pressure.Elements, b.Pressure.Elements)
	require.Equal(t, a.Velocity.Elements, b.Velocity.Elements)
	require.Equal(t, a.Extraction.Elements, b.Extraction.Elements)
	require.Equal(t, a.ResidenceTime.Elements, b.ResidenceTime.Elements)
	require.Equal(t, a.Permeability.Elements, b.Permeability.Elements)
	require.Equal(t, a.Cells, b.Cells)
}

// With perfect distribution the bed is separable (row factor times column
// factor), so every column solves as an independent 1D stack: pressure is
// radially uniform and nothing moves sideways.
func TestSimulate_EvenBedSolvesAsColumns(t *testing.T) {
	r := Simulate(ScenarioDialedIn())
	drive := drivingPressurePa(r.Params)

	for i := 0; i < r.Rows; i++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for j := 0; j < r.Cols; j++ {
			p := r.CellAt(i, j).Pressure
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
		assert.InDelta(t, lo, hi, 1e-5*drive, "row %d pressure must be radially uniform", i)
	}

	for j := 0; j < r.Cols; j++ {
		prev := drive
		for i := 0; i < r.Rows; i++ {
			c := r.CellAt(i, j)
			assert.Less(t, c.Pressure, prev+1e-6*drive, "pressure must fall down column %d", j)
			assert.Greater(t, c.VelocityZ, 0.0, "healthy shot flows toward the exit everywhere (%d,%d)", i, j)
			assert.InDelta(t, 0, c.VelocityR, 1e-5*c.VelocityZ, "no radial flow on a separable bed (%d,%d)", i, j)
			prev = c.Pressure
		}
	}
}

func TestSimulate_CenterlineSymmetry(t *testing.T) {
	r := Simulate(ScenarioUnevenDistribution())
	for i := 0; i < r.Rows; i++ {
		assert.Zero(t, r.CellAt(i, 0).VelocityR, "row %d", i)
	}
}

func TestSimulate_WallBandRunsFast(t *testing.T) {
	r := Simulate(ScenarioDialedIn())
	exit := r.Rows - 1

	wall := r.CellAt(exit, r.Cols-1).VelocityZ
	center := r.CellAt(exit, 0).VelocityZ
	require.Greater(t, center, 0.0)
	ratio := wall / center
	assert.Greater(t, ratio, 1.5, "the loose wall band must run visibly faster")
	assert.Less(t, ratio, 3.0, "wall effect is a bias, not a bypass")
}

func TestSimulate_ValveHoldsZeroFlow(t *testing.T) {
	r := Simulate(ScenarioTeaValve())

	assert.Zero(t, r.TotalFlowRate)
	assert.Zero(t, r.ChannelingRisk)
	assert.Equal(t, 1.0, r.UniformityIndex)
	assert.Equal(t, float64(shotTimeCapS), r.EffectiveShotTime)
	assert.Empty(t, r.ChannelLocations)
	assert.True(t, r.Stats.Converged)
	assert.Zero(t, r.Stats.Passes, "the solve never runs when the valve holds")

	for n := range r.Cells {
		c := r.Cells[n]
		assert.Zero(t, c.Pressure)
		assert.Zero(t, c.VelocityR)
		assert.Zero(t, c.VelocityZ)
		assert.Greater(t, c.Porosity, 0.0, "material fields stay meaningful")
		assert.Greater(t, c.Permeability, 0.0)
	}
}

func TestSimulate_DistributionQualityDrivesRisk(t *testing.T) {
	qualities := []float64{1.0, 0.86, 0.72, 0.58, 0.44, 0.3}
	risks := make([]float64, len(qualities))
	uniformities := make([]float64, len(qualities))

	p := ScenarioDialedIn()
	for i, q := range qualities {
		p.DistributionQuality = q
		r := Simulate(p)
		risks[i] = r.ChannelingRisk
		uniformities[i] = r.UniformityIndex
	}

	for i := 1; i < len(risks); i++ {
		assert.GreaterOrEqual(t, risks[i], risks[i-1]-5e-3,
			"risk must not fall as distribution degrades (q=%v)", qualities[i])
		assert.LessOrEqual(t, uniformities[i], uniformities[i-1]+5e-3,
			"uniformity must not rise as distribution degrades (q=%v)", qualities[i])
	}
	assert.Greater(t, risks[len(risks)-1], risks[0]+0.02,
		"a dumped-in bed must read materially riskier than a leveled one")
	assert.Less(t, uniformities[len(uniformities)-1], uniformities[0]-0.02)
}

func TestSimulate_FlowMatchesRowIntegrals(t *testing.T) {
	r := Simulate(ScenarioDialedIn())
	require.Greater(t, r.TotalFlowRate, 0.0)

	g := newGrid(r.Params, DefaultSolverConfig(), puckDepthM(r.Params, basePorosity(r.Params)))
	require.Equal(t, g.rows, r.Rows)
	require.Equal(t, g.cols, r.Cols)

	for _, i := range []int{r.Rows / 4, r.Rows / 2, 3 * r.Rows / 4} {
		q := 0.0
		for j := 0; j < r.Cols; j++ {
			q += r.CellAt(i, j).VelocityZ * g.ringArea(j)
		}
		assert.InEpsilon(t, r.TotalFlowRate, q*1e6, 0.10,
			"flow through row %d must match the exit flow", i)
	}
}

func TestSimulate_ShotTimeTracksYield(t *testing.T) {
	r := Simulate(ScenarioDialedIn())
	require.Greater(t, r.TotalFlowRate, 0.0)
	require.Less(t, r.EffectiveShotTime, float64(shotTimeCapS))
	want := yieldRatio * r.Params.DoseGrams / r.TotalFlowRate
	assert.InEpsilon(t, want, r.EffectiveShotTime, 1e-9)
}

func TestSimulate_ScenarioOrdering(t *testing.T) {
	choked := Simulate(ScenarioChoked())
	dialed := Simulate(ScenarioDialedIn())
	gusher := Simulate(ScenarioGusher())

	assert.Less(t, choked.TotalFlowRate, dialed.TotalFlowRate)
	assert.Less(t, dialed.TotalFlowRate, gusher.TotalFlowRate)
	assert.Greater(t, choked.EffectiveShotTime, dialed.EffectiveShotTime)
	assert.Greater(t, dialed.EffectiveShotTime, gusher.EffectiveShotTime)
}

func TestSimulate_NormalizedFields(t *testing.T) {
	r := Simulate(ScenarioUnevenDistribution())

	fields := map[string][]float64{
		"pressure":      r.Pressure.Elements,
		"velocity":      r.Velocity.Elements,
		"extraction":    r.Extraction.Elements,
		"residenceTime": r.ResidenceTime.Elements,
		"permeability":  r.Permeability.Elements,
	}
	for name, elems := range fields {
		max := 0.0
		for n, v := range elems {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s[%d]", name, n)
			assert.GreaterOrEqual(t, v, 0.0, "%s[%d]", name, n)
			assert.LessOrEqual(t, v, 1.0+1e-12, "%s[%d]", name, n)
			max = math.Max(max, v)
		}
		assert.InDelta(t, 1.0, max, 1e-9, "%s must be normalized to its own maximum", name)
	}
}

func TestSimulate_EchoesClampedParams(t *testing.T) {
	p := ScenarioDialedIn()
	p.DoseGrams = 100
	p.BrewPressureBar = 50
	r := Simulate(p)

	assert.Equal(t, 25.0, r.Params.DoseGrams)
	assert.Equal(t, 12.0, r.Params.BrewPressureBar)
	assert.Len(t, r.Cells, r.Rows*r.Cols)
	assert.Equal(t, r.Cells[0], r.CellAt(0, 0))
	assert.Equal(t, r.Cells[len(r.Cells)-1], r.CellAt(r.Rows-1, r.Cols-1))
}

func TestSimulateWithConfig_RejectsBadConfig(t *testing.T) {
	p := ScenarioDialedIn()

	cfg := DefaultSolverConfig()
	cfg.Omega = 2.0
	r, err := SimulateWithConfig(p, cfg)
	require.Error(t, err)
	assert.Nil(t, r)

	cfg = DefaultSolverConfig()
	cfg.GridRows = 4
	_, err = SimulateWithConfig(p, cfg)
	require.Error(t, err)
}

func TestSimulateWithConfig_GridOverride(t *testing.T) {
	cfg := DefaultSolverConfig()
	cfg.GridRows = 32
	cfg.GridCols = 40
	r, err := SimulateWithConfig(ScenarioDialedIn(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 32, r.Rows)
	assert.Equal(t, 40, r.Cols)
	assert.Len(t, r.Cells, 32*40)
}

func TestSimulateTraced_RecordsMatchStats(t *testing.T) {
	p := ScenarioDialedIn()

	r, tr, err := SimulateTraced(p, DefaultSolverConfig(), trace.TraceConfig{Level: trace.TraceLevelSweeps})
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Len(t, tr.Passes, r.Stats.Passes)
	assert.Len(t, tr.Sweeps, r.Stats.Sweeps)

	summary := trace.Summarize(tr)
	assert.Equal(t, r.Stats.Passes, summary.TotalPasses)
	assert.Equal(t, r.Stats.Sweeps, summary.TotalSweeps)
	assert.Equal(t, r.Stats.Converged, summary.Converged)

	_, tr, err = SimulateTraced(p, DefaultSolverConfig(), trace.TraceConfig{Level: trace.TraceLevelPasses})
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.NotEmpty(t, tr.Passes)
	assert.Empty(t, tr.Sweeps)

	_, tr, err = SimulateTraced(p, DefaultSolverConfig(), trace.TraceConfig{})
	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestSimulate_GoldenScenarios(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Cases)

	for _, tc := range dataset.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			basket, err := BasketByName(tc.Params.Basket)
			require.NoError(t, err)

			r := Simulate(SimulationParameters{
				GrindSizeMicrons:    tc.Params.GrindSizeMicrons,
				DoseGrams:           tc.Params.DoseGrams,
				TampPressureKg:      tc.Params.TampPressureKg,
				BrewPressureBar:     tc.Params.BrewPressureBar,
				WaterTempC:          tc.Params.WaterTempC,
				BeanDensity:         tc.Params.BeanDensity,
				MoistureContent:     tc.Params.MoistureContent,
				DistributionQuality: tc.Params.DistributionQuality,
				Basket:              basket,
			})

			if tc.Expect.ZeroFlow {
				assert.Zero(t, r.TotalFlowRate)
			} else {
				assert.Greater(t, r.TotalFlowRate, 0.0)
			}
			testutil.AssertInBand(t, "flow rate", r.TotalFlowRate, tc.Expect.FlowRateMin, tc.Expect.FlowRateMax)
			testutil.AssertInBand(t, "channeling risk", r.ChannelingRisk, tc.Expect.ChannelingRiskMin, tc.Expect.ChannelingRiskMax)
			testutil.AssertInBand(t, "uniformity", r.UniformityIndex, tc.Expect.UniformityMin, tc.Expect.UniformityMax)
			testutil.AssertInBand(t, "shot time", r.EffectiveShotTime, tc.Expect.ShotTimeMin, tc.Expect.ShotTimeMax)

			if tc.Expect.WallHotspot {
				wallCol := int(0.85 * float64(r.Cols))
				found := false
				for _, loc := range r.ChannelLocations {
					if loc.Col >= wallCol {
						found = true
						break
					}
				}
				assert.True(t, found, "expected a hot spot in the wall band (col >= %d), got %v",
					wallCol, r.ChannelLocations)
			}
		})
	}
}
