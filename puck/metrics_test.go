package puck

import (
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics_ZeroFlow(t *testing.T) {
	g := grid{rows: 2, cols: 4}
	exitV := make([]float64, 4)
	vz := make([]float64, 8)

	m := computeMetrics(g, ScenarioDialedIn(), exitV, vz, 0)

	assert.Zero(t, m.flowRateML)
	assert.Zero(t, m.channelingRisk)
	assert.Equal(t, 1.0, m.uniformityIndex)
	assert.Equal(t, float64(shotTimeCapS), m.shotTime)
	assert.Empty(t, m.hotspots)
}

func TestComputeMetrics_UniformExit(t *testing.T) {
	g := grid{rows: 2, cols: 4}
	exitV := []float64{1e-3, 1e-3, 1e-3, 1e-3}
	vz := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3, 1e-3, 1e-3, 1e-3}

	p := ScenarioDialedIn() // 18 g dose
	m := computeMetrics(g, p, exitV, vz, 1e-6)

	assert.InDelta(t, 1.0, m.flowRateML, 1e-12)
	assert.Zero(t, m.channelingRisk)
	assert.Equal(t, 1.0, m.uniformityIndex)
	assert.InDelta(t, 36.0, m.shotTime, 1e-9, "1:2 yield of 18 g at 1 ml/s")
	assert.Empty(t, m.hotspots)
}

func TestComputeMetrics_SpikedExit(t *testing.T) {
	g := grid{rows: 1, cols: 4}
	// mean 2e-3, sample stddev 2e-3: cv = 1.
	exitV := []float64{1e-3, 1e-3, 1e-3, 5e-3}
	vz := exitV

	m := computeMetrics(g, ScenarioDialedIn(), exitV, vz, 1e-6)

	assert.InDelta(t, 1/1.5, m.channelingRisk, 1e-9)
	assert.InDelta(t, 0.5, m.uniformityIndex, 1e-9)
	require.Len(t, m.hotspots, 1)
	assert.Equal(t, ChannelLocation{Row: 0, Col: 3}, m.hotspots[0])
}

func TestComputeMetrics_RiskSaturates(t *testing.T) {
	g := grid{rows: 1, cols: 3}
	// Extreme spike: cv well past the saturation point.
	exitV := []float64{1e-9, 1e-9, 1e-2}
	m := computeMetrics(g, ScenarioDialedIn(), exitV, exitV, 1e-6)
	assert.Equal(t, 1.0, m.channelingRisk)
	assert.Greater(t, m.uniformityIndex, 0.0)
	assert.Less(t, m.uniformityIndex, 0.5)
}

func TestComputeMetrics_ShotTimeCap(t *testing.T) {
	g := grid{rows: 1, cols: 2}
	exitV := []float64{1e-9, 1e-9}
	m := computeMetrics(g, ScenarioDialedIn(), exitV, exitV, 1e-12) // 1e-6 ml/s
	assert.Equal(t, float64(shotTimeCapS), m.shotTime, "a dribble never reaches yield")
}

func TestFindChannels(t *testing.T) {
	g := grid{rows: 3, cols: 4}
	vz := []float64{
		1e-3, 1e-3, 1e-3, 5e-3, // spike at col 3: 2.5x the row mean
		1e-3, 1e-3, 1e-3, 1e-3, // uniform: nothing flagged
		0, 0, 0, 0, // stalled row: skipped entirely
	}
	got := findChannels(g, vz)
	assert.Equal(t, []ChannelLocation{{Row: 0, Col: 3}}, got)
}

func TestFindChannels_ThresholdIsStrict(t *testing.T) {
	g := grid{rows: 1, cols: 2}

	// Peak below the multiple: clean. Values are dyadic so the row mean is
	// exactly 1 and the comparison has no rounding slack.
	assert.Empty(t, findChannels(g, []float64{0.25, 1.75}))

	// Peak just past it: flagged.
	got := findChannels(g, []float64{0.1875, 1.8125})
	assert.Equal(t, []ChannelLocation{{Row: 0, Col: 1}}, got)
}

func TestExposureFields(t *testing.T) {
	g := grid{rows: 2, cols: 2, dz: 0.001}
	porosity := sparse.ZerosDense(2, 2)
	for n := range porosity.Elements {
		porosity.Elements[n] = 0.4
	}
	bd := bed{porosity: porosity}

	speed := []float64{1e-3, 2e-3, 1e-3, 1e-3}
	residence, extraction := exposureFields(g, bd, speed)

	// Faster cell, shorter residence.
	assert.Less(t, residence[1], residence[0])
	assert.InDelta(t, 0.4*0.001/1e-3, residence[0], 1e-12)

	// Same speed, shallower cell extracts more.
	assert.Greater(t, extraction[0], extraction[2])

	// Residence weight never reduces extraction below the raw exposure.
	for n := range residence {
		assert.GreaterOrEqual(t, extraction[n], residence[n])
	}
}

func TestExposureFields_StalledCellStaysFinite(t *testing.T) {
	g := grid{rows: 1, cols: 2, dz: 0.001}
	porosity := sparse.ZerosDense(1, 2)
	porosity.Elements[0] = 0.4
	porosity.Elements[1] = 0.4
	bd := bed{porosity: porosity}

	residence, extraction := exposureFields(g, bd, []float64{0, 1e-3})
	assert.Greater(t, residence[0], residence[1])
	assert.Less(t, residence[0], 1e12, "the velocity floor keeps a stalled cell finite")
	assert.Less(t, extraction[0], 1e12)
}
