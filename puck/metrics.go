package puck

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// channelThreshold flags a cell as a hot spot when its axial velocity
	// exceeds this multiple of the row mean.
	channelThreshold = 1.8

	// cvSaturation is the exit-velocity coefficient of variation at which
	// channeling risk saturates at 1.
	cvSaturation = 1.5

	// extractionDepthWeight biases the extraction proxy toward the inlet:
	// water reaches shallow cells first, so they see more of the brew window.
	extractionDepthWeight = 0.5

	shotTimeCapS = 600 // reported shot time ceiling (s)
	yieldRatio   = 2.0 // target beverage mass as a multiple of the dose

	tinySpeed = 1e-12 // velocity floor guarding divisions (m/s)
)

// brewMetrics bundles the aggregate indicators before they are copied onto
// the result.
type brewMetrics struct {
	flowRateML      float64
	channelingRisk  float64
	uniformityIndex float64
	shotTime        float64
	hotspots        []ChannelLocation
}

// computeMetrics derives the aggregates from the solved fields. Zero flow is
// a legitimate outcome (a valve that never opens): nothing moves and the shot
// never finishes, so the time reports the cap.
func computeMetrics(g grid, p SimulationParameters, exitV, vz []float64, flowM3 float64) brewMetrics {
	m := brewMetrics{uniformityIndex: 1, shotTime: shotTimeCapS}

	mean := stat.Mean(exitV, nil)
	if flowM3 <= 0 || mean <= tinySpeed {
		return m
	}
	m.flowRateML = flowM3 * 1e6

	cv := stat.StdDev(exitV, nil) / mean
	m.channelingRisk = math.Min(1, cv/cvSaturation)
	m.uniformityIndex = 1 / (1 + cv)
	m.hotspots = findChannels(g, vz)

	// 1 ml of espresso weighs about 1 g, so a 1:2 shot needs 2x dose in ml.
	yieldML := yieldRatio * p.DoseGrams
	m.shotTime = math.Min(shotTimeCapS, yieldML/m.flowRateML)
	return m
}

// findChannels flags cells whose axial velocity exceeds channelThreshold
// times their row mean. Rows with negligible mean flow are skipped so a
// near-stalled field does not produce spurious markers.
func findChannels(g grid, vz []float64) []ChannelLocation {
	var out []ChannelLocation
	for i := 0; i < g.rows; i++ {
		row := vz[i*g.cols : (i+1)*g.cols]
		mean := stat.Mean(row, nil)
		if mean <= tinySpeed {
			continue
		}
		for j, v := range row {
			if v > channelThreshold*mean {
				out = append(out, ChannelLocation{Row: i, Col: j})
			}
		}
	}
	return out
}

// exposureFields derives the residence-time and extraction proxies from the
// speed field. Residence is the time water spends crossing a cell,
// tau = eps dz / |v|; extraction weights that exposure by depth so slow cells
// and early cells both read as more extracted.
func exposureFields(g grid, bd bed, speed []float64) (residence, extraction []float64) {
	residence = make([]float64, len(speed))
	extraction = make([]float64, len(speed))
	for i := 0; i < g.rows; i++ {
		w := 1 + extractionDepthWeight*(1-(float64(i)+0.5)/float64(g.rows))
		for j := 0; j < g.cols; j++ {
			n := g.idx(i, j)
			tau := bd.porosity.Elements[n] * g.dz / math.Max(speed[n], tinySpeed)
			residence[n] = tau
			extraction[n] = tau * w
		}
	}
	return residence, extraction
}
