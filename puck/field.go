package puck

import (
	"math"

	"github.com/ctessum/sparse"
)

// Bed model constants. These are calibration constants in the sense of the
// domain literature: the qualitative behaviors (diminishing tamp returns,
// wall donut, fines choking the exit, quality-scaled variance) are fixed,
// the exact magnitudes are tuned against the reference shot scenarios.
const (
	// wall effect: porosity boost in the outer radial band
	wallBandStartFrac = 0.88 // band covers the outer 12% of the radius
	wallBoostBase     = 0.20 // boost at the wall with perfect distribution
	wallBoostSpread   = 0.05 // extra boost at the worst distribution quality

	// fines migration: permeability loss toward the exit screen
	finesDepthFrac    = 0.70 // migration affects the bottom 30% of the bed
	finesMaxReduction = 0.20 // permeability reduction at the exit row

	// distribution noise
	noiseAmplitude    = 0.25 // relative porosity perturbation at quality 0.3
	noiseColumnWeight = 0.70 // share of the per-column (vertical channel) component

	minDistributionQuality = 0.3

	// hydraulicDiameterFrac converts the nominal grind diameter to the
	// effective hydraulic particle diameter of the flow paths. Espresso
	// hydraulics are dominated by the fines fraction, not the median
	// particle, so the conducting diameter is far below the grind setting.
	hydraulicDiameterFrac = 0.0037

	// open-interval guard applied before Kozeny-Carman
	porosityFloor = 0.05
	porosityCeil  = 0.95
)

// bed holds the material fields of one packed puck. kHydraulic drives the
// pressure solve; kReported is the Kozeny-Carman permeability at the grind
// diameter, the material property exposed in the result fields. The two
// differ by a fixed factor per cell, so normalized views are identical.
type bed struct {
	porosity     *sparse.DenseArray // void fraction per cell
	kHydraulic   *sparse.DenseArray // solve permeability (m^2)
	kReported    *sparse.DenseArray // reported permeability (m^2)
	basePorosity float64
}

// basePorosity combines tamp force, moisture and bean density into the bulk
// void fraction. Tamp response is exponential so compaction shows diminishing
// returns above roughly 15 kg; moisture swells particles into the voids;
// denser beans settle tighter.
func basePorosity(p SimulationParameters) float64 {
	eps := 0.52 -
		0.14*(1-math.Exp(-(p.TampPressureKg-5)/10)) -
		0.5*p.MoistureContent -
		0.15*(p.BeanDensity-1.15)
	return clamp(eps, 0.25, 0.55)
}

// wallBandStart returns the first column whose cell center lies in the wall
// band.
func wallBandStart(g grid) int {
	j := int(math.Ceil(wallBandStartFrac*float64(g.cols) - 0.5))
	if j < 0 {
		j = 0
	}
	if j > g.cols {
		j = g.cols
	}
	return j
}

// wallBoost returns the relative porosity boost for column j. Grounds pack
// loosely against the basket wall, and the looser packing worsens as the
// distribution gets sloppier.
func wallBoost(p SimulationParameters, g grid, j int) float64 {
	rFrac := g.centerRadius(j) / g.radiusM
	if rFrac < wallBandStartFrac {
		return 0
	}
	qualityGap := (1 - p.DistributionQuality) / (1 - minDistributionQuality)
	amp := wallBoostBase + wallBoostSpread*qualityGap
	return amp * (rFrac - wallBandStartFrac) / (1 - wallBandStartFrac)
}

// finesMultiplier returns the permeability factor at normalized depth zFrac.
// Fines washed toward the screen clog the bottom of the bed.
func finesMultiplier(zFrac float64) float64 {
	if zFrac <= finesDepthFrac {
		return 1
	}
	return 1 - finesMaxReduction*(zFrac-finesDepthFrac)/(1-finesDepthFrac)
}

// kozenyCarman returns the permeability of a granular bed with void fraction
// eps and particle diameter dM (meters): k = eps^3 d^2 / (180 (1-eps)^2).
func kozenyCarman(eps, dM float64) float64 {
	s := 1 - eps
	return eps * eps * eps * dM * dM / (180 * s * s)
}

// buildBed produces the porosity and permeability fields for one parameter
// set. Writes go through Elements directly: the arrays are preallocated and
// flat, and the hot loops never branch on the stored value.
func buildBed(p SimulationParameters, g grid) bed {
	base := basePorosity(p)
	amp := noiseAmplitude * (1 - p.DistributionQuality)
	wallStart := wallBandStart(g)
	colNoise, cellNoise := bedNoise(bedSeed(p), g.rows, g.cols, wallStart)

	dGrind := p.GrindSizeMicrons * 1e-6
	dHydraulic := dGrind * hydraulicDiameterFrac

	porosity := sparse.ZerosDense(g.rows, g.cols)
	kHyd := sparse.ZerosDense(g.rows, g.cols)
	kRep := sparse.ZerosDense(g.rows, g.cols)

	for i := 0; i < g.rows; i++ {
		zFrac := (float64(i) + 0.5) / float64(g.rows)
		fines := finesMultiplier(zFrac)
		for j := 0; j < g.cols; j++ {
			n := g.idx(i, j)
			eps := base * (1 + wallBoost(p, g, j))
			if amp > 0 {
				eps *= 1 + amp*(noiseColumnWeight*colNoise[j]+(1-noiseColumnWeight)*cellNoise[n])
			}
			eps = clamp(eps, porosityFloor, porosityCeil)
			porosity.Elements[n] = eps
			kHyd.Elements[n] = kozenyCarman(eps, dHydraulic) * fines
			kRep.Elements[n] = kozenyCarman(eps, dGrind) * fines
		}
	}

	return bed{
		porosity:     porosity,
		kHydraulic:   kHyd,
		kReported:    kRep,
		basePorosity: base,
	}
}
