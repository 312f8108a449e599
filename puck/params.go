package puck

import "math"

// BasketSpec describes the geometry of an espresso basket.
type BasketSpec struct {
	Name                 string  // catalog name (empty for custom baskets)
	DiameterMM           float64 // inner diameter (mm)
	DepthMM              float64 // internal depth (mm)
	NominalDoseG         float64 // manufacturer-rated dose (g)
	HasBackPressureValve bool    // pressurized/tea basket with a cracking valve
	BackPressureBar      float64 // valve cracking pressure (bar), meaningful only with the valve
}

// SimulationParameters is the immutable input describing one simulation case.
// Callers are expected to keep values inside the documented ranges; Simulate
// clamps out-of-range values into range instead of failing.
type SimulationParameters struct {
	GrindSizeMicrons    float64 // particle diameter (um), [200, 800]
	DoseGrams           float64 // coffee mass (g), [5, 25]
	TampPressureKg      float64 // compaction force (kg), [5, 30]
	BrewPressureBar     float64 // driving pressure at the puck inlet (bar), [1, 12]
	WaterTempC          float64 // water temperature (C), [70, 100]
	BeanDensity         float64 // bean solid density (g/cm^3), [1.05, 1.25]
	MoistureContent     float64 // moisture mass fraction, [0.02, 0.18]
	DistributionQuality float64 // 1.0 = perfectly even grounds distribution, [0.3, 1.0]
	Basket              BasketSpec
}

// clamp returns v limited to [lo, hi]. NaN collapses to lo so that a
// corrupted input can never propagate into the solve.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy of p with every field forced into its valid range.
// The solve always runs on the clamped copy.
func (p SimulationParameters) Clamped() SimulationParameters {
	out := p
	out.GrindSizeMicrons = clamp(p.GrindSizeMicrons, 200, 800)
	out.DoseGrams = clamp(p.DoseGrams, 5, 25)
	out.TampPressureKg = clamp(p.TampPressureKg, 5, 30)
	out.BrewPressureBar = clamp(p.BrewPressureBar, 1, 12)
	out.WaterTempC = clamp(p.WaterTempC, 70, 100)
	out.BeanDensity = clamp(p.BeanDensity, 1.05, 1.25)
	out.MoistureContent = clamp(p.MoistureContent, 0.02, 0.18)
	out.DistributionQuality = clamp(p.DistributionQuality, 0.3, 1.0)
	out.Basket.DiameterMM = clamp(p.Basket.DiameterMM, 30, 80)
	out.Basket.DepthMM = clamp(p.Basket.DepthMM, 8, 60)
	out.Basket.NominalDoseG = clamp(p.Basket.NominalDoseG, 1, 30)
	if p.Basket.HasBackPressureValve {
		out.Basket.BackPressureBar = clamp(p.Basket.BackPressureBar, 0, 12)
	} else {
		out.Basket.BackPressureBar = 0
	}
	return out
}

// drivingPressurePa returns the effective driving pressure across the puck in
// pascals. With a back-pressure valve the inlet only sees pressure above the
// cracking point; below it the valve holds everything back and the drive is
// zero (a legitimate zero-flow case, not an error).
func drivingPressurePa(p SimulationParameters) float64 {
	driveBar := p.BrewPressureBar
	if p.Basket.HasBackPressureValve {
		driveBar -= p.Basket.BackPressureBar
	}
	if driveBar <= 0 {
		return 0
	}
	return driveBar * 1e5
}
