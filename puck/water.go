package puck

import "math"

// waterViscosityPaS returns the dynamic viscosity of water in Pa*s for a
// temperature in Celsius, using the Vogel equation fit
//
//	mu = 0.02939 * exp(507.88 / (T_K - 149.3))  [mPa*s]
//
// which is monotonically decreasing over the brewing range (about 0.40 mPa*s
// at 70 C down to 0.28 mPa*s at 100 C).
func waterViscosityPaS(tempC float64) float64 {
	t := clamp(tempC, 70, 100)
	return 0.02939e-3 * math.Exp(507.88/(t+273.15-149.3))
}

// waterDensityKgM3 returns the density of water in kg/m^3 over the brewing
// range, a linear fit between 977.8 at 70 C and 958.4 at 100 C.
func waterDensityKgM3(tempC float64) float64 {
	t := clamp(tempC, 70, 100)
	return 977.8 - 0.647*(t-70)
}
