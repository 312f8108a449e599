package puck

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
	"math/rand"
)

// Fingerprint returns a 64-bit FNV-1a hash over every parameter field.
// Two parameter sets with the same Fingerprint produce bit-identical
// simulation results, so callers can use it as a memoization or debounce key.
// The hash is a pure function of the values and is stable across processes.
func (p SimulationParameters) Fingerprint() uint64 {
	h := fnv.New64a()
	hashFloat64(h, p.GrindSizeMicrons)
	hashFloat64(h, p.DoseGrams)
	hashFloat64(h, p.TampPressureKg)
	hashFloat64(h, p.BrewPressureBar)
	hashFloat64(h, p.WaterTempC)
	hashFloat64(h, p.BeanDensity)
	hashFloat64(h, p.MoistureContent)
	hashFloat64(h, p.DistributionQuality)
	hashFloat64(h, p.Basket.DiameterMM)
	hashFloat64(h, p.Basket.DepthMM)
	hashFloat64(h, p.Basket.NominalDoseG)
	hashBool(h, p.Basket.HasBackPressureValve)
	hashFloat64(h, p.Basket.BackPressureBar)
	return h.Sum64()
}

// bedSeed derives the RNG seed for distribution noise from the parameters
// that physically shape the bed before water touches it: dose, tamp, bean
// density, moisture and basket geometry. Brew pressure, temperature, grind
// size and distribution quality are excluded, so sweeping any of them varies
// the physics without redrawing the noise texture.
func bedSeed(p SimulationParameters) int64 {
	h := fnv.New64a()
	hashFloat64(h, p.DoseGrams)
	hashFloat64(h, p.TampPressureKg)
	hashFloat64(h, p.BeanDensity)
	hashFloat64(h, p.MoistureContent)
	hashFloat64(h, p.Basket.DiameterMM)
	hashFloat64(h, p.Basket.DepthMM)
	return int64(h.Sum64())
}

func hashFloat64(h hash.Hash64, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	h.Write(buf[:])
}

func hashBool(h hash.Hash64, v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	h.Write([]byte{b})
}

// bedNoise draws the deterministic noise texture for one bed: a per-column
// component (vertical channel structure) and a per-cell component (local
// packing irregularity), both uniform in [-1, 1].
//
// The column components inside the wall band are zeroed because the wall gap
// is modeled by the deterministic wall-effect term, and the remaining column
// components are centered to zero mean: the dose fixes the total void volume,
// so noise redistributes porosity rather than adding or removing it.
func bedNoise(seed int64, rows, cols, wallStart int) (colNoise []float64, cellNoise []float64) {
	rng := rand.New(rand.NewSource(seed))

	colNoise = make([]float64, cols)
	for j := 0; j < cols; j++ {
		colNoise[j] = 2*rng.Float64() - 1
	}
	sum := 0.0
	for j := 0; j < wallStart; j++ {
		sum += colNoise[j]
	}
	if wallStart > 0 {
		mean := sum / float64(wallStart)
		for j := 0; j < wallStart; j++ {
			colNoise[j] -= mean
		}
	}
	for j := wallStart; j < cols; j++ {
		colNoise[j] = 0
	}

	cellNoise = make([]float64, rows*cols)
	for i := range cellNoise {
		cellNoise[i] = 2*rng.Float64() - 1
	}
	return colNoise, cellNoise
}
