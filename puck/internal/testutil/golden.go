// Package testutil provides shared test infrastructure for the puck
// simulator: the golden scenario dataset and tolerance-aware assertion
// helpers used across package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldenscenarios.json.
type GoldenDataset struct {
	Cases []GoldenCase `json:"cases"`
}

// GoldenCase is one reference shot with expected aggregate bands. Bands
// rather than point values: the aggregates are calibration targets, and the
// dataset should survive small numerical retunes without churn.
type GoldenCase struct {
	Name   string       `json:"name"`
	Params GoldenParams `json:"params"`
	Expect GoldenExpect `json:"expect"`
}

// GoldenParams mirrors SimulationParameters with a catalog basket name.
type GoldenParams struct {
	GrindSizeMicrons    float64 `json:"grind_size_microns"`
	DoseGrams           float64 `json:"dose_grams"`
	TampPressureKg      float64 `json:"tamp_pressure_kg"`
	BrewPressureBar     float64 `json:"brew_pressure_bar"`
	WaterTempC          float64 `json:"water_temp_c"`
	BeanDensity         float64 `json:"bean_density"`
	MoistureContent     float64 `json:"moisture_content"`
	DistributionQuality float64 `json:"distribution_quality"`
	Basket              string  `json:"basket"`
}

// GoldenExpect is the accepted aggregate band for one case.
type GoldenExpect struct {
	ZeroFlow          bool    `json:"zero_flow"`
	FlowRateMin       float64 `json:"flow_rate_min"`
	FlowRateMax       float64 `json:"flow_rate_max"`
	ChannelingRiskMin float64 `json:"channeling_risk_min"`
	ChannelingRiskMax float64 `json:"channeling_risk_max"`
	UniformityMin     float64 `json:"uniformity_min"`
	UniformityMax     float64 `json:"uniformity_max"`
	ShotTimeMin       float64 `json:"shot_time_min"`
	ShotTimeMax       float64 `json:"shot_time_max"`
	WallHotspot       bool    `json:"wall_hotspot"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: puck/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from puck/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldenscenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertInBand checks that got lies inside [min, max].
func AssertInBand(t *testing.T, name string, got, min, max float64) {
	t.Helper()
	if got < min || got > max {
		t.Errorf("%s: got %v, want within [%v, %v]", name, got, min, max)
	}
}
