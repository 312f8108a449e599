package cmd

import (
	"bytes"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pucksim/pucksim/puck"
)

// PresetBasket names a catalog basket or spells out a custom geometry.
// A non-empty name wins; geometry fields are ignored in that case.
type PresetBasket struct {
	Name                 string  `yaml:"name"`
	DiameterMM           float64 `yaml:"diameter_mm"`
	DepthMM              float64 `yaml:"depth_mm"`
	NominalDoseG         float64 `yaml:"nominal_dose_g"`
	HasBackPressureValve bool    `yaml:"has_back_pressure_valve"`
	BackPressureBar      float64 `yaml:"back_pressure_bar"`
}

// Preset describes one named shot configuration in a presets file.
type Preset struct {
	GrindSizeMicrons    float64      `yaml:"grind_size_microns"`
	DoseGrams           float64      `yaml:"dose_grams"`
	TampPressureKg      float64      `yaml:"tamp_pressure_kg"`
	BrewPressureBar     float64      `yaml:"brew_pressure_bar"`
	WaterTempC          float64      `yaml:"water_temp_c"`
	BeanDensity         float64      `yaml:"bean_density"`
	MoistureContent     float64      `yaml:"moisture_content"`
	DistributionQuality float64      `yaml:"distribution_quality"`
	Basket              PresetBasket `yaml:"basket"`
}

// PresetsFile represents the full presets YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type PresetsFile struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// toParams converts a preset to simulation parameters.
func (pr Preset) toParams() puck.SimulationParameters {
	params := puck.SimulationParameters{
		GrindSizeMicrons:    pr.GrindSizeMicrons,
		DoseGrams:           pr.DoseGrams,
		TampPressureKg:      pr.TampPressureKg,
		BrewPressureBar:     pr.BrewPressureBar,
		WaterTempC:          pr.WaterTempC,
		BeanDensity:         pr.BeanDensity,
		MoistureContent:     pr.MoistureContent,
		DistributionQuality: pr.DistributionQuality,
	}
	if pr.Basket.Name != "" {
		b, err := puck.BasketByName(pr.Basket.Name)
		if err != nil {
			logrus.Fatalf("Preset references %v", err)
		}
		params.Basket = b
		return params
	}
	params.Basket = puck.BasketSpec{
		DiameterMM:           pr.Basket.DiameterMM,
		DepthMM:              pr.Basket.DepthMM,
		NominalDoseG:         pr.Basket.NominalDoseG,
		HasBackPressureValve: pr.Basket.HasBackPressureValve,
		BackPressureBar:      pr.Basket.BackPressureBar,
	}
	return params
}

// builtinPresets mirrors the scenario constructors for CLI use.
func builtinPresets() map[string]puck.SimulationParameters {
	return map[string]puck.SimulationParameters{
		"dialed-in":           puck.ScenarioDialedIn(),
		"uneven-distribution": puck.ScenarioUnevenDistribution(),
		"choked":              puck.ScenarioChoked(),
		"gusher":              puck.ScenarioGusher(),
		"tea-valve":           puck.ScenarioTeaValve(),
	}
}

// loadPreset resolves a named preset, from the YAML file when one is given
// and from the built-in set otherwise.
func loadPreset(name, path string) puck.SimulationParameters {
	if path == "" {
		if params, ok := builtinPresets()[name]; ok {
			return params
		}
		logrus.Fatalf("Unknown preset %q; built-in presets: %v", name, builtinPresetNames())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("Failed to read presets file: %v", err)
	}

	// Parse YAML with strict field checking so typos fail loudly.
	var file PresetsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		logrus.Fatalf("Failed to parse presets YAML: %v", err)
	}

	preset, ok := file.Presets[name]
	if !ok {
		logrus.Fatalf("Preset %q not found in %s", name, path)
	}
	return preset.toParams()
}

func builtinPresetNames() []string {
	names := make([]string, 0, len(builtinPresets()))
	for name := range builtinPresets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
