package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pucksim/pucksim/puck"
)

// CLI flags describing one shot. Shared by the run and sweep subcommands;
// defaults come from the dialed-in scenario and a --preset swaps the base
// before explicitly set flags are applied on top.
var (
	grindSize           float64 // Particle diameter (um)
	dose                float64 // Coffee mass (g)
	tampPressure        float64 // Compaction force (kg)
	brewPressure        float64 // Driving pressure at the puck inlet (bar)
	waterTemp           float64 // Water temperature (C)
	beanDensity         float64 // Bean solid density (g/cm^3)
	moisture            float64 // Moisture mass fraction
	distributionQuality float64 // Grounds distribution quality, 1.0 = perfectly even

	basketName     string  // Catalog basket name
	basketDiameter float64 // Custom basket inner diameter (mm)
	basketDepth    float64 // Custom basket depth (mm)
	basketDose     float64 // Custom basket nominal dose (g)
	hasValve       bool    // Custom basket has a back-pressure valve
	valvePressure  float64 // Valve cracking pressure (bar)

	presetName  string // Named preset to start from
	presetsFile string // YAML presets file (built-in presets when empty)

	gridRows int // Axial grid override (0 = derive from puck depth)
	gridCols int // Radial grid override (0 = derive from basket radius)
)

// registerShotFlags attaches the shared shot flags to a subcommand.
func registerShotFlags(cmd *cobra.Command) {
	defaults := puck.ScenarioDialedIn()

	cmd.Flags().Float64Var(&grindSize, "grind-size", defaults.GrindSizeMicrons, "Particle diameter in microns [200, 800]")
	cmd.Flags().Float64Var(&dose, "dose", defaults.DoseGrams, "Coffee mass in grams [5, 25]")
	cmd.Flags().Float64Var(&tampPressure, "tamp-pressure", defaults.TampPressureKg, "Compaction force in kg [5, 30]")
	cmd.Flags().Float64Var(&brewPressure, "brew-pressure", defaults.BrewPressureBar, "Driving pressure in bar [1, 12]")
	cmd.Flags().Float64Var(&waterTemp, "water-temp", defaults.WaterTempC, "Water temperature in Celsius [70, 100]")
	cmd.Flags().Float64Var(&beanDensity, "bean-density", defaults.BeanDensity, "Bean solid density in g/cm^3 [1.05, 1.25]")
	cmd.Flags().Float64Var(&moisture, "moisture", defaults.MoistureContent, "Moisture mass fraction [0.02, 0.18]")
	cmd.Flags().Float64Var(&distributionQuality, "distribution-quality", defaults.DistributionQuality, "Grounds distribution quality [0.3, 1.0]")

	cmd.Flags().StringVar(&basketName, "basket", defaults.Basket.Name, "Catalog basket name (see 'pucksim baskets')")
	cmd.Flags().Float64Var(&basketDiameter, "basket-diameter", defaults.Basket.DiameterMM, "Custom basket inner diameter (mm)")
	cmd.Flags().Float64Var(&basketDepth, "basket-depth", defaults.Basket.DepthMM, "Custom basket depth (mm)")
	cmd.Flags().Float64Var(&basketDose, "basket-dose", defaults.Basket.NominalDoseG, "Custom basket nominal dose (g)")
	cmd.Flags().BoolVar(&hasValve, "valve", defaults.Basket.HasBackPressureValve, "Basket has a back-pressure valve")
	cmd.Flags().Float64Var(&valvePressure, "valve-pressure", defaults.Basket.BackPressureBar, "Valve cracking pressure (bar)")

	cmd.Flags().StringVar(&presetName, "preset", "", "Start from a named preset instead of the defaults")
	cmd.Flags().StringVar(&presetsFile, "presets-file", "", "YAML presets file (built-in presets when empty)")

	cmd.Flags().IntVar(&gridRows, "grid-rows", 0, "Axial grid resolution override (0 = derive from puck depth)")
	cmd.Flags().IntVar(&gridCols, "grid-cols", 0, "Radial grid resolution override (0 = derive from basket radius)")
}

// paramsFromFlags resolves the final parameter set: preset base (if any),
// then every explicitly set flag on top.
func paramsFromFlags(cmd *cobra.Command) puck.SimulationParameters {
	p := puck.ScenarioDialedIn()
	if presetName != "" {
		p = loadPreset(presetName, presetsFile)
	}

	f := cmd.Flags()
	if f.Changed("grind-size") {
		p.GrindSizeMicrons = grindSize
	}
	if f.Changed("dose") {
		p.DoseGrams = dose
	}
	if f.Changed("tamp-pressure") {
		p.TampPressureKg = tampPressure
	}
	if f.Changed("brew-pressure") {
		p.BrewPressureBar = brewPressure
	}
	if f.Changed("water-temp") {
		p.WaterTempC = waterTemp
	}
	if f.Changed("bean-density") {
		p.BeanDensity = beanDensity
	}
	if f.Changed("moisture") {
		p.MoistureContent = moisture
	}
	if f.Changed("distribution-quality") {
		p.DistributionQuality = distributionQuality
	}

	if f.Changed("basket") {
		b, err := puck.BasketByName(basketName)
		if err != nil {
			logrus.Fatalf("Unknown basket %q; run 'pucksim baskets' for the catalog", basketName)
		}
		p.Basket = b
	}
	if f.Changed("basket-diameter") {
		p.Basket.DiameterMM = basketDiameter
		p.Basket.Name = ""
	}
	if f.Changed("basket-depth") {
		p.Basket.DepthMM = basketDepth
		p.Basket.Name = ""
	}
	if f.Changed("basket-dose") {
		p.Basket.NominalDoseG = basketDose
		p.Basket.Name = ""
	}
	if f.Changed("valve") {
		p.Basket.HasBackPressureValve = hasValve
		p.Basket.Name = ""
	}
	if f.Changed("valve-pressure") {
		p.Basket.BackPressureBar = valvePressure
		p.Basket.Name = ""
	}
	return p
}
