package puck

// Built-in scenario presets for common shot profiles.
// Each returns valid SimulationParameters ready for Simulate.

// ScenarioDialedIn is a well-prepared standard double: 18 g at 400 um,
// 15 kg tamp, 9 bar and 93 C with an even distribution. Expect moderate
// flow, low channeling risk and high uniformity.
func ScenarioDialedIn() SimulationParameters {
	basket, _ := BasketByName("standard-double")
	return SimulationParameters{
		GrindSizeMicrons:    400,
		DoseGrams:           18,
		TampPressureKg:      15,
		BrewPressureBar:     9,
		WaterTempC:          93,
		BeanDensity:         1.15,
		MoistureContent:     0.10,
		DistributionQuality: 1.0,
		Basket:              basket,
	}
}

// ScenarioUnevenDistribution is the dialed-in shot with the grounds dumped in
// carelessly: distribution quality at the floor, everything else unchanged.
// Expect materially higher channeling risk and hot spots in the wall band.
func ScenarioUnevenDistribution() SimulationParameters {
	p := ScenarioDialedIn()
	p.DistributionQuality = 0.3
	return p
}

// ScenarioChoked is an overdosed, too-fine, over-tamped shot: the puck barely
// passes water.
func ScenarioChoked() SimulationParameters {
	basket, _ := BasketByName("standard-double")
	return SimulationParameters{
		GrindSizeMicrons:    220,
		DoseGrams:           22,
		TampPressureKg:      28,
		BrewPressureBar:     9,
		WaterTempC:          93,
		BeanDensity:         1.20,
		MoistureContent:     0.12,
		DistributionQuality: 0.9,
		Basket:              basket,
	}
}

// ScenarioGusher is an underdosed, coarse, barely tamped shot: water races
// through.
func ScenarioGusher() SimulationParameters {
	basket, _ := BasketByName("standard-double")
	return SimulationParameters{
		GrindSizeMicrons:    750,
		DoseGrams:           13,
		TampPressureKg:      6,
		BrewPressureBar:     9,
		WaterTempC:          90,
		BeanDensity:         1.08,
		MoistureContent:     0.04,
		DistributionQuality: 0.7,
		Basket:              basket,
	}
}

// ScenarioTeaValve brews loose tea in a valve basket below the cracking
// pressure: the valve holds, so the result is a legitimate zero-flow steep.
func ScenarioTeaValve() SimulationParameters {
	basket, _ := BasketByName("tea-valve")
	return SimulationParameters{
		GrindSizeMicrons:    800,
		DoseGrams:           5,
		TampPressureKg:      5,
		BrewPressureBar:     1,
		WaterTempC:          95,
		BeanDensity:         1.05,
		MoistureContent:     0.08,
		DistributionQuality: 0.8,
		Basket:              basket,
	}
}
