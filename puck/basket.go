package puck

import "fmt"

// StandardBaskets returns the static catalog of common basket geometries.
// The catalog is reference data for UIs and the CLI; simulations accept any
// BasketSpec, cataloged or not.
func StandardBaskets() []BasketSpec {
	return []BasketSpec{
		{Name: "standard-single", DiameterMM: 58, DepthMM: 14, NominalDoseG: 8},
		{Name: "standard-double", DiameterMM: 58, DepthMM: 24, NominalDoseG: 18},
		{Name: "standard-triple", DiameterMM: 58, DepthMM: 30, NominalDoseG: 22},
		{Name: "competition-585", DiameterMM: 58.5, DepthMM: 25, NominalDoseG: 20},
		{Name: "compact-51", DiameterMM: 51, DepthMM: 22, NominalDoseG: 14},
		{Name: "pressurized-double", DiameterMM: 58, DepthMM: 24, NominalDoseG: 16, HasBackPressureValve: true, BackPressureBar: 3},
		{Name: "tea-valve", DiameterMM: 58, DepthMM: 28, NominalDoseG: 5, HasBackPressureValve: true, BackPressureBar: 1.5},
	}
}

// BasketByName looks up a basket in the standard catalog.
func BasketByName(name string) (BasketSpec, error) {
	for _, b := range StandardBaskets() {
		if b.Name == name {
			return b, nil
		}
	}
	return BasketSpec{}, fmt.Errorf("unknown basket %q", name)
}
