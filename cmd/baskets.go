package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pucksim/pucksim/puck"
)

// basketsCmd prints the static basket catalog.
var basketsCmd = &cobra.Command{
	Use:   "baskets",
	Short: "List the standard basket catalog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-20s %-10s %-8s %-10s %-7s %s\n",
			"name", "diameter", "depth", "dose (g)", "valve", "cracking (bar)")
		for _, b := range puck.StandardBaskets() {
			valve := "-"
			cracking := "-"
			if b.HasBackPressureValve {
				valve = "yes"
				cracking = fmt.Sprintf("%.1f", b.BackPressureBar)
			}
			fmt.Printf("%-20s %-10.1f %-8.1f %-10.1f %-7s %s\n",
				b.Name, b.DiameterMM, b.DepthMM, b.NominalDoseG, valve, cracking)
		}
	},
}

func init() {
	rootCmd.AddCommand(basketsCmd)
}
