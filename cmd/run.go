package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pucksim/pucksim/puck"
	"github.com/pucksim/pucksim/puck/trace"
)

var (
	traceLevel string // Solver trace level
	outputPath string // JSON result dump path
)

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one shot and print its quality metrics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (want none, passes, or sweeps)", traceLevel)
		}

		params := paramsFromFlags(cmd)
		cfg := puck.DefaultSolverConfig()
		cfg.GridRows = gridRows
		cfg.GridCols = gridCols

		logrus.Infof("Simulating %.0f um grind, %.1f g dose at %.1f bar in %.1f mm basket",
			params.GrindSizeMicrons, params.DoseGrams, params.BrewPressureBar, params.Basket.DiameterMM)

		startTime := time.Now()
		result, tr, err := puck.SimulateTraced(params, cfg, trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		printShotSummary(result, time.Since(startTime))

		if tr != nil {
			printTraceSummary(trace.Summarize(tr))
		}
		if outputPath != "" {
			if err := writeResultJSON(outputPath, result); err != nil {
				logrus.Fatalf("Failed to write result: %v", err)
			}
			fmt.Printf("Full result written to %s\n", outputPath)
		}
	},
}

// printShotSummary displays the aggregate metrics of a finished simulation.
func printShotSummary(r *puck.SimulationResult, elapsed time.Duration) {
	fmt.Println("=== Shot Summary ===")
	fmt.Printf("Grid                : %d x %d (axial x radial)\n", r.Rows, r.Cols)
	fmt.Printf("Flow Rate           : %.2f ml/s\n", r.TotalFlowRate)
	fmt.Printf("Channeling Risk     : %.3f\n", r.ChannelingRisk)
	fmt.Printf("Uniformity Index    : %.3f\n", r.UniformityIndex)
	fmt.Printf("Effective Shot Time : %.1f s\n", r.EffectiveShotTime)
	fmt.Printf("Channel Hot Spots   : %d\n", len(r.ChannelLocations))
	fmt.Printf("Solver              : %d passes, %d sweeps, converged=%v\n",
		r.Stats.Passes, r.Stats.Sweeps, r.Stats.Converged)
	fmt.Printf("Wall Time           : %v\n", elapsed)
}

// printTraceSummary displays aggregate solver convergence statistics.
func printTraceSummary(s *trace.TraceSummary) {
	fmt.Println("=== Solve Trace ===")
	fmt.Printf("Passes              : %d\n", s.TotalPasses)
	fmt.Printf("Total Sweeps        : %d\n", s.TotalSweeps)
	fmt.Printf("Mean Sweeps/Pass    : %.1f\n", s.MeanSweepsPerPass)
	fmt.Printf("Converged           : %v\n", s.Converged)
	fmt.Printf("Final Pass Delta    : %.3g Pa\n", s.FinalPassDeltaPa)
}

func init() {
	registerShotFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Solver trace level (none, passes, sweeps)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the full result (fields and aggregates) as JSON")

	rootCmd.AddCommand(runCmd)
}
