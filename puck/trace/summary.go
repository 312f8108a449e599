package trace

// TraceSummary aggregates statistics from a SolveTrace.
type TraceSummary struct {
	TotalPasses       int
	TotalSweeps       int
	Converged         bool
	FinalPassDeltaPa  float64
	MeanSweepsPerPass float64
}

// Summarize computes aggregate statistics from a SolveTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SolveTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalPasses = len(st.Passes)
	for _, p := range st.Passes {
		summary.TotalSweeps += p.Sweeps
	}
	if len(st.Passes) > 0 {
		last := st.Passes[len(st.Passes)-1]
		summary.Converged = last.Converged
		summary.FinalPassDeltaPa = last.PassDeltaPa
		summary.MeanSweepsPerPass = float64(summary.TotalSweeps) / float64(len(st.Passes))
	}
	return summary
}
