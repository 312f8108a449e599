package trace

// TraceLevel controls the verbosity of solve tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPasses captures one record per Ergun outer pass.
	TraceLevelPasses TraceLevel = "passes"
	// TraceLevelSweeps additionally captures one record per SOR sweep.
	TraceLevelSweeps TraceLevel = "sweeps"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelPasses: true,
	TraceLevelSweeps: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SolveTrace collects convergence records during a pressure solve.
type SolveTrace struct {
	Config TraceConfig
	Passes []PassRecord
	Sweeps []SweepRecord
}

// NewSolveTrace creates a SolveTrace ready for recording.
func NewSolveTrace(config TraceConfig) *SolveTrace {
	return &SolveTrace{
		Config: config,
		Passes: make([]PassRecord, 0),
		Sweeps: make([]SweepRecord, 0),
	}
}

// WantPasses reports whether pass records should be collected.
// Safe on a nil receiver so callers can thread an optional trace through.
func (st *SolveTrace) WantPasses() bool {
	if st == nil {
		return false
	}
	return st.Config.Level == TraceLevelPasses || st.Config.Level == TraceLevelSweeps
}

// WantSweeps reports whether per-sweep records should be collected.
func (st *SolveTrace) WantSweeps() bool {
	if st == nil {
		return false
	}
	return st.Config.Level == TraceLevelSweeps
}

// RecordPass appends an outer-pass convergence record.
func (st *SolveTrace) RecordPass(record PassRecord) {
	st.Passes = append(st.Passes, record)
}

// RecordSweep appends a single SOR sweep record.
func (st *SolveTrace) RecordSweep(record SweepRecord) {
	st.Sweeps = append(st.Sweeps, record)
}
