package cmd

import (
	"encoding/json"
	"os"

	"github.com/ctessum/sparse"

	"github.com/pucksim/pucksim/puck"
)

// resultExport is the JSON shape of a full simulation dump. The core stays
// encoding-free; rendering collaborators consume this flattened form.
type resultExport struct {
	Params puck.SimulationParameters `json:"params"`
	Rows   int                       `json:"rows"`
	Cols   int                       `json:"cols"`

	// normalized display fields, row-major [rows][cols]
	Pressure      [][]float64 `json:"pressure"`
	Velocity      [][]float64 `json:"velocity"`
	Extraction    [][]float64 `json:"extraction"`
	ResidenceTime [][]float64 `json:"residence_time"`
	Permeability  [][]float64 `json:"permeability"`

	// raw velocity components for vector consumers (m/s)
	VelocityR [][]float64 `json:"velocity_r"`
	VelocityZ [][]float64 `json:"velocity_z"`

	TotalFlowRate     float64                `json:"total_flow_rate_ml_s"`
	ChannelingRisk    float64                `json:"channeling_risk"`
	UniformityIndex   float64                `json:"uniformity_index"`
	EffectiveShotTime float64                `json:"effective_shot_time_s"`
	ChannelLocations  []puck.ChannelLocation `json:"channel_locations"`

	Stats puck.SolveStats `json:"solve_stats"`
}

// fieldRows converts a flat field buffer into row slices for JSON output.
func fieldRows(a *sparse.DenseArray, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		copy(row, a.Elements[i*cols:(i+1)*cols])
		out[i] = row
	}
	return out
}

// cellComponent extracts one velocity component from the per-cell grid.
func cellComponent(r *puck.SimulationResult, pick func(puck.Cell) float64) [][]float64 {
	out := make([][]float64, r.Rows)
	for i := 0; i < r.Rows; i++ {
		row := make([]float64, r.Cols)
		for j := 0; j < r.Cols; j++ {
			row[j] = pick(r.CellAt(i, j))
		}
		out[i] = row
	}
	return out
}

// writeResultJSON dumps the full result to path.
func writeResultJSON(path string, r *puck.SimulationResult) error {
	export := resultExport{
		Params:            r.Params,
		Rows:              r.Rows,
		Cols:              r.Cols,
		Pressure:          fieldRows(r.Pressure, r.Rows, r.Cols),
		Velocity:          fieldRows(r.Velocity, r.Rows, r.Cols),
		Extraction:        fieldRows(r.Extraction, r.Rows, r.Cols),
		ResidenceTime:     fieldRows(r.ResidenceTime, r.Rows, r.Cols),
		Permeability:      fieldRows(r.Permeability, r.Rows, r.Cols),
		VelocityR:         cellComponent(r, func(c puck.Cell) float64 { return c.VelocityR }),
		VelocityZ:         cellComponent(r, func(c puck.Cell) float64 { return c.VelocityZ }),
		TotalFlowRate:     r.TotalFlowRate,
		ChannelingRisk:    r.ChannelingRisk,
		UniformityIndex:   r.UniformityIndex,
		EffectiveShotTime: r.EffectiveShotTime,
		ChannelLocations:  r.ChannelLocations,
		Stats:             r.Stats,
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
