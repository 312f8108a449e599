package puck

import "math"

// grid is the axisymmetric discretization of the puck: rows axial cells from
// inlet (row 0) to exit (row rows-1), cols radial cells from the centerline
// (col 0) to the basket wall (col cols-1). A 2D (r, z) lattice represents the
// 3D cylinder under the assumption of no angular variation, so every cell is
// an annular ring.
type grid struct {
	rows, cols int
	radiusM    float64 // basket inner radius (m)
	depthM     float64 // puck depth (m)
	dr, dz     float64 // cell spacing (m)
}

const (
	minGridDim = 20
	maxGridDim = 48
)

// puckDepthM derives the puck depth from the dose: the ground coffee's solid
// volume expanded by the bed porosity, spread over the basket area. The depth
// is kept between 40% and 100% of the basket's internal depth so extreme
// doses still produce a physically sensible bed.
func puckDepthM(p SimulationParameters, basePorosity float64) float64 {
	solidVolumeCm3 := p.DoseGrams / p.BeanDensity
	bulkVolumeCm3 := solidVolumeCm3 / (1 - basePorosity)
	radiusCm := p.Basket.DiameterMM / 20
	areaCm2 := math.Pi * radiusCm * radiusCm
	depthMM := bulkVolumeCm3 / areaCm2 * 10
	depthMM = clamp(depthMM, 0.4*p.Basket.DepthMM, p.Basket.DepthMM)
	return depthMM / 1000
}

// newGrid builds the lattice for the given geometry. Zero row/col overrides
// derive the resolution from the physical size: about two cells per
// millimeter of depth and one per millimeter of radius, bounded so channel
// features stay resolvable without making the solve needlessly expensive.
func newGrid(p SimulationParameters, cfg SolverConfig, depthM float64) grid {
	radiusM := p.Basket.DiameterMM / 2 / 1000

	rows := cfg.GridRows
	if rows == 0 {
		rows = int(math.Round(2 * depthM * 1000))
		rows = int(clamp(float64(rows), minGridDim, maxGridDim))
	}
	cols := cfg.GridCols
	if cols == 0 {
		cols = int(math.Round(radiusM * 1000))
		cols = int(clamp(float64(cols), minGridDim, maxGridDim))
	}

	return grid{
		rows:    rows,
		cols:    cols,
		radiusM: radiusM,
		depthM:  depthM,
		dr:      radiusM / float64(cols),
		dz:      depthM / float64(rows),
	}
}

// centerRadius returns the radius of column j's cell center.
func (g grid) centerRadius(j int) float64 {
	return (float64(j) + 0.5) * g.dr
}

// ringArea returns the horizontal annulus area of column j, the face through
// which axial flow passes.
func (g grid) ringArea(j int) float64 {
	rIn := float64(j) * g.dr
	rOut := float64(j+1) * g.dr
	return math.Pi * (rOut*rOut - rIn*rIn)
}

// radialFaceArea returns the cylindrical face area between columns j-1 and j
// (face index j, radius j*dr) over one cell height. Face 0 sits on the
// centerline and has zero area, which is what makes the axis a natural
// zero-flux boundary.
func (g grid) radialFaceArea(jFace int) float64 {
	return 2 * math.Pi * float64(jFace) * g.dr * g.dz
}

// idx maps (row, col) to the flat row-major element offset shared by every
// field buffer in the package.
func (g grid) idx(i, j int) int {
	return i*g.cols + j
}
