package puck

// Darcy velocity: v = -lambda * grad P componentwise, with lambda = k/mu_eff
// the same conductance the pressure solve used. Axial velocity is positive
// toward the exit (increasing row index), so a healthy shot has vz > 0
// everywhere.

// deriveVelocities fills vr and vz with cell-centered Darcy velocities.
// Gradients use central differences in the interior and the Dirichlet face
// values at the inlet and exit rows (face to far cell center spans 1.5 dz).
// Radial velocity on the centerline is exactly zero by symmetry; the wall
// column uses a one-sided difference since no flux crosses the wall.
func deriveVelocities(g grid, lambda, pressure []float64, drivePa float64, vr, vz []float64) {
	rows, cols := g.rows, g.cols
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			n := i*cols + j

			var dPdz float64
			switch {
			case i == 0:
				dPdz = (pressure[n+cols] - drivePa) / (1.5 * g.dz)
			case i == rows-1:
				dPdz = (0 - pressure[n-cols]) / (1.5 * g.dz)
			default:
				dPdz = (pressure[n+cols] - pressure[n-cols]) / (2 * g.dz)
			}
			vz[n] = -lambda[n] * dPdz

			switch {
			case j == 0:
				vr[n] = 0
			case j == cols-1:
				vr[n] = -lambda[n] * (pressure[n] - pressure[n-1]) / g.dr
			default:
				vr[n] = -lambda[n] * (pressure[n+1] - pressure[n-1]) / (2 * g.dr)
			}
		}
	}
}

// exitFaceVelocities returns the axial velocity through the exit screen per
// column, from the half-cell Dirichlet gradient the solve itself used.
func exitFaceVelocities(g grid, lambda, pressure []float64) []float64 {
	v := make([]float64, g.cols)
	base := (g.rows - 1) * g.cols
	for j := 0; j < g.cols; j++ {
		v[j] = lambda[base+j] * pressure[base+j] / (g.dz / 2)
	}
	return v
}

// inletFaceVelocities returns the axial velocity entering through the top
// face per column.
func inletFaceVelocities(g grid, lambda, pressure []float64, drivePa float64) []float64 {
	v := make([]float64, g.cols)
	for j := 0; j < g.cols; j++ {
		v[j] = lambda[j] * (drivePa - pressure[j]) / (g.dz / 2)
	}
	return v
}

// integrateFlow converts per-column face velocities into a volumetric flow
// rate in m^3/s by summing v * ring area across the radius.
func integrateFlow(g grid, faceV []float64) float64 {
	q := 0.0
	for j, v := range faceV {
		q += v * g.ringArea(j)
	}
	return q
}
