// Package puck implements a steady-state porous-media flow simulator for
// espresso pucks.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - params.go: SimulationParameters, the immutable input describing one brew
//   - simulate.go: Simulate, the single boundary operation (params in, result out)
//   - solver.go: the axisymmetric pressure solve (SOR over Darcy transmissibilities
//     with an Ergun effective-viscosity outer loop)
//
// # Architecture
//
// The pipeline is a pure function of its input:
//
//	SimulationParameters -> porosity/permeability bed -> pressure solve ->
//	velocity/flow fields -> aggregate metrics -> SimulationResult
//
// Supporting files:
//   - field.go: bed construction (wall effect, fines migration, distribution noise)
//   - velocity.go: Darcy velocity derivation and exit-flow integration
//   - metrics.go: channeling risk, uniformity, hot spots, shot time, exposure fields
//   - rng.go: parameter fingerprinting and deterministic bed-noise seeding
//   - basket.go: the static basket catalog
//
// Results are value bundles owned by the caller; nothing is shared between
// runs, so concurrent Simulate calls need no synchronization. Solve
// diagnostics can be captured with SimulateTraced and the puck/trace package.
package puck
