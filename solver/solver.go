// Package solver is the narrow trait boundary spec.md §9 asks for in
// place of the five fixed-ABI numeric routines
// (calculate_Midx_array/calculate_Cap_array/initialize_Temperature/
// transient_thermal_solver/steady_thermal_solver) originally implemented
// in original_source/src/thermal.cc as free C++ functions taking raw
// double** buffers. Solver implementations are black-box linear-algebra
// kernels; this package only defines the boundary and the halo-packing
// glue (Bridge) that sits between powermap.Maps and a Solver.
package solver

// Solver is the thermal-solving collaborator. Implementations are
// expected to be pure functions of their arguments (spec.md §4.6's
// "non-reentrant but pure" assumption) aside from whatever internal
// caching they choose to do.
type Solver interface {
	// CalculateMidx returns the flat per-cell diagonal conductance array
	// (length dimX*dimY*numP) for a (chipX,chipY) die of numP layers and
	// (dimX,dimY) cells per layer at ambient temperature tamb.
	CalculateMidx(chipX, chipY float64, numP, dimX, dimY int, tamb float64) (midx []float64, err error)

	// CalculateCap returns the per-layer thermal capacitance array
	// (length numP).
	CalculateCap(chipX, chipY float64, numP, dimX, dimY int) (cap []float64, err error)

	// InitializeTemperature returns the initial temperature vector,
	// length (3*numP+1)*dimX*dimY — each physical layer is tri-sliced
	// for vertical discretization, plus one extra boundary slice — and
	// uniformly seeded at tamb.
	InitializeTemperature(chipX, chipY float64, numP, dimX, dimY int, tamb float64) ([]float64, error)

	// Transient advances tPrev by one epoch of wall-clock duration time
	// (seconds), integrated in iter sub-steps, and returns the updated
	// temperature vector.
	Transient(power []float64, chipX, chipY float64, numP, dimX, dimY int, midx []float64, cap []float64, time float64, iter int, tPrev []float64, tamb float64) ([]float64, error)

	// Steady solves for the steady-state temperature vector given power
	// averaged over the full run.
	Steady(power []float64, chipX, chipY float64, numP, dimX, dimY int, midx []float64, cap []float64, tamb float64) ([]float64, error)
}
