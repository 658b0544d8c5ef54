package solver

// IdentitySolver is a deterministic fixture Solver for tests: Midx and
// Cap are constant 1.0, initial temperature is uniformly tamb, Transient
// adds the per-cell power value to tPrev's mid-plane temperatures, and
// Steady returns tamb plus the per-cell power value (i.e. "temperature
// rise equals power deposited"), so tests
// can assert exact float outputs without depending on any real numeric
// solver. A hand-written fixture rather than a golang/mock-generated one
// (see DESIGN.md): Solver's five methods return differently-shaped
// vectors, and a fixture producing physically-sensible data suited this
// module's tests better than a generated call-recorder.
type IdentitySolver struct{}

func (IdentitySolver) CalculateMidx(chipX, chipY float64, numP, dimX, dimY int, tamb float64) ([]float64, error) {
	midx := make([]float64, dimX*dimY*numP)
	for i := range midx {
		midx[i] = 1.0
	}
	return midx, nil
}

func (IdentitySolver) CalculateCap(chipX, chipY float64, numP, dimX, dimY int) ([]float64, error) {
	cap := make([]float64, numP)
	for i := range cap {
		cap[i] = 1.0
	}
	return cap, nil
}

func (IdentitySolver) InitializeTemperature(chipX, chipY float64, numP, dimX, dimY int, tamb float64) ([]float64, error) {
	t := make([]float64, (3*numP+1)*dimX*dimY)
	for i := range t {
		t[i] = tamb
	}
	return t, nil
}

func (IdentitySolver) Transient(power []float64, chipX, chipY float64, numP, dimX, dimY int, midx []float64, cap []float64, time float64, iter int, tPrev []float64, tamb float64) ([]float64, error) {
	out := append([]float64(nil), tPrev...)
	cellsPerLayer := dimX * dimY
	for l := 0; l < numP; l++ {
		mid := (3*l + 1) * cellsPerLayer
		base := l * cellsPerLayer
		for c := 0; c < cellsPerLayer; c++ {
			out[mid+c] = tPrev[mid+c] + power[base+c]
		}
	}
	return out, nil
}

func (IdentitySolver) Steady(power []float64, chipX, chipY float64, numP, dimX, dimY int, midx []float64, cap []float64, tamb float64) ([]float64, error) {
	out := make([]float64, (3*numP+1)*dimX*dimY)
	for i := range out {
		out[i] = tamb
	}
	cellsPerLayer := dimX * dimY
	for l := 0; l < numP; l++ {
		mid := (3*l + 1) * cellsPerLayer
		base := l * cellsPerLayer
		for c := 0; c < cellsPerLayer; c++ {
			out[mid+c] = tamb + power[base+c]
		}
	}
	return out, nil
}
