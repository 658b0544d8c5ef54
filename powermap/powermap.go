// Package powermap holds the cumulative and per-epoch power-density
// maps, one flat slice per simulation "case" (channel,rank for planar
// DRAM; a single case for 3D stacks), grounded on
// original_source/src/thermal.cc's accu_Pmap/cur_Pmap vectors.
package powermap

// Maps is the pair of flat 3D power-density maps spec.md §3 describes:
// Accu accumulates energy since the start of the run; Cur accumulates
// energy within the current epoch window and is zeroed after every
// transient solve.
//
// Cell (x,y,z) of case c lives at index z*dimX*dimY + y*dimX + x.
type Maps struct {
	Accu [][]float64
	Cur  [][]float64

	dimX, dimY, numP int
}

// New allocates zeroed Accu and Cur maps for numCase cases of dimX x dimY
// x numP cells each.
func New(numCase, dimX, dimY, numP int) *Maps {
	m := &Maps{dimX: dimX, dimY: dimY, numP: numP}
	cellCount := dimX * dimY * numP
	m.Accu = make([][]float64, numCase)
	m.Cur = make([][]float64, numCase)
	for c := 0; c < numCase; c++ {
		m.Accu[c] = make([]float64, cellCount)
		m.Cur[c] = make([]float64, cellCount)
	}
	return m
}

// DimX, DimY, NumP expose the grid dimensions the maps were built with.
func (m *Maps) DimX() int { return m.dimX }
func (m *Maps) DimY() int { return m.dimY }
func (m *Maps) NumP() int { return m.numP }

// CellsPerLayer is dimX*dimY, the stride between adjacent z layers.
func (m *Maps) CellsPerLayer() int { return m.dimX * m.dimY }

// Index converts a (x,y,z) grid coordinate to a flat offset.
func (m *Maps) Index(x, y, z int) int {
	return z*m.dimX*m.dimY + y*m.dimX + x
}

// Deposit adds energy to both the cumulative and current maps of case at
// cell (x,y,z). accu_Pmap is monotonically non-decreasing across the
// run (P2) because Deposit never subtracts.
func (m *Maps) Deposit(caseID, x, y, z int, energy float64) {
	idx := m.Index(x, y, z)
	m.Accu[caseID][idx] += energy
	m.Cur[caseID][idx] += energy
}

// ZeroCur resets the current-epoch map to all zeros (P1: invariant
// immediately after each transient solve call).
func (m *Maps) ZeroCur() {
	for c := range m.Cur {
		layer := m.Cur[c]
		for i := range layer {
			layer[i] = 0
		}
	}
}

// AddUniformCur adds amount to every cell of case c whose layer index z
// satisfies zFrom <= z < zTo, in the current-epoch map.
func (m *Maps) AddUniformCur(caseID, zFrom, zTo int, amount float64) {
	addUniform(m.Cur[caseID], m.dimX*m.dimY, zFrom, zTo, amount)
}

// AddUniformAccu is AddUniformCur's counterpart for the cumulative map,
// used by the final (steady-state) background top-up.
func (m *Maps) AddUniformAccu(caseID, zFrom, zTo int, amount float64) {
	addUniform(m.Accu[caseID], m.dimX*m.dimY, zFrom, zTo, amount)
}

func addUniform(flat []float64, cellsPerLayer, zFrom, zTo int, amount float64) {
	for z := zFrom; z < zTo; z++ {
		base := z * cellsPerLayer
		for i := 0; i < cellsPerLayer; i++ {
			flat[base+i] += amount
		}
	}
}

// SumAccu returns the sum of every cell of case c's cumulative map, used
// by P3 (energy-conservation) tests.
func (m *Maps) SumAccu(caseID int) float64 {
	var sum float64
	for _, v := range m.Accu[caseID] {
		sum += v
	}
	return sum
}
