package solver

import (
	"math"

	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

// minTimeIter is the step count timeIter's search starts from; the search
// then counts up by one until powerEpochTime/iter drops below dt.
const minTimeIter = 10

// Bridge packs a case's powermap.Maps into the haloed flat layout a
// Solver expects, derives the per-epoch integration step count, and owns
// the per-case temperature buffers a Solver reads as initial conditions
// and writes back into — grounded on original_source/src/thermal.cc's
// UpdatePower/PrintFinalPT solver-invocation sequence.
type Bridge struct {
	cfg *thermalconfig.Config
	g   *floorplan.Geometry
	s   Solver

	haloDimX, haloDimY int
	tambKelvin         float64

	midx []float64
	cap  []float64

	temps [][]float64 // per case, length (3*numP+1)*haloDimX*haloDimY
}

// NewBridge computes Midx/Cap once (they depend only on chip geometry,
// shared across every case) and seeds each case's temperature buffer at
// ambient, per spec.md §4.6's lifecycle note.
func NewBridge(cfg *thermalconfig.Config, g *floorplan.Geometry, s Solver) (*Bridge, error) {
	b := &Bridge{cfg: cfg, g: g, s: s}
	b.haloDimX = g.DimX + cfg.NumDummy
	b.haloDimY = g.DimY + cfg.NumDummy
	b.tambKelvin = cfg.Tamb0 + thermalconfig.KelvinOffset

	var err error
	b.midx, err = s.CalculateMidx(cfg.ChipX, cfg.ChipY, g.NumP, b.haloDimX, b.haloDimY, b.tambKelvin)
	if err != nil {
		return nil, err
	}
	b.cap, err = s.CalculateCap(cfg.ChipX, cfg.ChipY, g.NumP, b.haloDimX, b.haloDimY)
	if err != nil {
		return nil, err
	}

	b.temps = make([][]float64, g.NumCase)
	for c := 0; c < g.NumCase; c++ {
		t, err := s.InitializeTemperature(cfg.ChipX, cfg.ChipY, g.NumP, b.haloDimX, b.haloDimY, b.tambKelvin)
		if err != nil {
			return nil, err
		}
		b.temps[c] = t
	}

	return b, nil
}

// packHalo transforms case caseID's flat (dimX*dimY*numP) map from src
// into a (haloDimX*haloDimY*numP) buffer with a cfg.NumDummy/2 zero-cell
// halo on every side of each layer, dividing every cell by period.
func (b *Bridge) packHalo(src []float64, period float64) []float64 {
	half := b.cfg.NumDummy / 2
	out := make([]float64, b.haloDimX*b.haloDimY*b.g.NumP)
	cellsPerLayer := b.g.DimX * b.g.DimY
	haloCellsPerLayer := b.haloDimX * b.haloDimY

	for z := 0; z < b.g.NumP; z++ {
		srcBase := z * cellsPerLayer
		dstBase := z * haloCellsPerLayer
		for y := 0; y < b.g.DimY; y++ {
			for x := 0; x < b.g.DimX; x++ {
				v := src[srcBase+y*b.g.DimX+x]
				if period != 0 {
					v /= period
				}
				dstIdx := dstBase + (y+half)*b.haloDimX + (x + half)
				out[dstIdx] = v
			}
		}
	}
	return out
}

// timeIter derives the transient integration step count following
// spec.md §4.6: starting at 10, increment until powerEpochTime/iter is
// less than dt, where dt is the smallest Cap[z]/Midx[i] ratio over every
// cell i in layer z, minimized across all (i,z). powerEpochTime must be
// in seconds (power_epoch_period*tCK*1e-9), matching the units Cap and
// Midx are derived in; callers passing raw cycle counts would compare
// mismatched units against dt.
func (b *Bridge) timeIter(powerEpochTime float64) (int, error) {
	cellsPerLayer := b.haloDimX * b.haloDimY
	dt := math.Inf(1)
	for z := 0; z < b.g.NumP; z++ {
		if b.cap[z] == 0 {
			continue
		}
		base := z * cellsPerLayer
		for i := 0; i < cellsPerLayer; i++ {
			g := b.midx[base+i]
			if g <= 0 {
				continue
			}
			ratio := b.cap[z] / g
			if ratio < dt {
				dt = ratio
			}
		}
	}
	if math.IsInf(dt, 1) || dt <= 0 {
		return 0, thermalconfig.NewInvariantViolation("time_iter derivation produced a non-finite dt bound")
	}

	iter := minTimeIter
	for powerEpochTime/float64(iter) >= dt {
		iter++
	}
	return iter, nil
}

// Transient runs one epoch's transient solve for caseID: packs
// maps.Cur[caseID] (divided by the epoch period, in cycles — an average
// energy-per-cycle, independent of the solver's time unit), derives
// time_iter from power_epoch_time in seconds
// (power_epoch_period*tCK*1e-9, spec.md §4.6), and updates the case's
// stored temperature buffer. Returns the updated temperature vector
// (haloed layout) for the caller to extract per-layer maxima from.
func (b *Bridge) Transient(maps *powermap.Maps, caseID int) ([]float64, error) {
	period := float64(b.cfg.PowerEpochPeriod)
	power := b.packHalo(maps.Cur[caseID], period)

	powerEpochTime := period * b.cfg.TCK * 1e-9
	iter, err := b.timeIter(powerEpochTime)
	if err != nil {
		return nil, err
	}

	t, err := b.s.Transient(power, b.cfg.ChipX, b.cfg.ChipY, b.g.NumP, b.haloDimX, b.haloDimY,
		b.midx, b.cap, powerEpochTime, iter, b.temps[caseID], b.tambKelvin)
	if err != nil {
		return nil, err
	}
	b.temps[caseID] = t
	return t, nil
}

// Steady runs the final steady-state solve for caseID: packs
// maps.Accu[caseID] (divided by clk) and returns the resulting
// temperature vector (haloed layout); it does not mutate the stored
// transient buffer.
func (b *Bridge) Steady(maps *powermap.Maps, caseID int, clk float64) ([]float64, error) {
	power := b.packHalo(maps.Accu[caseID], clk)
	return b.s.Steady(power, b.cfg.ChipX, b.cfg.ChipY, b.g.NumP, b.haloDimX, b.haloDimY, b.midx, b.cap, b.tambKelvin)
}

// HaloDims exposes the haloed layer dimensions, needed by csvout to
// extract the non-halo region and by code computing the mid-plane index.
func (b *Bridge) HaloDims() (dimX, dimY int) { return b.haloDimX, b.haloDimY }

// MidplaneIndex returns the flat index of cell (i,j) on physical layer
// l's mid-plane within a temperature vector returned by this package's
// Solver methods. Each physical layer is tri-sliced (layerP[l] = 3*l);
// the mid-plane is sub-layer layerP[l]+1, per spec.md §4.7's indexing
// formula.
func (b *Bridge) MidplaneIndex(l, i, j int) int {
	layerP := 3 * l
	cellsPerSlice := b.haloDimX * b.haloDimY
	return (layerP+1)*cellsPerSlice + j*b.haloDimX + i
}
