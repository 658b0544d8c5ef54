// Package background implements BackgroundPower: the per-epoch and final
// redistribution of standby/self-refresh/power-down energy and the
// logic-layer bandwidth-utilization power model, grounded on
// original_source/src/thermal.cc's UpdateBackgroundPower/UpdateLogicPower.
package background

import (
	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/stats"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

// logicConstantWatts is the fixed background contribution spec.md §4.4
// adds to the bandwidth-scaled logic-layer power, independent of traffic.
const logicConstantWatts = 3.0

// Redistributor applies BackgroundPower's per-epoch and final policies to
// a powermap.Maps, reading energy totals from a stats.Collector.
type Redistributor struct {
	cfg *thermalconfig.Config
	g   *floorplan.Geometry
}

// New builds a Redistributor for the given geometry and config.
func New(cfg *thermalconfig.Config, g *floorplan.Geometry) *Redistributor {
	return &Redistributor{cfg: cfg, g: g}
}

// Epoch applies the per-epoch (transient) background top-up to maps.Cur
// for every case, then checkpoints the collector and resets its epoch
// command counters. For 3D stacks it also deposits the logic-layer power
// model into the logic layer (z = numP-1).
//
// Per spec.md §9's Open Question, the divisor is dimX*dimY*(numP-1) for
// 3D stacks and dimX*dimY*numP for DDR — this asymmetry is preserved
// exactly, not "fixed" (see DESIGN.md).
func (r *Redistributor) Epoch(maps *powermap.Maps, coll *stats.Collector) {
	dramLayers := r.g.NumP
	if r.cfgIs3D() {
		dramLayers = r.g.NumP - 1
	}
	divisor := float64(r.g.DimX * r.g.DimY * dramLayers)
	deviceScale := r.g.DeviceScale()

	for c := 0; c < r.g.NumCase; c++ {
		delta := coll.BackgroundDelta(c)
		perCell := delta / divisor / 1000.0 / deviceScale
		maps.AddUniformCur(c, 0, dramLayers, perCell)
		coll.Checkpoint(c)
	}

	if r.cfgIs3D() {
		reads, writes := coll.EpochCommandCounts()
		r.depositLogicLayer(maps.AddUniformCur, reads, writes, r.cfg.PowerEpochPeriod)
	}
	coll.ResetEpochCommandCounts()
}

// Final applies the final (steady-state) background top-up to maps.Accu
// for every case, using cumulative background energy and the full
// simulated duration clk. Per spec.md §9, the final path always divides
// by numP, even for 3D stacks (the documented asymmetry).
func (r *Redistributor) Final(maps *powermap.Maps, coll *stats.Collector, clk uint64) {
	divisor := float64(r.g.DimX * r.g.DimY * r.g.NumP)
	deviceScale := r.g.DeviceScale()

	for c := 0; c < r.g.NumCase; c++ {
		total := coll.BackgroundTotal(c)
		perCell := total / divisor / 1000.0 / deviceScale
		maps.AddUniformAccu(c, 0, r.g.NumP, perCell)
	}

	if r.cfgIs3D() {
		reads, writes := coll.TotalCommandCounts()
		r.depositLogicLayer(maps.AddUniformAccu, reads, writes, clk)
	}
}

func (r *Redistributor) cfgIs3D() bool {
	return r.cfg.IsHMC() || r.cfg.IsHBM()
}

// depositLogicLayer implements spec.md §4.4's logic-layer power model:
// bandwidth utilization u = (reads+writes)*burst_cycle/(channels*epoch_period)
// — always using cfg.EpochPeriod, regardless of caller — then
// logic power = max_logic_power*u + 3.0 W; the per-cell share of
// depositPeriod*logic_power is spread uniformly across the single logic
// layer (z = numP-1) of case 0 (3D stacks use one shared case).
// depositPeriod is power_epoch_period for the per-epoch call and clk for
// the final call, matching original_source/src/thermal.cc:392-407's
// utilization-vs-deposit split (utilization off epoch_period always;
// the deposit multiplier off power_epoch_period or clk).
func (r *Redistributor) depositLogicLayer(add func(caseID, zFrom, zTo int, amount float64), reads, writes uint64, depositPeriod uint64) {
	if r.cfg.EpochPeriod == 0 || r.cfg.Channels == 0 {
		return
	}
	u := float64(reads+writes) * float64(r.cfg.BurstCycle) / float64(r.cfg.Channels) / float64(r.cfg.EpochPeriod)
	avgLogicPower := r.cfg.MaxLogicPower*u + logicConstantWatts
	perCell := avgLogicPower * float64(depositPeriod) / float64(r.g.DimX*r.g.DimY)

	logicLayer := r.g.NumP - 1
	add(0, logicLayer, logicLayer+1, perCell)
}
