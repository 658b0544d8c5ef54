// Package stats implements the Statistics collaborator spec.md §6 treats
// as external to the thermal core: per-case background-energy counters
// (active standby, precharge standby, self-refresh, precharge power-down)
// and read/write command counts, both cumulative and per-epoch.
//
// thermal.Calculator records every command through RecordCommand, and
// background.Redistributor reads the totals and calls Checkpoint and
// ResetEpochCommandCounts at each epoch boundary. RecordBackground is the
// entry point for whatever supplies background energies; cmd/thermalreplay
// does not call it. Grounded on original_source/src/cpu.cc's per-cycle
// statistics bookkeeping.
package stats

import (
	"sync"

	"github.com/sarchlab/dramthermal/griddeposit"
)

// Kind enumerates the four background-energy categories spec.md §4.4
// sums for its per-epoch and final top-ups.
type Kind int

const (
	ActiveStandby Kind = iota
	PrechargeStandby
	SelfRefresh
	PrechargePowerDown
)

// Collector holds per-case cumulative and checkpointed background-energy
// totals, plus cumulative and per-epoch read/write command counts. It is
// guarded by a single RWMutex, matching cgra.Side's name-table discipline:
// the thermal core both writes it (RecordCommand, Checkpoint,
// ResetEpochCommandCounts) and reads it, all from the goroutine that
// drives UpdatePower, so the lock is uncontended in practice.
type Collector struct {
	mu sync.RWMutex

	numCase int

	actStb, preStb, sref, prePd         []float64
	lastActStb, lastPreStb, lastSref, lastPrePd []float64

	epochReads, epochWrites   uint64
	totalReads, totalWrites   uint64
}

// NewCollector allocates a zeroed Collector for numCase cases.
func NewCollector(numCase int) *Collector {
	return &Collector{
		numCase:     numCase,
		actStb:      make([]float64, numCase),
		preStb:      make([]float64, numCase),
		sref:        make([]float64, numCase),
		prePd:       make([]float64, numCase),
		lastActStb:  make([]float64, numCase),
		lastPreStb:  make([]float64, numCase),
		lastSref:    make([]float64, numCase),
		lastPrePd:   make([]float64, numCase),
	}
}

// RecordCommand tallies a READ/READ_PRECHARGE or WRITE/WRITE_PRECHARGE
// command into both the epoch and cumulative counters; every other
// command type is ignored, since only these two feed the logic-layer
// bandwidth-utilization model.
func (c *Collector) RecordCommand(t griddeposit.CmdType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch t {
	case griddeposit.Read, griddeposit.ReadPrecharge:
		c.epochReads++
		c.totalReads++
	case griddeposit.Write, griddeposit.WritePrecharge:
		c.epochWrites++
		c.totalWrites++
	}
}

// RecordBackground adds amount to case caseID's cumulative total for kind.
func (c *Collector) RecordBackground(caseID int, kind Kind, amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case ActiveStandby:
		c.actStb[caseID] += amount
	case PrechargeStandby:
		c.preStb[caseID] += amount
	case SelfRefresh:
		c.sref[caseID] += amount
	case PrechargePowerDown:
		c.prePd[caseID] += amount
	}
}

// BackgroundDelta returns the sum of act_stb+pre_stb+sref+pre_pd accrued
// for caseID since the last Checkpoint call (or since construction, if
// Checkpoint was never called) — spec.md §4.4's per-epoch policy input.
func (c *Collector) BackgroundDelta(caseID int) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cur := c.actStb[caseID] + c.preStb[caseID] + c.sref[caseID] + c.prePd[caseID]
	last := c.lastActStb[caseID] + c.lastPreStb[caseID] + c.lastSref[caseID] + c.lastPrePd[caseID]
	return cur - last
}

// BackgroundTotal returns caseID's cumulative act_stb+pre_stb+sref+pre_pd
// since construction — spec.md §4.4's final policy input.
func (c *Collector) BackgroundTotal(caseID int) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.actStb[caseID] + c.preStb[caseID] + c.sref[caseID] + c.prePd[caseID]
}

// Checkpoint records caseID's current cumulative totals as the new
// baseline for future BackgroundDelta calls. background.Redistributor.Epoch
// calls this for each case right after that case's per-epoch top-up.
func (c *Collector) Checkpoint(caseID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActStb[caseID] = c.actStb[caseID]
	c.lastPreStb[caseID] = c.preStb[caseID]
	c.lastSref[caseID] = c.sref[caseID]
	c.lastPrePd[caseID] = c.prePd[caseID]
}

// EpochCommandCounts returns the total READ*/WRITE* commands recorded
// across every case since the last ResetEpochCommandCounts call.
func (c *Collector) EpochCommandCounts() (reads, writes uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epochReads, c.epochWrites
}

// ResetEpochCommandCounts zeroes the epoch read/write counters. Called by
// background.Redistributor.Epoch at the end of every per-epoch top-up.
func (c *Collector) ResetEpochCommandCounts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epochReads, c.epochWrites = 0, 0
}

// TotalCommandCounts returns the cumulative READ*/WRITE* counts recorded
// since construction, used by the final (steady-state) logic-layer model.
func (c *Collector) TotalCommandCounts() (reads, writes uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalReads, c.totalWrites
}

// NumCase returns the case count the Collector was built with.
func (c *Collector) NumCase() int {
	return c.numCase
}
