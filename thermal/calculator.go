// Package thermal wires addrmap, floorplan, griddeposit, powermap,
// background, epoch, solver and csvout together into the two entry
// points external callers drive: UpdatePower and PrintFinalPT, grounded
// on original_source/src/thermal.cc's ThermalCalculator class, whose
// constructor-owns-everything / two-public-methods shape this package
// reproduces as a value built once by New instead of a monolithic class.
package thermal

import (
	"github.com/sarchlab/dramthermal/addrmap"
	"github.com/sarchlab/dramthermal/background"
	"github.com/sarchlab/dramthermal/csvout"
	"github.com/sarchlab/dramthermal/epoch"
	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/griddeposit"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/solver"
	"github.com/sarchlab/dramthermal/stats"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

// Calculator is the thermal-power accounting and temperature-solving
// core. It is synchronous: UpdatePower may block on an inline transient
// solve at epoch boundaries, per spec.md §5.
type Calculator struct {
	cfg    *thermalconfig.Config
	geo    *floorplan.Geometry
	remap  *addrmap.Remapper
	maps   *powermap.Maps
	refr   *griddeposit.RefreshCounters
	bg     *background.Redistributor
	sched  *epoch.Scheduler
	bridge *solver.Bridge
	out    *csvout.Writer
	coll   *stats.Collector
}

// New allocates every collaborator and writes bank_position_csv once, per
// spec.md §3's lifecycle note ("CSV output sinks are opened on
// construction... bank positions written once at startup").
func New(cfg *thermalconfig.Config, s solver.Solver, coll *stats.Collector) (*Calculator, error) {
	geo, err := floorplan.New(cfg)
	if err != nil {
		return nil, err
	}

	remap, err := addrmap.Compile(cfg.LocMapping, cfg.BL)
	if err != nil {
		return nil, err
	}

	bridge, err := solver.NewBridge(cfg, geo, s)
	if err != nil {
		return nil, err
	}

	out, err := csvout.New(cfg)
	if err != nil {
		return nil, err
	}

	c := &Calculator{
		cfg:    cfg,
		geo:    geo,
		remap:  remap,
		maps:   powermap.New(geo.NumCase, geo.DimX, geo.DimY, geo.NumP),
		refr:   griddeposit.NewRefreshCounters(cfg.Channels, cfg.Ranks, cfg.Banks, cfg.NumRowRefresh, cfg.Rows),
		bg:     background.New(cfg, geo),
		sched:  epoch.New(cfg),
		bridge: bridge,
		out:    out,
		coll:   coll,
	}

	if err := c.out.WriteBankPositions(c.bankPositions()); err != nil {
		return nil, err
	}

	return c, nil
}

// UpdatePower deposits cmd's energy into the power maps and, if clk has
// crossed the next epoch boundary, runs the background top-up and
// transient solve for every case, emits per-epoch max-temperature rows,
// zeroes the current map, and advances the scheduler — spec.md §4.5.
func (c *Calculator) UpdatePower(cmd griddeposit.Command, clk uint64) error {
	if err := c.sched.BeginAccumulating(); err != nil {
		return err
	}

	c.coll.RecordCommand(cmd.Type)

	if err := griddeposit.DepositCommand(c.geo, c.remap, c.maps, c.refr, c.cfg, cmd); err != nil {
		return err
	}

	if !c.sched.CrossesBoundary(clk) {
		return nil
	}

	c.bg.Epoch(c.maps, c.coll)

	rows := make([]csvout.EpochMaxTempRow, 0, c.geo.NumP)
	for caseID := 0; caseID < c.geo.NumCase; caseID++ {
		temps, err := c.bridge.Transient(c.maps, caseID)
		if err != nil {
			return err
		}
		rows = rows[:0]
		epochTimeMs := float64(clk) * c.cfg.TCK * 1e-6
		for l := 0; l < c.geo.NumP; l++ {
			maxTempC := c.layerMaxTemp(l, temps)
			rows = append(rows, csvout.EpochMaxTempRow{
				Layer: l, MaxTempC: maxTempC,
				EpochTime: epochTimeMs,
			})
		}
		if err := c.out.WriteEpochMaxTemps(rows); err != nil {
			return err
		}
		if c.cfg.OutputLevel >= 2 {
			if err := c.out.WriteEpochTemperatures(int(c.sched.SampleID()), c.temperatureRows(caseID, temps, c.cfg.PowerEpochPeriod)); err != nil {
				return err
			}
		}
	}

	c.maps.ZeroCur()
	return c.sched.AdvanceEpoch()
}

// PrintFinalPT applies the final background top-up, runs the
// steady-state solve for every case, writes final_temperature_file_csv,
// and closes every output sink — spec.md §4.5's termination path.
func (c *Calculator) PrintFinalPT(finalClk uint64) error {
	if err := c.sched.Finalize(); err != nil {
		return err
	}

	c.bg.Final(c.maps, c.coll, finalClk)

	var final []csvout.TemperatureRow
	for caseID := 0; caseID < c.geo.NumCase; caseID++ {
		temps, err := c.bridge.Steady(c.maps, caseID, float64(finalClk))
		if err != nil {
			return err
		}
		final = append(final, c.temperatureRows(caseID, temps, finalClk)...)
	}
	if err := c.out.WriteFinalTemperatures(final); err != nil {
		return err
	}

	return c.out.Close()
}

// layerMaxTemp returns layer l's maximum Celsius temperature, per
// spec.md §4.7's indexing/Celsius-conversion note. epoch_max_temp_file_csv
// has no real power column (original_source/src/thermal.cc:529-530 writes
// a literal "-" there), so this reports only the temperature.
func (c *Calculator) layerMaxTemp(l int, temps []float64) (maxTempC float64) {
	maxTempC = -1e18
	half := c.cfg.NumDummy / 2
	for y := 0; y < c.geo.DimY; y++ {
		for x := 0; x < c.geo.DimX; x++ {
			idx := c.bridge.MidplaneIndex(l, x+half, y+half)
			tC := temps[idx] - thermalconfig.KelvinOffset
			if tC > maxTempC {
				maxTempC = tC
			}
		}
	}
	return maxTempC
}

// temperatureRows expands the haloed temperature vector temps into the
// non-halo (x,y,z) rows final_temperature_file_csv and
// epoch_temperature_file_csv share, with per-cell average power computed
// by dividing the relevant map by period.
func (c *Calculator) temperatureRows(caseID int, temps []float64, period uint64) []csvout.TemperatureRow {
	rows := make([]csvout.TemperatureRow, 0, c.geo.DimX*c.geo.DimY*c.geo.NumP)
	cellsPerLayer := c.geo.DimX * c.geo.DimY
	half := c.cfg.NumDummy / 2

	powerSource := c.maps.Cur[caseID]
	if c.sched.State() == epoch.Finalized {
		powerSource = c.maps.Accu[caseID]
	}

	for z := 0; z < c.geo.NumP; z++ {
		base := z * cellsPerLayer
		for y := 0; y < c.geo.DimY; y++ {
			for x := 0; x < c.geo.DimX; x++ {
				idx := c.bridge.MidplaneIndex(z, x+half, y+half)
				power := powerSource[base+y*c.geo.DimX+x]
				if period != 0 {
					power /= float64(period)
				}
				rows = append(rows, csvout.TemperatureRow{
					CaseID: caseID, X: x, Y: y, Z: z,
					Power:       power,
					Temperature: temps[idx],
				})
			}
		}
	}
	return rows
}

// bankPositions enumerates every (vault,bankgroup,bank)'s inclusive grid
// range, per spec.md §4.7 item 1 and original_source/src/thermal.cc's
// PrintCSV_bank: every channel gets its own row-set (DDR included — each
// channel/vault writes its own bank_position rows, even though DDR's
// grid layout is identical per channel), and vault_id is the bare
// channel/vault loop index, not a recomputed vx*VaultY+vy — the two
// disagree for HMC with bank_order == 0, where MapToVault swaps vx/vy.
func (c *Calculator) bankPositions() []csvout.BankPositionRow {
	bankXOffset := c.geo.BankX * c.cfg.NumXgrids
	bankYOffset := c.geo.BankY * c.cfg.NumYgrids

	var rows []csvout.BankPositionRow
	for channel := 0; channel < c.cfg.Channels; channel++ {
		vx, vy := c.geo.MapToVault(channel)
		vaultID := channel

		for bg := 0; bg < c.cfg.Bankgroups; bg++ {
			for bank := 0; bank < c.cfg.BanksPerGroup; bank++ {
				absBank := bg*c.cfg.BanksPerGroup + bank
				bx, by := c.geo.MapToBank(bg, bank)
				z := c.geo.MapToZ(channel, absBank)

				startX := vx*bankXOffset + bx*c.cfg.NumXgrids
				startY := vy*bankYOffset + by*c.cfg.NumYgrids

				rows = append(rows, csvout.BankPositionRow{
					VaultID: vaultID,
					BankID:  absBank,
					StartX:  startX, EndX: startX + c.cfg.NumXgrids - 1,
					StartY: startY, EndY: startY + c.cfg.NumYgrids - 1,
					Z: z,
				})
			}
		}
	}
	return rows
}
