package griddeposit

import (
	"github.com/sarchlab/dramthermal/addrmap"
	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

// DepositCommand applies cmd's event energy to maps, following spec.md
// §4.3: ACTIVATE/READ*/WRITE* deposit a per-beat, per-lane share of their
// fixed event energy across the cells MapToXY names; REFRESH iterates
// every bank's refresh-row stripe and spreads ref_energy_inc along a
// vertical grid line (a deliberate simplification carried over from the
// source, see depositRefreshRow); REFRESH_BANK does the same for a single
// bank; PRECHARGE and SELF_REFRESH_* deposit no event energy (they only
// affect background state, handled by package background).
func DepositCommand(
	g *floorplan.Geometry,
	remap *addrmap.Remapper,
	maps *powermap.Maps,
	rc *RefreshCounters,
	cfg *thermalconfig.Config,
	cmd Command,
) error {
	channel := cmd.Address.Channel
	rank := cmd.Address.Rank
	caseID := g.CaseID(channel, rank)
	deviceScale := g.DeviceScale()
	rankIdx := channel*cfg.Ranks + rank

	switch cmd.Type {
	case Refresh:
		perRow := cfg.RefEnergyInc / float64(cfg.NumRowRefresh) / float64(cfg.Banks) / float64(cfg.NumYgrids) / 1000.0 / deviceScale
		for ib := 0; ib < cfg.Banks; ib++ {
			rowStart := rc.NextStripe(rankIdx, ib)
			for row := rowStart; row < rowStart+cfg.NumRowRefresh; row++ {
				depositRefreshRow(g, remap, maps, cfg, cmd, ib, row, caseID, perRow)
			}
		}
		return nil

	case RefreshBank:
		absBank := cmd.Address.Bankgroup*cfg.BanksPerGroup + cmd.Address.Bank
		perRow := cfg.RefbEnergyInc / float64(cfg.NumRowRefresh) / float64(cfg.NumYgrids) / 1000.0 / deviceScale
		rowStart := rc.NextStripe(rankIdx, absBank)
		for row := rowStart; row < rowStart+cfg.NumRowRefresh; row++ {
			depositRefreshRow(g, remap, maps, cfg, cmd, absBank, row, caseID, perRow)
		}
		return nil

	case Activate, Read, ReadPrecharge, Write, WritePrecharge:
		energy := eventEnergy(cmd.Type, cfg)
		if energy <= 0 {
			return nil
		}
		perCell := energy / float64(cfg.BL) / float64(cfg.DeviceWidth) / 1000.0 / deviceScale
		depositAccess(g, remap, maps, cfg, cmd, caseID, perCell)
		return nil

	case Precharge, SelfRefreshEnter, SelfRefreshExit:
		// No event energy; these only affect background power state,
		// accounted for by package background.
		return nil

	default:
		return thermalconfig.NewInvariantViolation("unknown cmd_type " + cmd.Type.String() + " reached DepositCommand dispatch")
	}
}

// eventEnergy returns the per-event energy (picojoules) for the command
// types that deposit one, per spec.md §4.3's table.
func eventEnergy(t CmdType, cfg *thermalconfig.Config) float64 {
	switch t {
	case Activate:
		return cfg.ActEnergyInc
	case Read, ReadPrecharge:
		return cfg.ReadEnergyInc
	case Write, WritePrecharge:
		return cfg.WriteEnergyInc
	default:
		return 0
	}
}

// depositAccess implements spec.md §4.3 step 1-2 for non-refresh
// commands: MapToXY names the BL*device_width cells touched by the
// burst, and perCellEnergy is deposited into every one of them.
func depositAccess(
	g *floorplan.Geometry,
	remap *addrmap.Remapper,
	maps *powermap.Maps,
	cfg *thermalconfig.Config,
	cmd Command,
	caseID int,
	perCellEnergy float64,
) {
	vx, vy := g.MapToVault(cmd.Address.Channel)
	bx, by := g.MapToBank(cmd.Address.Bankgroup, cmd.Address.Bank)
	z := g.MapToZ(cmd.Address.Channel, cmd.Address.Bankgroup*cfg.BanksPerGroup+cmd.Address.Bank)

	xs, ys := g.MapToXY(cmd.Address, remap, vx, vy, bx, by)
	for i := range xs {
		maps.Deposit(caseID, xs[i], ys[i], z, perCellEnergy)
	}
}

// depositRefreshRow implements the row-wide refresh deposit variant
// (LocationMappingANDaddEnergy_RF in the source): refresh energy is
// spread along a vertical grid line spanning all numYgrids columns of
// the target bank's column-0 column-tile — a deliberate simplification
// spec.md §4.3 calls out explicitly, not a bug to "fix".
func depositRefreshRow(
	g *floorplan.Geometry,
	remap *addrmap.Remapper,
	maps *powermap.Maps,
	cfg *thermalconfig.Config,
	cmd Command,
	absBank int,
	row int,
	caseID int,
	perCellEnergy float64,
) {
	bankgroupID := absBank / cfg.BanksPerGroup
	bankID := absBank % cfg.BanksPerGroup

	refreshAddr := cmd.Address
	refreshAddr.Row = row
	refreshAddr.Bankgroup = bankgroupID
	refreshAddr.Bank = bankID

	vx, vy := g.MapToVault(cmd.Address.Channel)
	bx, by := g.MapToBank(bankgroupID, bankID)
	z := g.MapToZ(cmd.Address.Channel, absBank)

	phy := remap.Remap(refreshAddr)
	rowID := phy.Row
	colTile := rowID / cfg.TileRowNum
	gridX := rowID / cfg.MatX / cfg.RowTile
	gridY := colTile * (cfg.NumYgrids / cfg.RowTile) // col_id starts at 0 for the refresh variant

	bankXOffset := g.BankX * cfg.NumXgrids
	bankYOffset := g.BankY * cfg.NumYgrids
	x := vx*bankXOffset + bx*cfg.NumXgrids + gridX
	yBase := vy*bankYOffset + by*cfg.NumYgrids + gridY

	for i := 0; i < cfg.NumYgrids; i++ {
		maps.Deposit(caseID, x, yBase+i, z, perCellEnergy)
	}
}
