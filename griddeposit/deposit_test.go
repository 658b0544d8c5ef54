package griddeposit_test

import (
	"math"
	"testing"

	"github.com/sarchlab/dramthermal/addrmap"
	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/griddeposit"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

func newHarness(t *testing.T) (*floorplan.Geometry, *addrmap.Remapper, *powermap.Maps, *griddeposit.RefreshCounters, *thermalconfig.Config) {
	t.Helper()
	cfg := thermalconfig.Default()

	geo, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("floorplan.New: %v", err)
	}
	remap, err := addrmap.Compile(cfg.LocMapping, cfg.BL)
	if err != nil {
		t.Fatalf("addrmap.Compile: %v", err)
	}
	maps := powermap.New(geo.NumCase, geo.DimX, geo.DimY, geo.NumP)
	rc := griddeposit.NewRefreshCounters(cfg.Channels, cfg.Ranks, cfg.Banks, cfg.NumRowRefresh, cfg.Rows)

	return geo, remap, maps, rc, cfg
}

// TestSingleReadDepositsItsWholeEventEnergy exercises S1: a single READ's
// total deposited energy, summed across every grid cell it touches, equals
// read_energy_inc scaled by the picojoule and per-device divisors only —
// splitting it across BL*device_width cells (and letting cell collisions
// add rather than lose energy) must not change the total.
func TestSingleReadDepositsItsWholeEventEnergy(t *testing.T) {
	geo, remap, maps, rc, cfg := newHarness(t)

	cmd := griddeposit.Command{
		Type:    griddeposit.Read,
		Address: addrmap.Address{Channel: 0, Rank: 0, Bankgroup: 0, Bank: 0, Row: 5, Column: 0},
	}
	if err := griddeposit.DepositCommand(geo, remap, maps, rc, cfg, cmd); err != nil {
		t.Fatalf("DepositCommand: %v", err)
	}

	caseID := geo.CaseID(0, 0)
	want := cfg.ReadEnergyInc / 1000.0 / geo.DeviceScale()
	if got := maps.SumAccu(caseID); math.Abs(got-want) > 1e-9 {
		t.Fatalf("SumAccu = %v, want %v", got, want)
	}
}

// TestSingleRefreshDistributesAcrossAllBanks exercises S3: a single REFRESH
// command touches every bank (not just the bank named in its address), and
// the total energy deposited across all of them equals ref_energy_inc
// scaled the same way a single access command's energy is.
func TestSingleRefreshDistributesAcrossAllBanks(t *testing.T) {
	geo, remap, maps, rc, cfg := newHarness(t)

	cmd := griddeposit.Command{
		Type:    griddeposit.Refresh,
		Address: addrmap.Address{Channel: 0, Rank: 0, Bankgroup: 0, Bank: 0, Row: 0, Column: 0},
	}
	if err := griddeposit.DepositCommand(geo, remap, maps, rc, cfg, cmd); err != nil {
		t.Fatalf("DepositCommand: %v", err)
	}

	caseID := geo.CaseID(0, 0)
	want := cfg.RefEnergyInc / 1000.0 / geo.DeviceScale()
	if got := maps.SumAccu(caseID); math.Abs(got-want) > 1e-9 {
		t.Fatalf("SumAccu = %v, want %v", got, want)
	}

	for bank := 0; bank < cfg.Banks; bank++ {
		if got := rc.Count(0, bank); got != 1 {
			t.Fatalf("bank %d refresh counter = %d, want 1", bank, got)
		}
	}
}

// TestRefreshBankTouchesOnlyItsOwnBank exercises REFRESH_BANK's narrower
// scope: only the named bank's counter advances.
func TestRefreshBankTouchesOnlyItsOwnBank(t *testing.T) {
	geo, remap, maps, rc, cfg := newHarness(t)

	cmd := griddeposit.Command{
		Type:    griddeposit.RefreshBank,
		Address: addrmap.Address{Channel: 0, Rank: 0, Bankgroup: 0, Bank: 2, Row: 0, Column: 0},
	}
	if err := griddeposit.DepositCommand(geo, remap, maps, rc, cfg, cmd); err != nil {
		t.Fatalf("DepositCommand: %v", err)
	}

	if got := rc.Count(0, 2); got != 1 {
		t.Fatalf("bank 2 refresh counter = %d, want 1", got)
	}
	for bank := 0; bank < cfg.Banks; bank++ {
		if bank == 2 {
			continue
		}
		if got := rc.Count(0, bank); got != 0 {
			t.Fatalf("bank %d refresh counter = %d, want 0", bank, got)
		}
	}

	caseID := geo.CaseID(0, 0)
	want := cfg.RefbEnergyInc / 1000.0 / geo.DeviceScale()
	if got := maps.SumAccu(caseID); math.Abs(got-want) > 1e-9 {
		t.Fatalf("SumAccu = %v, want %v", got, want)
	}
}

// TestUnknownCmdTypeIsAnInvariantViolation exercises the exhaustive-switch
// dispatch's default case.
func TestUnknownCmdTypeIsAnInvariantViolation(t *testing.T) {
	geo, remap, maps, rc, cfg := newHarness(t)

	cmd := griddeposit.Command{Type: griddeposit.CmdType(99)}
	err := griddeposit.DepositCommand(geo, remap, maps, rc, cfg, cmd)
	if err == nil {
		t.Fatal("expected an InvariantViolation for an out-of-range CmdType")
	}
	if _, ok := err.(*thermalconfig.InvariantViolation); !ok {
		t.Fatalf("error type = %T, want *thermalconfig.InvariantViolation", err)
	}
}
