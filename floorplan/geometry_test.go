package floorplan_test

import (
	"testing"

	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

func TestNewDerivesDDRGeometry(t *testing.T) {
	cfg := thermalconfig.Default()
	cfg.Banks = 4
	cfg.Channels = 2
	cfg.Ranks = 1

	g, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.NumP != 1 {
		t.Fatalf("NumP = %d, want 1 for DDR", g.NumP)
	}
	if g.NumCase != cfg.Ranks*cfg.Channels {
		t.Fatalf("NumCase = %d, want %d", g.NumCase, cfg.Ranks*cfg.Channels)
	}
	if g.DimX != g.BankX*cfg.NumXgrids || g.DimY != g.BankY*cfg.NumYgrids {
		t.Fatalf("DimX/DimY = %d/%d, want %d/%d", g.DimX, g.DimY, g.BankX*cfg.NumXgrids, g.BankY*cfg.NumYgrids)
	}
}

func TestNewDerivesHMCGeometryWithLogicLayer(t *testing.T) {
	cfg := thermalconfig.Default()
	cfg.MemoryType = thermalconfig.HMC
	cfg.NumDies = 4
	cfg.Channels = 8

	g, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.NumP != cfg.NumDies+1 {
		t.Fatalf("NumP = %d, want %d (dies + logic layer)", g.NumP, cfg.NumDies+1)
	}
	if g.NumCase != 1 {
		t.Fatalf("NumCase = %d, want 1 for HMC (single shared case)", g.NumCase)
	}
}

func TestDeviceScaleAndCaseID(t *testing.T) {
	cfg := thermalconfig.Default()
	cfg.DevicesPerRank = 8
	cfg.Channels = 2
	cfg.Ranks = 2

	g, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.DeviceScale() != 8 {
		t.Fatalf("DeviceScale = %v, want 8", g.DeviceScale())
	}
	if got := g.CaseID(1, 0); got != 2 {
		t.Fatalf("CaseID(1,0) = %d, want 2", got)
	}

	cfg.MemoryType = thermalconfig.HMC
	cfg.NumDies = 4
	g3D, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("New (HMC): %v", err)
	}
	if g3D.DeviceScale() != 1 {
		t.Fatalf("DeviceScale (HMC) = %v, want 1", g3D.DeviceScale())
	}
	if got := g3D.CaseID(1, 0); got != 0 {
		t.Fatalf("CaseID (HMC) = %d, want 0 (single shared case)", got)
	}
}

func TestDetermineXYPicksClosestAspectRatioFactorPair(t *testing.T) {
	// A square aspect ratio over a perfect square total picks the
	// balanced factor pair.
	if got := floorplan.DetermineXY(1.0, 1.0, 16); got != 4 {
		t.Fatalf("DetermineXY(1,1,16) = %d, want 4", got)
	}
	// A prime total has only the trivial factor pairs (1,total) and
	// (total,1); for a unit aspect ratio both have the same deviation,
	// and the loop keeps the first (smallest) one it finds, y=1 => x=total.
	if got := floorplan.DetermineXY(1.0, 1.0, 7); got != 7 {
		t.Fatalf("DetermineXY(1,1,7) = %d, want 7", got)
	}
}
