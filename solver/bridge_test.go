package solver_test

import (
	"testing"

	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/solver"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

func TestBridgeTransientUsesIdentitySolver(t *testing.T) {
	cfg := thermalconfig.Default()
	g, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("floorplan.New: %v", err)
	}

	b, err := solver.NewBridge(cfg, g, solver.IdentitySolver{})
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}

	maps := powermap.New(g.NumCase, g.DimX, g.DimY, g.NumP)
	maps.Deposit(0, 0, 0, 0, float64(cfg.PowerEpochPeriod))

	temps, err := b.Transient(maps, 0)
	if err != nil {
		t.Fatalf("Transient: %v", err)
	}
	if len(temps) == 0 {
		t.Fatal("expected a non-empty temperature vector")
	}

	half := cfg.NumDummy / 2
	idx := b.MidplaneIndex(0, half, half)
	want := cfg.Tamb0 + thermalconfig.KelvinOffset + 1.0
	if got := temps[idx]; got != want {
		t.Fatalf("temps[midplane origin] = %v, want %v", got, want)
	}
}

func TestBridgeSteadyDoesNotMutateTransientBuffer(t *testing.T) {
	cfg := thermalconfig.Default()
	g, err := floorplan.New(cfg)
	if err != nil {
		t.Fatalf("floorplan.New: %v", err)
	}

	b, err := solver.NewBridge(cfg, g, solver.IdentitySolver{})
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}

	maps := powermap.New(g.NumCase, g.DimX, g.DimY, g.NumP)
	maps.Deposit(0, 0, 0, 0, 500.0)

	before, err := b.Transient(maps, 0)
	if err != nil {
		t.Fatalf("Transient: %v", err)
	}

	if _, err := b.Steady(maps, 0, 10000); err != nil {
		t.Fatalf("Steady: %v", err)
	}

	after, err := b.Transient(maps, 0)
	if err != nil {
		t.Fatalf("second Transient: %v", err)
	}
	if len(before) != len(after) {
		t.Fatalf("temperature vector length changed: %d vs %d", len(before), len(after))
	}

	// Each Transient adds 500/PowerEpochPeriod = 0.5 to the stored buffer;
	// had Steady overwritten it, the second Transient would start from
	// Steady's tamb+0.05 instead of the first Transient's result.
	half := cfg.NumDummy / 2
	idx := b.MidplaneIndex(0, half, half)
	if got, want := after[idx], before[idx]+0.5; got != want {
		t.Fatalf("second Transient temps[midplane origin] = %v, want %v", got, want)
	}
}
