// Package floorplan derives the 3D power-grid dimensions from a Config
// and maps (channel, bankgroup, bank) coordinates onto grid positions,
// grounded on original_source/src/thermal.cc's ThermalCalculator
// constructor and Map{Vault,Bank,Z,XY} methods, re-expressed as a value
// type (Geometry) built once by New instead of fields scattered across a
// monolithic calculator object — the teacher's own builder-then-immutable-
// value idiom (core/builder.go's Builder.Build).
package floorplan

import (
	"math"

	"github.com/sarchlab/dramthermal/addrmap"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

// Geometry holds the derived floorplan dimensions and the per-topology
// mapping logic. It is immutable after New.
type Geometry struct {
	cfg *thermalconfig.Config

	DimX, DimY, NumP int
	BankX, BankY     int
	VaultX, VaultY   int
	NumCase          int
}

// New derives dimX, dimY, numP, bank_x, bank_y, vault_x, vault_y and
// num_case from cfg, following spec.md §4.2's three topology branches
// exactly.
func New(cfg *thermalconfig.Config) (*Geometry, error) {
	g := &Geometry{cfg: cfg}

	switch {
	case cfg.IsHMC():
		g.NumP = cfg.NumDies + 1
		g.BankX, g.BankY = 1, 2

		xd := float64(g.BankX) * cfg.BankASR
		yd := float64(g.BankY) * 1.0
		g.VaultX = DetermineXY(xd, yd, cfg.Channels)
		g.VaultY = cfg.Channels / g.VaultX

		g.DimX = g.VaultX * g.BankX * cfg.NumXgrids
		g.DimY = g.VaultY * g.BankY * cfg.NumYgrids
		g.NumCase = 1

	case cfg.IsHBM():
		g.NumP = cfg.NumDies + 1
		g.BankX, g.BankY = 8, 2
		g.VaultX, g.VaultY = 1, 2

		g.DimX = g.VaultX * g.BankX * cfg.NumXgrids
		g.DimY = g.VaultY * g.BankY * cfg.NumYgrids
		g.NumCase = 1

	default: // DDR
		g.NumP = 1
		g.BankX = DetermineXY(cfg.BankASR, 1.0, cfg.Banks)
		if g.BankX == 0 {
			return nil, thermalconfig.NewConfigError("banks", "must be positive")
		}
		g.BankY = cfg.Banks / g.BankX

		g.DimX = g.BankX * cfg.NumXgrids
		g.DimY = g.BankY * cfg.NumYgrids
		g.NumCase = cfg.Ranks * cfg.Channels
	}

	return g, nil
}

// DeviceScale is the per-device energy divisor: devices_per_rank for DDR,
// 1 for HMC/HBM (a single device-scale case covering the whole stack).
func (g *Geometry) DeviceScale() float64 {
	if g.cfg.Is3DStacked() {
		return 1
	}
	return float64(g.cfg.DevicesPerRank)
}

// CaseID returns the case index for a (channel, rank) pair: 0 for
// HMC/HBM (a single shared case), channel*ranks+rank for DDR.
func (g *Geometry) CaseID(channel, rank int) int {
	if g.cfg.Is3DStacked() {
		return 0
	}
	return channel*g.cfg.Ranks + rank
}

// DetermineXY picks the factor pair (x, total/x) of total_grids that
// minimizes the aspect-ratio deviation of (x*xd) : (y*yd) from 1,
// grounded verbatim on original_source/src/thermal.cc's determineXY.
//
// B1: when total is prime, the only factor pairs are (1, total) and
// (total, 1); for xd==yd==1 both have the same aspect-ratio deviation,
// and ties keep the first one the loop reaches (y=1, so x=total).
func DetermineXY(xd, yd float64, total int) int {
	xRe := 1
	asrRe := math.Inf(1)

	for y := 1; y <= total; y++ {
		x := total / y
		if x*y != total {
			continue
		}
		var asr float64
		if float64(x)*xd >= float64(y)*yd {
			asr = float64(x) * xd / float64(y) / yd
		} else {
			asr = float64(y) * yd / float64(x) / xd
		}
		if asr < asrRe {
			xRe = total / y
			asrRe = asr
		}
	}

	return xRe
}

// Address is re-exported for callers that only need the floorplan
// package and don't otherwise touch addrmap.
type Address = addrmap.Address
