package background_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dramthermal/background"
	"github.com/sarchlab/dramthermal/floorplan"
	"github.com/sarchlab/dramthermal/griddeposit"
	"github.com/sarchlab/dramthermal/powermap"
	"github.com/sarchlab/dramthermal/stats"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

var _ = Describe("Redistributor", func() {
	var (
		cfg *thermalconfig.Config
		g   *floorplan.Geometry
		r   *background.Redistributor
		pm  *powermap.Maps
		coll *stats.Collector
	)

	BeforeEach(func() {
		cfg = thermalconfig.Default()
		var err error
		g, err = floorplan.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		r = background.New(cfg, g)
		pm = powermap.New(g.NumCase, g.DimX, g.DimY, g.NumP)
		coll = stats.NewCollector(g.NumCase)
	})

	It("spreads the epoch background delta uniformly across every DRAM cell (DDR divides by numP)", func() {
		coll.RecordBackground(0, stats.ActiveStandby, 1000.0)
		r.Epoch(pm, coll)

		expectedDivisor := float64(g.DimX * g.DimY * g.NumP)
		expectedPerCell := 1000.0 / expectedDivisor / 1000.0 / g.DeviceScale()
		Expect(pm.Cur[0][0]).To(BeNumerically("~", expectedPerCell, 1e-12))
	})

	It("checkpoints the collector so a second epoch with no new background energy deposits nothing", func() {
		coll.RecordBackground(0, stats.SelfRefresh, 500.0)
		r.Epoch(pm, coll)
		pm.ZeroCur()

		r.Epoch(pm, coll)
		Expect(pm.Cur[0][0]).To(BeZero())
	})

	It("tops up the cumulative map at finalization using the full background total", func() {
		coll.RecordBackground(0, stats.PrechargePowerDown, 2000.0)
		r.Final(pm, coll, 10000)

		expectedDivisor := float64(g.DimX * g.DimY * g.NumP)
		expectedPerCell := 2000.0 / expectedDivisor / 1000.0 / g.DeviceScale()
		Expect(pm.Accu[0][0]).To(BeNumerically("~", expectedPerCell, 1e-12))
	})
})

var _ = Describe("Redistributor logic-layer power model", func() {
	// epoch_period and power_epoch_period differ here on purpose: the
	// default config sets both to 1000, which would mask a mixup between
	// the two (utilization must always divide by epoch_period; the
	// deposit must always multiply by power_epoch_period in Epoch, or by
	// clk in Final).
	var (
		cfg  *thermalconfig.Config
		g    *floorplan.Geometry
		r    *background.Redistributor
		pm   *powermap.Maps
		coll *stats.Collector
	)

	BeforeEach(func() {
		cfg = thermalconfig.Default()
		cfg.MemoryType = thermalconfig.HMC
		cfg.NumDies = 4
		cfg.Channels = 1
		cfg.EpochPeriod = 500
		cfg.PowerEpochPeriod = 2000

		var err error
		g, err = floorplan.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		r = background.New(cfg, g)
		pm = powermap.New(g.NumCase, g.DimX, g.DimY, g.NumP)
		coll = stats.NewCollector(g.NumCase)
	})

	It("computes epoch utilization off epoch_period and the deposit off power_epoch_period", func() {
		coll.RecordCommand(griddeposit.Read)
		coll.RecordCommand(griddeposit.Write)

		r.Epoch(pm, coll)

		u := float64(2) * float64(cfg.BurstCycle) / float64(cfg.Channels) / float64(cfg.EpochPeriod)
		avgLogicPower := cfg.MaxLogicPower*u + 3.0
		wantPerCell := avgLogicPower * float64(cfg.PowerEpochPeriod) / float64(g.DimX*g.DimY)

		logicLayer := g.NumP - 1
		idx := logicLayer * g.DimX * g.DimY
		Expect(pm.Cur[0][idx]).To(BeNumerically("~", wantPerCell, 1e-9))
	})

	It("computes final utilization off epoch_period and the deposit off clk", func() {
		coll.RecordCommand(griddeposit.Read)
		coll.RecordCommand(griddeposit.Write)

		const clk = uint64(9000)
		r.Final(pm, coll, clk)

		u := float64(2) * float64(cfg.BurstCycle) / float64(cfg.Channels) / float64(cfg.EpochPeriod)
		avgLogicPower := cfg.MaxLogicPower*u + 3.0
		wantPerCell := avgLogicPower * float64(clk) / float64(g.DimX*g.DimY)

		logicLayer := g.NumP - 1
		idx := logicLayer * g.DimX * g.DimY
		Expect(pm.Accu[0][idx]).To(BeNumerically("~", wantPerCell, 1e-9))
	})
})
