package stats_test

import (
	"testing"

	"github.com/sarchlab/dramthermal/griddeposit"
	"github.com/sarchlab/dramthermal/stats"
)

func TestBackgroundDeltaResetsAfterCheckpoint(t *testing.T) {
	c := stats.NewCollector(2)

	c.RecordBackground(0, stats.ActiveStandby, 100)
	c.RecordBackground(0, stats.SelfRefresh, 50)
	if got := c.BackgroundDelta(0); got != 150 {
		t.Fatalf("BackgroundDelta = %v, want 150", got)
	}

	c.Checkpoint(0)
	if got := c.BackgroundDelta(0); got != 0 {
		t.Fatalf("BackgroundDelta after checkpoint = %v, want 0", got)
	}

	c.RecordBackground(0, stats.PrechargePowerDown, 25)
	if got := c.BackgroundDelta(0); got != 25 {
		t.Fatalf("BackgroundDelta = %v, want 25", got)
	}
	if got := c.BackgroundTotal(0); got != 175 {
		t.Fatalf("BackgroundTotal = %v, want 175", got)
	}
}

func TestRecordCommandTalliesReadsAndWritesSeparately(t *testing.T) {
	c := stats.NewCollector(1)

	c.RecordCommand(griddeposit.Read)
	c.RecordCommand(griddeposit.ReadPrecharge)
	c.RecordCommand(griddeposit.Write)
	c.RecordCommand(griddeposit.Activate) // ignored

	reads, writes := c.EpochCommandCounts()
	if reads != 2 || writes != 1 {
		t.Fatalf("EpochCommandCounts = (%d,%d), want (2,1)", reads, writes)
	}

	totalReads, totalWrites := c.TotalCommandCounts()
	if totalReads != 2 || totalWrites != 1 {
		t.Fatalf("TotalCommandCounts = (%d,%d), want (2,1)", totalReads, totalWrites)
	}

	c.ResetEpochCommandCounts()
	reads, writes = c.EpochCommandCounts()
	if reads != 0 || writes != 0 {
		t.Fatalf("EpochCommandCounts after reset = (%d,%d), want (0,0)", reads, writes)
	}

	totalReads, totalWrites = c.TotalCommandCounts()
	if totalReads != 2 || totalWrites != 1 {
		t.Fatalf("TotalCommandCounts after epoch reset = (%d,%d), want (2,1)", totalReads, totalWrites)
	}
}
