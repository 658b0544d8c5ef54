package csvout_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sarchlab/dramthermal/csvout"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

func TestWriterEmitsHeadersAndRows(t *testing.T) {
	dir := t.TempDir()
	cfg := thermalconfig.Default()
	cfg.BankPositionCSV = filepath.Join(dir, "bank_position.csv")
	cfg.EpochMaxTempFileCSV = filepath.Join(dir, "epoch_max_temp.csv")
	cfg.FinalTemperatureCSV = filepath.Join(dir, "final_temperature.csv")
	cfg.EpochTemperatureCSV = filepath.Join(dir, "epoch_temperature.csv")
	cfg.OutputLevel = 2

	w, err := csvout.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := w.WriteBankPositions([]csvout.BankPositionRow{{VaultID: 0, BankID: 1, StartX: 0, EndX: 3, StartY: 0, EndY: 3, Z: 0}}); err != nil {
		t.Fatalf("WriteBankPositions: %v", err)
	}
	if err := w.WriteEpochMaxTemps([]csvout.EpochMaxTempRow{{Layer: 0, MaxTempC: 42.0, EpochTime: 1000}}); err != nil {
		t.Fatalf("WriteEpochMaxTemps: %v", err)
	}
	if err := w.WriteFinalTemperatures([]csvout.TemperatureRow{{CaseID: 0, X: 1, Y: 2, Z: 0, Power: 0.1, Temperature: 313.15}}); err != nil {
		t.Fatalf("WriteFinalTemperatures: %v", err)
	}
	if err := w.WriteEpochTemperatures(3, []csvout.TemperatureRow{{CaseID: 0, X: 1, Y: 2, Z: 0, Power: 0.1, Temperature: 313.15}}); err != nil {
		t.Fatalf("WriteEpochTemperatures: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(cfg.EpochTemperatureCSV)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[1], ",3") {
		t.Fatalf("expected epoch index 3 as last column, got %q", lines[1])
	}

	epochMaxTempData, err := os.ReadFile(cfg.EpochMaxTempFileCSV)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	epochMaxTempLines := strings.Split(strings.TrimSpace(string(epochMaxTempData)), "\n")
	if epochMaxTempLines[1] != "0,-,42,1000" {
		t.Fatalf("expected a literal '-' power column, got %q", epochMaxTempLines[1])
	}
}

func TestWriterSkipsEpochTemperatureWhenOutputLevelLow(t *testing.T) {
	dir := t.TempDir()
	cfg := thermalconfig.Default()
	cfg.BankPositionCSV = filepath.Join(dir, "bank_position.csv")
	cfg.EpochMaxTempFileCSV = filepath.Join(dir, "epoch_max_temp.csv")
	cfg.FinalTemperatureCSV = filepath.Join(dir, "final_temperature.csv")
	cfg.OutputLevel = 1

	w, err := csvout.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.WriteEpochTemperatures(0, []csvout.TemperatureRow{{CaseID: 0}}); err != nil {
		t.Fatalf("WriteEpochTemperatures should be a no-op, got error: %v", err)
	}
	if _, err := os.Stat(cfg.EpochTemperatureCSV); err == nil {
		t.Fatal("epoch_temperature_file_csv should not have been created")
	}
}
