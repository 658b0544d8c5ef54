// Package csvout emits the four CSV files OutputWriter produces, via
// encoding/csv opened in the constructor and closed by Close — grounded
// on ja7ad-consumption/cmd/consumption/main.go's csv.NewWriter-over-a-file
// pattern, and on the teacher's acquire-in-constructor /
// release-on-terminal-call discipline for resource-owning builders.
package csvout

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/sarchlab/dramthermal/thermalconfig"
)

// Writer owns the four output sinks spec.md §4.7 names. bankPosition is
// written once (by WriteBankPositions) and then left open only so Close
// has one file list to iterate; epochMaxTemp and finalTemperature are
// written incrementally; epochTemperature is nil unless output_level >= 2.
type Writer struct {
	bankPositionFile     *os.File
	epochMaxTempFile     *os.File
	finalTemperatureFile *os.File
	epochTemperatureFile *os.File

	bankPosition     *csv.Writer
	epochMaxTemp     *csv.Writer
	finalTemperature *csv.Writer
	epochTemperature *csv.Writer
}

// New opens every configured CSV sink and writes each one's header row.
// epoch_temperature_file_csv is only opened when cfg.OutputLevel >= 2.
func New(cfg *thermalconfig.Config) (*Writer, error) {
	w := &Writer{}

	var err error
	w.bankPositionFile, w.bankPosition, err = openCSV(cfg.BankPositionCSV,
		[]string{"vault_id", "bank_id", "start_x", "end_x", "start_y", "end_y", "z"})
	if err != nil {
		return nil, err
	}

	w.epochMaxTempFile, w.epochMaxTemp, err = openCSV(cfg.EpochMaxTempFileCSV,
		[]string{"layer", "power", "max_temp", "epoch_time"})
	if err != nil {
		w.Close()
		return nil, err
	}

	w.finalTemperatureFile, w.finalTemperature, err = openCSV(cfg.FinalTemperatureCSV,
		[]string{"rank_channel_index", "x", "y", "z", "power", "temperature"})
	if err != nil {
		w.Close()
		return nil, err
	}

	if cfg.OutputLevel >= 2 {
		w.epochTemperatureFile, w.epochTemperature, err = openCSV(cfg.EpochTemperatureCSV,
			[]string{"rank_channel_index", "x", "y", "z", "power", "temperature", "epoch"})
		if err != nil {
			w.Close()
			return nil, err
		}
	}

	return w, nil
}

func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, thermalconfig.NewIOError("create", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, nil, thermalconfig.NewIOError("write header", path, err)
	}
	cw.Flush()
	return f, cw, nil
}

// BankPositionRow is one row of bank_position_csv: the inclusive grid
// range a single (vault,bankgroup,bank) occupies.
type BankPositionRow struct {
	VaultID                int
	BankID                 int
	StartX, EndX           int
	StartY, EndY           int
	Z                      int
}

// WriteBankPositions writes every row of bank_position_csv and flushes.
// Called once at startup, per spec.md §4.7 item 1.
func (w *Writer) WriteBankPositions(rows []BankPositionRow) error {
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.VaultID), strconv.Itoa(r.BankID),
			strconv.Itoa(r.StartX), strconv.Itoa(r.EndX),
			strconv.Itoa(r.StartY), strconv.Itoa(r.EndY),
			strconv.Itoa(r.Z),
		}
		if err := w.bankPosition.Write(rec); err != nil {
			return thermalconfig.NewIOError("write", "bank_position_csv", err)
		}
	}
	w.bankPosition.Flush()
	return w.bankPosition.Error()
}

// EpochMaxTempRow is one row of epoch_max_temp_file_csv. The power
// column is always written as "-" (original_source/src/thermal.cc:
// 529-530 never computes a real per-epoch average power there), so
// this row carries no power value.
type EpochMaxTempRow struct {
	Layer     int
	MaxTempC  float64
	EpochTime float64
}

// WriteEpochMaxTemps appends the per-layer max-temperature rows for one
// epoch and flushes.
func (w *Writer) WriteEpochMaxTemps(rows []EpochMaxTempRow) error {
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Layer),
			"-",
			strconv.FormatFloat(r.MaxTempC, 'f', -1, 64),
			strconv.FormatFloat(r.EpochTime, 'f', -1, 64),
		}
		if err := w.epochMaxTemp.Write(rec); err != nil {
			return thermalconfig.NewIOError("write", "epoch_max_temp_file_csv", err)
		}
	}
	w.epochMaxTemp.Flush()
	return w.epochMaxTemp.Error()
}

// TemperatureRow is one row shared by final_temperature_file_csv and
// epoch_temperature_file_csv.
type TemperatureRow struct {
	CaseID      int
	X, Y, Z     int
	Power       float64
	Temperature float64
}

// WriteFinalTemperatures writes every non-halo cell's final row and
// flushes, per spec.md §4.7 item 3.
func (w *Writer) WriteFinalTemperatures(rows []TemperatureRow) error {
	for _, r := range rows {
		if err := w.finalTemperature.Write(temperatureRecord(r)); err != nil {
			return thermalconfig.NewIOError("write", "final_temperature_file_csv", err)
		}
	}
	w.finalTemperature.Flush()
	return w.finalTemperature.Error()
}

// WriteEpochTemperatures writes every non-halo cell's row for epoch,
// plus the epoch index column, per spec.md §4.7 item 4. A no-op (returns
// nil) when output_level < 2, i.e. the sink was never opened.
func (w *Writer) WriteEpochTemperatures(epoch int, rows []TemperatureRow) error {
	if w.epochTemperature == nil {
		return nil
	}
	for _, r := range rows {
		rec := append(temperatureRecord(r), strconv.Itoa(epoch))
		if err := w.epochTemperature.Write(rec); err != nil {
			return thermalconfig.NewIOError("write", "epoch_temperature_file_csv", err)
		}
	}
	w.epochTemperature.Flush()
	return w.epochTemperature.Error()
}

func temperatureRecord(r TemperatureRow) []string {
	return []string{
		strconv.Itoa(r.CaseID),
		strconv.Itoa(r.X), strconv.Itoa(r.Y), strconv.Itoa(r.Z),
		strconv.FormatFloat(r.Power, 'f', -1, 64),
		strconv.FormatFloat(r.Temperature, 'f', -1, 64),
	}
}

// Close closes every open sink; it does not flush, since every Write
// method has already flushed what it wrote. Safe to call on a partially
// initialized Writer (e.g. when New failed partway through).
func (w *Writer) Close() error {
	var firstErr error
	for _, f := range []*os.File{w.bankPositionFile, w.epochMaxTempFile, w.finalTemperatureFile, w.epochTemperatureFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = thermalconfig.NewIOError("close", f.Name(), err)
		}
	}
	return firstErr
}
