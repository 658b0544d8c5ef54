package thermalconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MemoryType selects the device topology, which in turn drives every
// derived floorplan dimension (see package floorplan).
type MemoryType string

const (
	DDR MemoryType = "DDR"
	HBM MemoryType = "HBM"
	HMC MemoryType = "HMC"
)

// KelvinOffset converts between Celsius and Kelvin, T0 in spec.md's
// notation.
const KelvinOffset = 273.15

// Config is the simulator's immutable configuration, enumerating every
// field spec.md §3 names. It is built by Load or Default (cmd/thermalreplay
// then overrides the memory type and output paths) and is not changed once
// handed to thermal.New — every component that derives values from it
// (floorplan dimensions, event energies, output paths) does so once, at
// construction, in the teacher's constructor-computes-once style.
type Config struct {
	// Topology
	MemoryType      MemoryType `yaml:"memory_type"`
	Channels        int        `yaml:"channels"`
	Ranks           int        `yaml:"ranks"`
	Bankgroups      int        `yaml:"bankgroups"`
	BanksPerGroup   int        `yaml:"banks_per_group"`
	NumDies         int        `yaml:"num_dies"`
	DevicesPerRank  int        `yaml:"devices_per_rank"`

	// Geometry
	BankASR     float64 `yaml:"bank_asr"`
	NumXgrids   int     `yaml:"num_x_grids"`
	NumYgrids   int     `yaml:"num_y_grids"`
	MatX        int     `yaml:"mat_x"`
	MatY        int     `yaml:"mat_y"`
	RowTile     int     `yaml:"row_tile"`
	TileRowNum  int     `yaml:"tile_row_num"`
	BL          int     `yaml:"burst_length"`
	DeviceWidth int     `yaml:"device_width"`
	ChipX       float64 `yaml:"chip_x"`
	ChipY       float64 `yaml:"chip_y"`

	// Timing
	TCK              float64 `yaml:"tck_ns"`
	PowerEpochPeriod uint64  `yaml:"power_epoch_period"`
	EpochPeriod      uint64  `yaml:"epoch_period"`
	BurstCycle       uint64  `yaml:"burst_cycle"`

	// Energies (picojoules per event)
	ActEnergyInc   float64 `yaml:"act_energy_inc"`
	ReadEnergyInc  float64 `yaml:"read_energy_inc"`
	WriteEnergyInc float64 `yaml:"write_energy_inc"`
	RefEnergyInc   float64 `yaml:"ref_energy_inc"`
	RefbEnergyInc  float64 `yaml:"refb_energy_inc"`
	NumRowRefresh  int     `yaml:"num_row_refresh"`
	Rows           int     `yaml:"rows"`
	Banks          int     `yaml:"banks"`

	// Thermal
	Tamb0          float64 `yaml:"tamb0_c"`
	BankOrder      int     `yaml:"bank_order"`
	BankLayerOrder int     `yaml:"bank_layer_order"`
	LocMapping     string  `yaml:"loc_mapping"`
	OutputLevel    int     `yaml:"output_level"`
	MaxLogicPower  float64 `yaml:"max_logic_power"`
	NumDummy       int     `yaml:"num_dummy"`

	// Output paths
	BankPositionCSV       string `yaml:"bank_position_csv"`
	EpochMaxTempFileCSV   string `yaml:"epoch_max_temp_file_csv"`
	EpochTemperatureCSV   string `yaml:"epoch_temperature_file_csv"`
	FinalTemperatureCSV   string `yaml:"final_temperature_file_csv"`
}

// IsHMC reports whether the configured topology is HMC.
func (c *Config) IsHMC() bool { return c.MemoryType == HMC }

// IsHBM reports whether the configured topology is HBM.
func (c *Config) IsHBM() bool { return c.MemoryType == HBM }

// Is3DStacked reports whether the topology has a logic layer (HMC or HBM).
func (c *Config) Is3DStacked() bool { return c.IsHMC() || c.IsHBM() }

// Default returns a Config pre-filled with the values spec.md §8's
// end-to-end scenarios use, so callers (and tests) have a working
// baseline to override from.
func Default() *Config {
	return &Config{
		MemoryType:     DDR,
		Channels:       1,
		Ranks:          1,
		Bankgroups:     1,
		BanksPerGroup:  4,
		NumDies:        1,
		DevicesPerRank: 1,

		BankASR:     1.0,
		NumXgrids:   16,
		NumYgrids:   16,
		MatX:        4,
		MatY:        4,
		RowTile:     1,
		TileRowNum:  1 << 20,
		BL:          8,
		DeviceWidth: 4,
		ChipX:       10.0,
		ChipY:       10.0,

		TCK:              1.0,
		PowerEpochPeriod: 1000,
		EpochPeriod:      1000,
		BurstCycle:       4,

		ActEnergyInc:   1000,
		ReadEnergyInc:  1000,
		WriteEnergyInc: 1000,
		RefEnergyInc:   1000,
		RefbEnergyInc:  1000,
		NumRowRefresh:  8,
		Rows:           1024,
		Banks:          4,

		Tamb0:          40.0,
		BankOrder:      1,
		BankLayerOrder: 0,
		LocMapping:     "",
		OutputLevel:    1,
		MaxLogicPower:  18.0,
		NumDummy:       2,

		BankPositionCSV:     "bank_position.csv",
		EpochMaxTempFileCSV: "epoch_max_temp.csv",
		EpochTemperatureCSV: "epoch_temperature.csv",
		FinalTemperatureCSV: "final_temperature.csv",
	}
}

// Load reads a YAML configuration file over a Default config, so any field
// the file does not set keeps its default value (a field the file sets to
// zero stays zero), then validates required fields.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("open", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, NewConfigError("<root>", err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields that geometry derivation and energy
// accounting cannot tolerate being zero or missing.
func (c *Config) Validate() error {
	switch {
	case c.Channels <= 0:
		return NewConfigError("channels", "must be positive")
	case c.Ranks <= 0:
		return NewConfigError("ranks", "must be positive")
	case c.NumXgrids <= 0 || c.NumYgrids <= 0:
		return NewConfigError("num_x_grids/num_y_grids", "must be positive")
	case c.BL <= 0 || c.BL&(c.BL-1) != 0:
		return NewConfigError("burst_length", "must be a positive power of two")
	case c.DeviceWidth <= 0:
		return NewConfigError("device_width", "must be positive")
	case c.PowerEpochPeriod == 0:
		return NewConfigError("power_epoch_period", "must be positive")
	case c.NumRowRefresh <= 0:
		return NewConfigError("num_row_refresh", "must be positive")
	case c.Rows <= 0:
		return NewConfigError("rows", "must be positive")
	case c.MemoryType == HMC && c.NumDies <= 0:
		return NewConfigError("num_dies", "must be positive for HMC")
	case c.MemoryType == HBM && c.NumDies <= 0:
		return NewConfigError("num_dies", "must be positive for HBM")
	case c.BankPositionCSV == "" || c.EpochMaxTempFileCSV == "" || c.FinalTemperatureCSV == "":
		return NewConfigError("output paths", "bank position, epoch max temp, and final temperature CSV paths are required")
	}
	if c.Banks == 0 {
		c.Banks = c.Bankgroups * c.BanksPerGroup
	}
	return nil
}
