package solar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultConfigFile = "config.json"

	// DefaultModelPath is the model manifest loaded when no override is configured.
	DefaultModelPath = "solar_cell_model.json"
	// DefaultDatasetPath is the option spreadsheet loaded when no override is configured.
	DefaultDatasetPath = "Perovskite_Performance_Metrics_Expanded_Physical_1000.xlsx"
)

// ColumnConfig names the dataset column read for each model field.
type ColumnConfig struct {
	ETL        string `json:"etl"`
	HTL        string `json:"htl"`
	Perovskite string `json:"perovskite"`
}

// Column returns the configured column name for f.
func (c ColumnConfig) Column(f Field) string {
	switch f {
	case FieldETL:
		return c.ETL
	case FieldHTL:
		return c.HTL
	case FieldPerovskite:
		return c.Perovskite
	}
	return ""
}

// DefaultColumns returns the column names from the Fields table.
func DefaultColumns() ColumnConfig {
	var c ColumnConfig
	for _, spec := range Fields {
		switch spec.Field {
		case FieldETL:
			c.ETL = spec.Column
		case FieldHTL:
			c.HTL = spec.Column
		case FieldPerovskite:
			c.Perovskite = spec.Column
		}
	}
	return c
}

// WindowConfig holds the initial desktop window size.
type WindowConfig struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Config aggregates runtime settings read from config.json.
type Config struct {
	ModelPath   string       `json:"modelPath"`
	DatasetPath string       `json:"datasetPath"`
	OrtLibrary  string       `json:"ortLibrary,omitempty"`
	Columns     ColumnConfig `json:"columns"`
	Window      WindowConfig `json:"window"`
}

// DefaultConfig returns the built-in fixed paths and column names.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with the built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	if c.DatasetPath == "" {
		c.DatasetPath = DefaultDatasetPath
	}
	def := DefaultColumns()
	if c.Columns.ETL == "" {
		c.Columns.ETL = def.ETL
	}
	if c.Columns.HTL == "" {
		c.Columns.HTL = def.HTL
	}
	if c.Columns.Perovskite == "" {
		c.Columns.Perovskite = def.Perovskite
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1100
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
}

// LoadConfig loads configuration from the given path or the default config.json.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig writes cfg as indented JSON. The file is replaced in one rename so
// a crash mid-write leaves the previous config intact.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmp := f.Name()
	_, werr := f.Write(append(data, '\n'))
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
