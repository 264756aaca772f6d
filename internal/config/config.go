package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"videnc/internal/stats"
)

//go:embed sample_config.toml
var sampleConfig string

// Input names the source the engine encodes.
type Input struct {
	Path string `toml:"path" yaml:"path"`
	// Frames limits the encode to the first N frames; zero encodes everything.
	Frames int `toml:"frames" yaml:"frames"`
}

// Output names where the engine writes its result.
type Output struct {
	Path string `toml:"path" yaml:"path"`
}

// Engine selects and parameterizes the encoder backend.
type Engine struct {
	Kind       string   `toml:"kind" yaml:"kind"`
	Binary     string   `toml:"binary" yaml:"binary"`
	Args       []string `toml:"args" yaml:"args"`
	Responsive bool     `toml:"responsive" yaml:"responsive"`
}

// Stats enables groups of built-in statistics tables.
type Stats struct {
	RegionDepth  bool `toml:"region_depth" yaml:"region_depth"`
	CornerPoint  bool `toml:"corner_point" yaml:"corner_point"`
	DmmModes     bool `toml:"dmm_modes" yaml:"dmm_modes"`
	DmmTiming    bool `toml:"dmm_timing" yaml:"dmm_timing"`
	EngineEvents bool `toml:"engine_events" yaml:"engine_events"`
}

// Report controls where statistics and run records are written.
type Report struct {
	Dir             string            `toml:"dir" yaml:"dir"`
	Truncate        bool              `toml:"truncate" yaml:"truncate"`
	Sinks           map[string]string `toml:"sinks" yaml:"sinks"`
	HistoryDB       string            `toml:"history_db" yaml:"history_db"`
	MetricsTextfile string            `toml:"metrics_textfile" yaml:"metrics_textfile"`
	PrintSettings   bool              `toml:"print_settings" yaml:"print_settings"`
	PrintEnv        bool              `toml:"print_env" yaml:"print_env"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// Config encapsulates all configuration values for one videnc run.
//
// Configuration sections:
//   - Input: source path and frame limit
//   - Output: destination path
//   - Engine: encoder backend selection
//   - Stats: built-in statistics tables
//   - Report: statistics sinks, run history, metrics export
//   - Logging: log level, format, and optional file
type Config struct {
	Input   Input   `toml:"input" yaml:"input"`
	Output  Output  `toml:"output" yaml:"output"`
	Engine  Engine  `toml:"engine" yaml:"engine"`
	Stats   Stats   `toml:"stats" yaml:"stats"`
	Report  Report  `toml:"report" yaml:"report"`
	Logging Logging `toml:"logging" yaml:"logging"`

	// Source is the config file that was applied, if any.
	Source string `toml:"-" yaml:"-"`
}

// StatsFlags converts the [stats] section into registry flags.
func (c *Config) StatsFlags() stats.Flags {
	return stats.Flags{
		RegionDepth:  c.Stats.RegionDepth,
		CornerPoint:  c.Stats.CornerPoint,
		DmmModes:     c.Stats.DmmModes,
		DmmTiming:    c.Stats.DmmTiming,
		EngineEvents: c.Stats.EngineEvents,
	}
}

// SinkSpecs returns the per-table sink overrides. Entries were checked by Validate.
func (c *Config) SinkSpecs() map[string]stats.SinkSpec {
	specs := make(map[string]stats.SinkSpec, len(c.Report.Sinks))
	for table, value := range c.Report.Sinks {
		spec, err := stats.ParseSinkSpec(value)
		if err != nil {
			continue
		}
		specs[table] = spec
	}
	return specs
}

// SinkNames returns the overridden table names in sorted order.
func (c *Config) SinkNames() []string {
	names := make([]string, 0, len(c.Report.Sinks))
	for name := range c.Report.Sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
