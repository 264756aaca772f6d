package testsupport

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"videnc/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a valid config rooted in a fresh temp directory: a
// stub input file, an output path beside it, and a report directory. Logging
// is quieted to errors in JSON form so test output stays readable.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Input.Path = filepath.Join(base, "input.y4m")
	cfgVal.Output.Path = filepath.Join(base, "output.mkv")
	cfgVal.Report.Dir = filepath.Join(base, "reports")
	cfgVal.Logging.Level = "error"
	cfgVal.Logging.Format = "json"
	WriteY4M(t, cfgVal.Input.Path, 2)

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStats enables the given table groups.
func WithStats(stats config.Stats) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stats = stats
	}
}

// WithSink routes one table to spec ("stdout" or "file:<path>").
func WithSink(table, spec string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Report.Sinks == nil {
			b.cfg.Report.Sinks = map[string]string{}
		}
		b.cfg.Report.Sinks[table] = spec
	}
}

// WithExecEngine selects the exec engine with the given binary and arguments.
func WithExecEngine(binary string, args ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.Kind = config.EngineExec
		b.cfg.Engine.Binary = binary
		b.cfg.Engine.Args = append([]string(nil), args...)
	}
}

// WithHistoryDB enables the run history database under the base directory.
func WithHistoryDB() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.HistoryDB = filepath.Join(b.baseDir, "history.db")
	}
}

// WithMetricsTextfile enables the metrics textfile under the base directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.MetricsTextfile = filepath.Join(b.baseDir, "videnc.prom")
	}
}

// WithTruncate switches file sinks to truncate mode.
func WithTruncate() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.Truncate = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Input.Path)
}

// Args renders cfg as command-line options that config.Load turns back into
// an equivalent configuration.
func Args(cfg *config.Config) []string {
	args := []string{
		"--input", cfg.Input.Path,
		"--output", cfg.Output.Path,
		"--engine", cfg.Engine.Kind,
		"--report-dir", cfg.Report.Dir,
		"--log-level", cfg.Logging.Level,
		"--log-format", cfg.Logging.Format,
	}
	if cfg.Input.Frames > 0 {
		args = append(args, "--frames", strconv.Itoa(cfg.Input.Frames))
	}
	if cfg.Engine.Binary != "" {
		args = append(args, "--engine-binary", cfg.Engine.Binary)
	}
	for _, arg := range cfg.Engine.Args {
		args = append(args, "--engine-arg="+arg)
	}
	if groups := statsGroups(cfg.Stats); len(groups) > 0 {
		args = append(args, "--stats", strings.Join(groups, ","))
	} else {
		args = append(args, "--stats", "none")
	}
	if cfg.Report.Truncate {
		args = append(args, "--truncate")
	}
	tables := make([]string, 0, len(cfg.Report.Sinks))
	for table := range cfg.Report.Sinks {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		args = append(args, "--sink", table+"="+cfg.Report.Sinks[table])
	}
	if cfg.Report.HistoryDB != "" {
		args = append(args, "--history-db", cfg.Report.HistoryDB)
	}
	if cfg.Report.MetricsTextfile != "" {
		args = append(args, "--metrics-textfile", cfg.Report.MetricsTextfile)
	}
	if cfg.Logging.File != "" {
		args = append(args, "--log-file", cfg.Logging.File)
	}
	return args
}

func statsGroups(s config.Stats) []string {
	var groups []string
	if s.RegionDepth {
		groups = append(groups, "region_depth")
	}
	if s.CornerPoint {
		groups = append(groups, "corner_point")
	}
	if s.DmmModes {
		groups = append(groups, "dmm_modes")
	}
	if s.DmmTiming {
		groups = append(groups, "dmm_timing")
	}
	if s.EngineEvents {
		groups = append(groups, "engine_events")
	}
	return groups
}
