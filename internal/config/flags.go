package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// options holds the raw command-line values before they are layered onto a Config.
type options struct {
	configPath      string
	input           string
	output          string
	frames          int
	engine          string
	engineBinary    string
	engineArgs      []string
	responsive      bool
	stats           []string
	reportDir       string
	truncate        bool
	sinks           []string
	historyDB       string
	metricsTextfile string
	logLevel        string
	logFormat       string
	logFile         string
	printSettings   bool
	printEnv        bool
	help            bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("videnc", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringVarP(&opts.configPath, "config", "c", "", "configuration file (TOML, or YAML by extension)")
	fs.StringVarP(&opts.input, "input", "i", "", "input file to encode")
	fs.StringVarP(&opts.output, "output", "o", "", "output path")
	fs.IntVarP(&opts.frames, "frames", "f", 0, "encode only the first N frames (0 = all)")
	fs.StringVar(&opts.engine, "engine", "", "encoder engine: drapto or exec")
	fs.StringVar(&opts.engineBinary, "engine-binary", "", "external encoder binary for the exec engine")
	fs.StringArrayVar(&opts.engineArgs, "engine-arg", nil, "argument passed to the exec engine (repeatable)")
	fs.BoolVar(&opts.responsive, "responsive", true, "run the drapto engine at reduced priority")
	fs.StringSliceVar(&opts.stats, "stats", nil, "statistics tables: region_depth, corner_point, dmm_modes, dmm_timing, engine_events, all, none")
	fs.StringVar(&opts.reportDir, "report-dir", "", "directory for relative report files")
	fs.BoolVar(&opts.truncate, "truncate", false, "truncate report files instead of appending")
	fs.StringArrayVar(&opts.sinks, "sink", nil, "per-table sink as table=stdout or table=file:<path> (repeatable)")
	fs.StringVar(&opts.historyDB, "history-db", "", "SQLite database recording run history")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write statistics as a Prometheus text file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "", "log format: console or json")
	fs.StringVar(&opts.logFile, "log-file", "", "also append JSON logs to this file")
	fs.BoolVar(&opts.printSettings, "print-settings", false, "print the effective settings before encoding")
	fs.BoolVar(&opts.printEnv, "print-env", false, "print VIDENC_* environment variables in use")
	fs.BoolVarP(&opts.help, "help", "h", false, "show this help")
	return fs
}

// Usage returns the option reference printed for --help.
func Usage() string {
	var opts options
	fs := newFlagSet(&opts)
	return "Usage: videnc [options]\n\nOptions:\n" + fs.FlagUsages()
}

// trackedValue records the first value a flag rejected so the failure can
// name the option and the argument exactly as given.
type trackedValue struct {
	pflag.Value
	name    string
	failure **ParseFailure
}

func (v *trackedValue) Set(value string) error {
	if err := v.Value.Set(value); err != nil {
		if *v.failure == nil {
			*v.failure = &ParseFailure{Option: v.name, Value: value, Err: err}
		}
		return err
	}
	return nil
}

func parseArgs(args []string) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := newFlagSet(opts)
	fs.SetOutput(discard{})

	var failure *ParseFailure
	fs.VisitAll(func(f *pflag.Flag) {
		f.Value = &trackedValue{Value: f.Value, name: f.Name, failure: &failure}
	})

	if err := fs.Parse(args); err != nil {
		if failure != nil {
			return nil, nil, failure
		}
		return nil, nil, grammarFailure(err, args)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, nil, &ParseFailure{Option: "argument", Value: rest[0], Err: fmt.Errorf("unexpected positional argument")}
	}
	return opts, fs, nil
}

// grammarFailure converts pflag's unknown-flag and missing-argument errors.
func grammarFailure(err error, args []string) *ParseFailure {
	msg := err.Error()
	var option string
	switch {
	case strings.HasPrefix(msg, "unknown flag: "):
		option = strings.TrimPrefix(msg, "unknown flag: ")
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		option = shorthandFromMessage(strings.TrimPrefix(msg, "unknown shorthand flag: "))
	case strings.HasPrefix(msg, "flag needs an argument: "):
		rest := strings.TrimPrefix(msg, "flag needs an argument: ")
		if strings.HasPrefix(rest, "'") {
			option = shorthandFromMessage(rest)
		} else {
			option = rest
		}
	case strings.HasPrefix(msg, "bad flag syntax: "):
		option = strings.TrimPrefix(msg, "bad flag syntax: ")
	}
	option = strings.TrimLeft(strings.TrimSpace(option), "-")
	return &ParseFailure{Option: option, Value: argumentFor(option, args), Err: err}
}

// shorthandFromMessage extracts x from "'x' in -xyz".
func shorthandFromMessage(rest string) string {
	if len(rest) >= 3 && rest[0] == '\'' {
		if end := strings.IndexByte(rest[1:], '\''); end > 0 {
			return rest[1 : 1+end]
		}
	}
	return rest
}

// argumentFor returns the value attached to option in args, if any.
func argumentFor(option string, args []string) string {
	if option == "" {
		return ""
	}
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if key, value, ok := strings.Cut(name, "="); ok && key == option {
			return value
		}
		if name != option {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			return args[i+1]
		}
		return ""
	}
	return ""
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// applyFlags overlays the options that were explicitly set on the command line.
func (o *options) applyFlags(fs *pflag.FlagSet, cfg *Config) error {
	if fs.Changed("input") {
		cfg.Input.Path = o.input
	}
	if fs.Changed("output") {
		cfg.Output.Path = o.output
	}
	if fs.Changed("frames") {
		cfg.Input.Frames = o.frames
	}
	if fs.Changed("engine") {
		cfg.Engine.Kind = o.engine
	}
	if fs.Changed("engine-binary") {
		cfg.Engine.Binary = o.engineBinary
	}
	if fs.Changed("engine-arg") {
		cfg.Engine.Args = append([]string(nil), o.engineArgs...)
	}
	if fs.Changed("responsive") {
		cfg.Engine.Responsive = o.responsive
	}
	if fs.Changed("stats") {
		selected, err := ParseStatsList(o.stats)
		if err != nil {
			return &ParseFailure{Option: "stats", Value: strings.Join(o.stats, ","), Err: err}
		}
		cfg.Stats = selected
	}
	if fs.Changed("report-dir") {
		cfg.Report.Dir = o.reportDir
	}
	if fs.Changed("truncate") {
		cfg.Report.Truncate = o.truncate
	}
	for _, entry := range o.sinks {
		table, spec, ok := strings.Cut(entry, "=")
		if !ok {
			return &ParseFailure{Option: "sink", Value: entry, Err: fmt.Errorf("want table=stdout or table=file:<path>")}
		}
		if cfg.Report.Sinks == nil {
			cfg.Report.Sinks = map[string]string{}
		}
		cfg.Report.Sinks[table] = spec
	}
	if fs.Changed("history-db") {
		cfg.Report.HistoryDB = o.historyDB
	}
	if fs.Changed("metrics-textfile") {
		cfg.Report.MetricsTextfile = o.metricsTextfile
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if fs.Changed("log-file") {
		cfg.Logging.File = o.logFile
	}
	if fs.Changed("print-settings") {
		cfg.Report.PrintSettings = o.printSettings
	}
	if fs.Changed("print-env") {
		cfg.Report.PrintEnv = o.printEnv
	}
	return nil
}

// ParseStatsList maps table group names onto a Stats selection.
func ParseStatsList(values []string) (Stats, error) {
	var selected Stats
	for _, raw := range values {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "":
		case "none":
			selected = Stats{}
		case "all":
			selected = Stats{RegionDepth: true, CornerPoint: true, DmmModes: true, DmmTiming: true, EngineEvents: true}
		case "region_depth":
			selected.RegionDepth = true
		case "corner_point":
			selected.CornerPoint = true
		case "dmm_modes":
			selected.DmmModes = true
		case "dmm_timing":
			selected.DmmTiming = true
		case "engine_events":
			selected.EngineEvents = true
		default:
			return Stats{}, fmt.Errorf("unknown statistics group %q", raw)
		}
	}
	return selected, nil
}
