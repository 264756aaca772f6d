package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvVar documents one VIDENC_* environment override.
type EnvVar struct {
	Name        string
	Option      string
	Description string
}

// KnownEnv lists the environment variables Load consults, in print order.
var KnownEnv = []EnvVar{
	{Name: "VIDENC_CONFIG", Option: "config", Description: "configuration file path"},
	{Name: "VIDENC_ENGINE", Option: "engine", Description: "encoder engine (drapto or exec)"},
	{Name: "VIDENC_ENGINE_BINARY", Option: "engine-binary", Description: "external encoder binary for the exec engine"},
	{Name: "VIDENC_STATS", Option: "stats", Description: "comma-separated statistics table groups"},
	{Name: "VIDENC_REPORT_DIR", Option: "report-dir", Description: "directory for relative report files"},
	{Name: "VIDENC_HISTORY_DB", Option: "history-db", Description: "SQLite run history database"},
	{Name: "VIDENC_LOG_LEVEL", Option: "log-level", Description: "log level"},
	{Name: "VIDENC_LOG_FORMAT", Option: "log-format", Description: "log format"},
	{Name: "VIDENC_PRINT_ENV", Option: "print-env", Description: "print environment variables in use (true/false)"},
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// EnvInUse returns the known variables that are set, with their values.
func EnvInUse(lookup LookupFunc) []EnvSetting {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var set []EnvSetting
	for _, v := range KnownEnv {
		if value, ok := lookup(v.Name); ok {
			set = append(set, EnvSetting{EnvVar: v, Value: value})
		}
	}
	return set
}

// EnvSetting pairs a known variable with its current value.
type EnvSetting struct {
	EnvVar
	Value string
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(name string, dst *string) {
		if value, ok := lookup(name); ok && strings.TrimSpace(value) != "" {
			*dst = value
		}
	}
	str("VIDENC_ENGINE", &cfg.Engine.Kind)
	str("VIDENC_ENGINE_BINARY", &cfg.Engine.Binary)
	str("VIDENC_REPORT_DIR", &cfg.Report.Dir)
	str("VIDENC_HISTORY_DB", &cfg.Report.HistoryDB)
	str("VIDENC_LOG_LEVEL", &cfg.Logging.Level)
	str("VIDENC_LOG_FORMAT", &cfg.Logging.Format)

	if value, ok := lookup("VIDENC_STATS"); ok && strings.TrimSpace(value) != "" {
		selected, err := ParseStatsList(strings.Split(value, ","))
		if err != nil {
			return &ParseFailure{Option: "VIDENC_STATS", Value: value, Err: err}
		}
		cfg.Stats = selected
	}
	if value, ok := lookup("VIDENC_PRINT_ENV"); ok && strings.TrimSpace(value) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return &ParseFailure{Option: "VIDENC_PRINT_ENV", Value: value, Err: fmt.Errorf("want a boolean: %w", err)}
		}
		cfg.Report.PrintEnv = enabled
	}
	return nil
}

// PrintEnvRequested reports whether --print-env or VIDENC_PRINT_ENV asks for
// the environment listing. It reads the raw inputs so it still answers when
// Load failed.
func PrintEnvRequested(args []string, lookup LookupFunc) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	requested := false
	if value, ok := lookup("VIDENC_PRINT_ENV"); ok {
		requested, _ = strconv.ParseBool(strings.TrimSpace(value))
	}
	for _, arg := range args {
		if arg == "--" {
			break
		}
		switch {
		case arg == "--print-env":
			requested = true
		case strings.HasPrefix(arg, "--print-env="):
			if enabled, err := strconv.ParseBool(strings.TrimPrefix(arg, "--print-env=")); err == nil {
				requested = enabled
			}
		}
	}
	return requested
}
