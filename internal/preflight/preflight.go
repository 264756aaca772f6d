package preflight

import (
	"path/filepath"

	"videnc/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Option string
	Path   string
	Passed bool
	Detail string
}

// RunAll executes the path checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadable("Input", "input", cfg.Input.Path),
		CheckWritableTarget("Output", "output", outputTarget(cfg)),
	}
	if cfg.Report.Dir != "" {
		results = append(results, CheckWritableTarget("Report directory", "report-dir", cfg.Report.Dir))
	}
	if cfg.Report.HistoryDB != "" {
		results = append(results, CheckWritableTarget("History database", "history-db", filepath.Dir(cfg.Report.HistoryDB)))
	}
	return results
}

// outputTarget is the directory the engine writes into. drapto treats the
// output path as a directory; other engines write a file beside it.
func outputTarget(cfg *config.Config) string {
	if cfg.Engine.Kind == config.EngineDrapto {
		return cfg.Output.Path
	}
	return filepath.Dir(cfg.Output.Path)
}

// Err returns the first failed result as a validation error, or nil.
func Err(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return &config.ValidationError{Option: r.Option, Value: r.Path, Reason: r.Detail}
		}
	}
	return nil
}
