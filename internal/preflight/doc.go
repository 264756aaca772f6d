// Package preflight checks the filesystem paths a run depends on before the
// engine is bound.
//
// RunAll is called once the configuration is loaded. A failed check is
// turned into a *config.ValidationError naming the option whose path is
// unusable, so the run stops with exit code 1 before any encoding happens.
// Report sinks are deliberately not checked here: a sink that cannot be
// opened is logged at flush time and never fails the run.
package preflight
