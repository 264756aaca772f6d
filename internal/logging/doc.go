// Package logging assembles the structured slog loggers used by videnc.
//
// It owns the console and JSON handlers, level parsing, output routing, and
// the attribute helpers that give every component the same field names. Each
// run carries a run ID placed on the context so log lines from the lifecycle,
// the statistics registry, and the encoder engine can be correlated. A no-op
// logger is provided for tests and wiring code that cannot fail.
//
// Log output goes to stderr by default: stdout belongs to the banner, the
// timing line, and statistics reports.
package logging
