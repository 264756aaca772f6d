// Package lifecycle sequences one videnc run.
//
// A Lifecycle acquires the encoder engine, loads configuration from the
// process arguments, brackets the single encode call with a timer, flushes
// the statistics registry, prints the timing line, and destroys the engine
// exactly once on every path. Run maps the outcome to the process exit code:
// 0 once the run is reported (or help was shown), 1 when configuration failed.
package lifecycle
