// Package main hosts the videnc entrypoint and command graph.
//
// Invoked without a subcommand, videnc forwards its arguments verbatim to the
// encoder lifecycle: configure, encode once, report statistics, and exit with
// 0 or 1. The config, history, and version subcommands cover scaffolding and
// inspection and never start an encode.
package main
