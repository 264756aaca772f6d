// Package config loads, normalizes, and validates videnc configuration.
//
// Configuration is layered: repository defaults, then an optional TOML or
// YAML file, then VIDENC_* environment overrides, then command-line options.
// Load reports grammar problems as *ParseFailure and semantic problems as
// *ValidationError; both carry the offending option name and value. A Config
// returned by Load is fully valid and is not modified afterwards.
package config
