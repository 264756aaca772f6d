// Package display renders the human-facing console output of videnc: the
// startup banner, the effective settings table, environment listings, and
// the run history table.
package display
