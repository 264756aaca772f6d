// Package engine wraps the encoder resource driven by the lifecycle.
//
// A Handle is created before configuration is known, bound to a backend by
// Configure, runs one blocking Encode, and is torn down by Destroy exactly
// once. Two backends exist: the drapto library, whose reporter events are
// counted into the statistics tables, and an external encoder binary that
// streams JSON statistics records on stdout.
package engine
