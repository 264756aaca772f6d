// Package history records finished runs in a SQLite database.
//
// Each run stores its identity, timing, and outcome in the runs table and
// every statistics cell in the cells table, so repeated research runs can be
// compared without re-parsing report files. Recording is best effort: the
// lifecycle logs failures and never changes the exit code because of them.
package history
