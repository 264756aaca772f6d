// Package stats owns the optional diagnostic counter tables reported around an
// encode run.
//
// A Registry is built from the enabled table flags; disabled tables are never
// constructed, so writes aimed at them cost a map lookup and nothing more. The
// registry is reset before the encode starts, written by the engine through the
// Recorder interface while the encode runs, and flushed exactly once after it
// returns. Flushing renders each table in a fixed axis order so that two flushes
// of identical counters produce identical bytes, and writes it to the table's
// ReportSink (an append-mode file or stdout). Sink failures are logged and
// collected in the FlushResult; they never stop the remaining tables.
//
// Tables carry no locking. The write phase (encode) and the read phase (flush)
// are strictly ordered by the lifecycle, and engines that observe progress on
// several goroutines serialize their own writes before calling the Recorder.
package stats
