package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"videnc/internal/logging"
)

// Recorder is the write-side view of the registry handed to encoder engines.
// Writes to tables that are not enabled are ignored.
type Recorder interface {
	Count(table string, delta int64, key ...int)
	Time(table string, d time.Duration, key ...int)
}

// Exporter receives a read-only snapshot of the run after the tables are reported.
type Exporter interface {
	Name() string
	Export(ctx context.Context, snapshot Snapshot) error
}

// Options configures a Registry.
type Options struct {
	Flags     Flags
	Sinks     map[string]SinkSpec
	Dir       string
	Truncate  bool
	Stdout    io.Writer
	Logger    *slog.Logger
	Exporters []Exporter
}

type entry struct {
	table *Table
	sink  SinkSpec
}

// Registry owns the enabled counter tables of one run.
type Registry struct {
	entries   []entry
	byName    map[string]*Table
	opener    sinkOpener
	logger    *slog.Logger
	exporters []Exporter
	rejected  int
}

// NewRegistry constructs the tables enabled by opts.Flags, zeroed.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Registry{
		byName:    make(map[string]*Table),
		opener:    sinkOpener{dir: opts.Dir, truncate: opts.Truncate, stdout: opts.Stdout},
		logger:    logging.NewComponentLogger(logger, "stats"),
		exporters: append([]Exporter(nil), opts.Exporters...),
	}
	for _, def := range Catalog() {
		if !def.Enabled(opts.Flags) {
			continue
		}
		sink := def.Sink
		if override, ok := opts.Sinks[def.Name]; ok {
			sink = override
		}
		table := NewTable(def.Name, def.Kind, def.Axes...)
		r.entries = append(r.entries, entry{table: table, sink: r.opener.resolve(sink)})
		r.byName[def.Name] = table
	}
	return r
}

// Tables returns the enabled tables in report order.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.table)
	}
	return out
}

// Table looks up an enabled table by name.
func (r *Registry) Table(name string) (*Table, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Sink returns the resolved sink of an enabled table.
func (r *Registry) Sink(name string) (SinkSpec, bool) {
	for _, e := range r.entries {
		if e.table.name == name {
			return e.sink, true
		}
	}
	return SinkSpec{}, false
}

// Rejected returns the number of writes dropped for malformed keys since the last reset.
func (r *Registry) Rejected() int {
	return r.rejected
}

// Reset zeroes every enabled table.
func (r *Registry) Reset() {
	for _, e := range r.entries {
		e.table.Reset()
	}
	r.rejected = 0
}

// Count implements Recorder.
func (r *Registry) Count(table string, delta int64, key ...int) {
	t, ok := r.byName[table]
	if !ok {
		return
	}
	if err := t.Add(delta, key...); err != nil {
		r.reject(err)
	}
}

// Time implements Recorder.
func (r *Registry) Time(table string, d time.Duration, key ...int) {
	t, ok := r.byName[table]
	if !ok {
		return
	}
	if err := t.AddDuration(d, key...); err != nil {
		r.reject(err)
	}
}

func (r *Registry) reject(err error) {
	r.rejected++
	r.logger.Debug("counter write rejected", logging.Error(err))
}

// RunSummary describes the run whose statistics are being flushed.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Engine    string
	Input     string
	Wall      time.Duration
	CPU       time.Duration
	EncodeErr error
}

// FlushResult lists the tables that reached their sink and every failure encountered.
type FlushResult struct {
	Reported []string
	Failures []error
}

// OK reports whether every table and exporter succeeded.
func (f FlushResult) OK() bool {
	return len(f.Failures) == 0
}

// Flush reports every enabled table to its sink and then runs the exporters.
// Failures are logged and returned; none of them stops the remaining work.
func (r *Registry) Flush(ctx context.Context, run RunSummary) FlushResult {
	var result FlushResult
	for _, e := range r.entries {
		if err := r.report(e); err != nil {
			r.logger.Warn("statistics report failed",
				logging.String(logging.FieldTable, e.table.name),
				logging.String(logging.FieldSink, e.sink.String()),
				logging.Error(err),
			)
			result.Failures = append(result.Failures, err)
			continue
		}
		result.Reported = append(result.Reported, e.table.name)
	}

	if len(r.exporters) == 0 {
		return result
	}
	snapshot := r.Snapshot(run)
	for _, exp := range r.exporters {
		if err := exp.Export(ctx, snapshot); err != nil {
			r.logger.Warn("statistics export failed",
				logging.String("exporter", exp.Name()),
				logging.Error(err),
			)
			result.Failures = append(result.Failures, fmt.Errorf("export %s: %w", exp.Name(), err))
		}
	}
	return result
}

func (r *Registry) report(e entry) error {
	payload := Render(e.table, LayoutFor(e.sink.Target))
	sink, err := r.opener.open(e.sink)
	if err != nil {
		return &SinkError{Table: e.table.name, Sink: e.sink.String(), Op: "open", Err: err}
	}
	if _, err := sink.Write(payload); err != nil {
		_ = sink.Close()
		return &SinkError{Table: e.table.name, Sink: e.sink.String(), Op: "write", Err: err}
	}
	if err := sink.Close(); err != nil {
		return &SinkError{Table: e.table.name, Sink: e.sink.String(), Op: "close", Err: err}
	}
	r.logger.Debug("statistics reported",
		logging.String(logging.FieldTable, e.table.name),
		logging.String(logging.FieldSink, e.sink.String()),
	)
	return nil
}

// Cell is one labelled table value.
type Cell struct {
	Key   []string
	Value int64
}

// TableSnapshot is a detached copy of a table.
type TableSnapshot struct {
	Name  string
	Kind  Kind
	Axes  []string
	Cells []Cell
}

// Snapshot is the exporter view of a finished run.
type Snapshot struct {
	Run    RunSummary
	Tables []TableSnapshot
}

// Snapshot copies the enabled tables for exporters.
func (r *Registry) Snapshot(run RunSummary) Snapshot {
	snap := Snapshot{Run: run}
	for _, e := range r.entries {
		t := e.table
		ts := TableSnapshot{Name: t.name, Kind: t.kind}
		for _, axis := range t.axes {
			ts.Axes = append(ts.Axes, axis.Name)
		}
		t.Each(func(key []int, value int64) {
			ts.Cells = append(ts.Cells, Cell{Key: t.Labels(key), Value: value})
		})
		snap.Tables = append(snap.Tables, ts)
	}
	return snap
}
