package history

import (
	"context"

	"videnc/internal/stats"
)

// Exporter records each flushed run into the database at Path.
type Exporter struct {
	Path string
}

// NewExporter returns a stats exporter writing to the database at path.
func NewExporter(path string) *Exporter {
	return &Exporter{Path: path}
}

func (e *Exporter) Name() string { return "history" }

// Export implements stats.Exporter.
func (e *Exporter) Export(ctx context.Context, snapshot stats.Snapshot) error {
	store, err := Open(ctx, e.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, snapshot)
}

var _ stats.Exporter = (*Exporter)(nil)
