package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"videnc/internal/history"
	"videnc/internal/stats"
)

func snapshotFor(runID string, started time.Time, encodeErr error) stats.Snapshot {
	reg := stats.NewRegistry(stats.Options{Flags: stats.Flags{RegionDepth: true}})
	reg.Count(stats.TableRegionDepth, 3, stats.RegionCorner, 0, 1)
	return reg.Snapshot(stats.RunSummary{
		RunID:     runID,
		StartedAt: started,
		Engine:    "exec",
		Input:     "/media/clip.y4m",
		Wall:      1500 * time.Millisecond,
		CPU:       time.Second,
		EncodeErr: encodeErr,
	})
}

func TestExporterRecordsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "history.db")
	exporter := history.NewExporter(path)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := exporter.Export(ctx, snapshotFor("run-a", base, nil)); err != nil {
		t.Fatalf("export run-a: %v", err)
	}
	if err := exporter.Export(ctx, snapshotFor("run-b", base.Add(time.Minute), errors.New("encoder crashed"))); err != nil {
		t.Fatalf("export run-b: %v", err)
	}

	store, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-b" || runs[0].Status != history.StatusEncodeFailed || runs[0].Error != "encoder crashed" {
		t.Fatalf("unexpected newest run: %+v", runs[0])
	}
	if runs[1].Status != history.StatusOK || runs[1].WallSeconds != 1.5 || runs[1].Cells != 32 {
		t.Fatalf("unexpected oldest run: %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("started_at = %s, want %s", runs[1].StartedAt, base)
	}

	cells, err := store.CellValues(ctx, "run-a", stats.TableRegionDepth)
	if err != nil {
		t.Fatalf("CellValues: %v", err)
	}
	if cells["corner,0,1"] != 3 || cells["corner,0,0"] != 0 || len(cells) != 32 {
		t.Fatalf("unexpected cells: %v", cells)
	}
}

func TestRecentOrdersSubsecondStarts(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	base := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)
	starts := map[string]time.Time{
		"run-100ms": base.Add(100 * time.Millisecond),
		"run-120ms": base.Add(120 * time.Millisecond),
		"run-whole": base,
	}
	for _, id := range []string{"run-120ms", "run-whole", "run-100ms"} {
		if err := store.Record(ctx, snapshotFor(id, starts[id], nil)); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"run-120ms", "run-100ms", "run-whole"}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(runs))
	}
	for i, id := range want {
		if runs[i].RunID != id {
			t.Fatalf("runs[%d] = %s, want %s", i, runs[i].RunID, id)
		}
		if !runs[i].StartedAt.Equal(starts[id]) {
			t.Fatalf("%s started_at = %s, want %s", id, runs[i].StartedAt, starts[id])
		}
	}
}

func TestRecordRejectsDuplicateRunID(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	snap := snapshotFor("dup", time.Now(), nil)
	if err := store.Record(ctx, snap); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := store.Record(ctx, snap); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	runs, err := store.Recent(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected exactly one run after failed duplicate, got %d (%v)", len(runs), err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := history.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
