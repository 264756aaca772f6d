package stats

import (
	"errors"
	"testing"
	"time"
)

func TestTableAddAndValue(t *testing.T) {
	table := NewTable("grid", KindCount, IndexedAxis("row", 2), IndexedAxis("col", 3))
	if table.Len() != 6 {
		t.Fatalf("expected 6 cells, got %d", table.Len())
	}
	if err := table.Add(3, 1, 2); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := table.Add(2, 1, 2); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if got := table.Value(1, 2); got != 5 {
		t.Fatalf("expected 5 at (1,2), got %d", got)
	}
	if got := table.Value(0, 0); got != 0 {
		t.Fatalf("expected untouched cell to be 0, got %d", got)
	}
}

func TestTableRejectsBadKeys(t *testing.T) {
	table := NewTable("grid", KindCount, IndexedAxis("row", 2), IndexedAxis("col", 3))

	err := table.Add(1, 0)
	if !errors.Is(err, ErrKeyArity) {
		t.Fatalf("expected ErrKeyArity, got %v", err)
	}
	err = table.Add(1, 2, 0)
	if !errors.Is(err, ErrKeyRange) {
		t.Fatalf("expected ErrKeyRange, got %v", err)
	}
	var keyErr *KeyError
	if !errors.As(err, &keyErr) || keyErr.Table != "grid" {
		t.Fatalf("expected KeyError naming the table, got %v", err)
	}
	if !table.Zero() {
		t.Fatal("rejected writes must not modify the table")
	}
}

func TestScalarTable(t *testing.T) {
	table := NewTable("total", KindDuration)
	if !table.Scalar() || table.Len() != 1 {
		t.Fatalf("expected scalar with one cell, got len %d", table.Len())
	}
	if err := table.AddDuration(1500 * time.Millisecond); err != nil {
		t.Fatalf("AddDuration returned error: %v", err)
	}
	if got := time.Duration(table.Value()); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %s", got)
	}
}

func TestTableResetIsIdempotent(t *testing.T) {
	table := NewTable("grid", KindCount, IndexedAxis("row", 2), IndexedAxis("col", 2))
	_ = table.Add(7, 1, 1)
	table.Reset()
	table.Reset()
	if !table.Zero() {
		t.Fatal("expected all cells zero after two resets")
	}
}

func TestTableEachVisitsRowMajor(t *testing.T) {
	table := NewTable("grid", KindCount, IndexedAxis("row", 2), IndexedAxis("col", 2))
	_ = table.Add(1, 0, 1)
	_ = table.Add(2, 1, 0)

	var keys [][2]int
	var values []int64
	table.Each(func(key []int, value int64) {
		keys = append(keys, [2]int{key[0], key[1]})
		values = append(values, value)
	})

	wantKeys := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	wantValues := []int64{0, 1, 2, 0}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] || values[i] != wantValues[i] {
			t.Fatalf("visit %d: got key %v value %d, want key %v value %d", i, keys[i], values[i], wantKeys[i], wantValues[i])
		}
	}
}

func TestNewTableCopiesAxes(t *testing.T) {
	labels := []string{"a", "b"}
	table := NewTable("t", KindCount, Axis{Name: "x", Labels: labels})
	labels[0] = "mutated"
	if got := table.Labels([]int{0}); got[0] != "a" {
		t.Fatalf("expected table to keep its own labels, got %q", got[0])
	}
}
