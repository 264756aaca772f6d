package stats

import (
	"bytes"
	"testing"
	"time"
)

func TestRenderTSVThreeAxes(t *testing.T) {
	table := NewTable("cube", KindCount,
		Axis{Name: "a", Labels: []string{"x", "y"}},
		IndexedAxis("b", 2),
		IndexedAxis("c", 2),
	)
	_ = table.Add(3, 0, 1, 1)
	_ = table.Add(4, 1, 0, 0)

	got := string(Render(table, LayoutTSV))
	want := "0\t0\t\n" +
		"0\t3\t\n" +
		"\n" +
		"4\t0\t\n" +
		"0\t0\t\n" +
		"\n"
	if got != want {
		t.Fatalf("unexpected TSV output:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderTSVSingleAxis(t *testing.T) {
	table := NewTable("layers", KindCount, IndexedAxis("layer", 3))
	_ = table.Add(9, 2)
	if got, want := string(Render(table, LayoutTSV)), "0\t0\t9\t\n\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderTSVTwoAxesClosesEachOuterGroup(t *testing.T) {
	table := NewTable("dmm", KindCount,
		Axis{Name: "stage", Labels: []string{"original", "final"}},
		IndexedAxis("mode", 3),
	)
	_ = table.Add(2, 0, 1)
	_ = table.Add(7, 1, 2)

	got := string(Render(table, LayoutTSV))
	want := "0\t2\t0\t\n" +
		"\n" +
		"0\t0\t7\t\n" +
		"\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderLabeled(t *testing.T) {
	table := NewTable("dmm", KindCount,
		Axis{Name: "stage", Labels: []string{"original", "final"}},
		IndexedAxis("mode", 2),
	)
	_ = table.Add(5, 1, 0)

	got := string(Render(table, LayoutLabeled))
	want := "dmm[original]: \t0\t0\t\n" +
		"dmm[final]: \t5\t0\t\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderLabeledSingleAxisUsesTableName(t *testing.T) {
	table := NewTable("corner_point", KindCount, IndexedAxis("layer", 2))
	_ = table.Add(1, 0)
	if got, want := string(Render(table, LayoutLabeled)), "corner_point: \t1\t0\t\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderScalarDuration(t *testing.T) {
	table := NewTable("dmm_time", KindDuration)
	_ = table.AddDuration(2*time.Second + 345*time.Millisecond)

	if got, want := string(Render(table, LayoutLabeled)), "dmm_time: 2.345\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, want := string(Render(table, LayoutTSV)), "2.345\n\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	build := func() *Table {
		table := NewTable("cube", KindCount, IndexedAxis("a", 2), IndexedAxis("b", 4), IndexedAxis("c", 4))
		_ = table.Add(1, 0, 3, 2)
		_ = table.Add(8, 1, 1, 1)
		return table
	}
	first := Render(build(), LayoutTSV)
	second := Render(build(), LayoutTSV)
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical tables to render identically")
	}
}
