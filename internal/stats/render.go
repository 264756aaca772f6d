package stats

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// Layout selects the textual shape of a rendered table.
type Layout int

const (
	// LayoutTSV writes bare tab-terminated rows with blank lines between sections.
	LayoutTSV Layout = iota
	// LayoutLabeled prefixes each row with the table name and outer axis labels.
	LayoutLabeled
)

// LayoutFor returns the layout used for a sink target.
func LayoutFor(target Target) Layout {
	if target == TargetFile {
		return LayoutTSV
	}
	return LayoutLabeled
}

// Render formats t deterministically. The innermost axis runs across columns,
// one row per combination of the outer axes, outermost varying slowest.
func Render(t *Table, layout Layout) []byte {
	var buf bytes.Buffer
	if t.Scalar() {
		if layout == LayoutLabeled {
			buf.WriteString(t.name)
			buf.WriteString(": ")
			buf.WriteString(formatCell(t.kind, t.cells[0]))
			buf.WriteByte('\n')
			return buf.Bytes()
		}
		buf.WriteString(formatCell(t.kind, t.cells[0]))
		buf.WriteString("\n\n")
		return buf.Bytes()
	}

	cols := t.axes[len(t.axes)-1].Size()
	rows := len(t.cells) / cols
	// A blank line closes each group of the outermost axis in TSV output. A
	// 1-axis table is a single row and a single group.
	groupRows := rows
	if len(t.axes) >= 2 {
		groupRows = rows / t.axes[0].Size()
	}

	key := make([]int, len(t.axes)-1)
	for row := 0; row < rows; row++ {
		rem := row * cols
		for i := range key {
			key[i] = rem / t.strides[i]
			rem %= t.strides[i]
		}
		if layout == LayoutLabeled {
			buf.WriteString(rowLabel(t, key))
			buf.WriteString(": \t")
		}
		for col := 0; col < cols; col++ {
			buf.WriteString(formatCell(t.kind, t.cells[row*cols+col]))
			buf.WriteByte('\t')
		}
		buf.WriteByte('\n')
		if layout == LayoutTSV && (row+1)%groupRows == 0 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func rowLabel(t *Table, outer []int) string {
	if len(outer) == 0 {
		return t.name
	}
	return t.name + "[" + strings.Join(t.Labels(outer), ",") + "]"
}

func formatCell(kind Kind, v int64) string {
	if kind == KindDuration {
		return FormatSeconds(time.Duration(v))
	}
	return strconv.FormatInt(v, 10)
}

// FormatSeconds renders d as seconds with three decimals.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
