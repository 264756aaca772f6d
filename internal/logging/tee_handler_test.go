package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTeeHandlerCollapses(t *testing.T) {
	if h := TeeHandler(nil, nil); h != slog.DiscardHandler {
		t.Fatalf("expected discard handler when every handler is nil, got %T", h)
	}

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsPerHandlerLevel(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	h := TeeHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be enabled by second handler")
	}

	slog.New(h).Debug("engine event", slog.String(FieldEngine, "exec"))

	if infoBuf.Len() != 0 {
		t.Errorf("info handler received debug record: %s", infoBuf.String())
	}
	if !bytes.Contains(debugBuf.Bytes(), []byte(`"engine":"exec"`)) {
		t.Errorf("debug handler missing record: %s", debugBuf.String())
	}
}

func TestTeeHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := TeeHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))
	h = h.WithAttrs([]slog.Attr{slog.String(FieldTable, "dmm_modes")}).WithGroup("sink")

	slog.New(h).Info("flush", slog.String("path", "dmm.tsv"))

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		if !bytes.Contains(buf.Bytes(), []byte(`"table":"dmm_modes"`)) {
			t.Errorf("handler %d missing table attr: %s", i, buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"sink":{"path":"dmm.tsv"}`)) {
			t.Errorf("handler %d missing grouped attr: %s", i, buf.String())
		}
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestTeeHandlerJoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	ok := slog.NewJSONHandler(&buf, nil)
	h := TeeHandler(failingHandler{ok}, ok)

	err := h.Handle(context.Background(), slog.NewRecord(testTime, slog.LevelInfo, "flush", 0))
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("Handle error = %v, want disk full", err)
	}
	if buf.Len() == 0 {
		t.Fatal("second handler should still receive the record")
	}
}

func TestFieldValueFormatting(t *testing.T) {
	cases := []struct {
		value slog.Value
		want  string
	}{
		{slog.StringValue("LCUAnalysis.xls"), "LCUAnalysis.xls"},
		{slog.StringValue("file:/tmp/a b"), `"file:/tmp/a b"`},
		{slog.StringValue(""), `""`},
		{slog.DurationValue(1234567890), "1.235s"},
		{slog.IntValue(-3), "-3"},
		{slog.AnyValue(errors.New("sink closed")), `"sink closed"`},
	}
	for _, tc := range cases {
		if got := fieldValue(tc.value); got != tc.want {
			t.Errorf("fieldValue(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
