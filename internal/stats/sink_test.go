package stats

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestParseSinkSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    SinkSpec
		wantErr bool
	}{
		{in: "stdout", want: SinkSpec{Target: TargetStdout}},
		{in: " STDOUT ", want: SinkSpec{Target: TargetStdout}},
		{in: "file:report.tsv", want: SinkSpec{Target: TargetFile, Path: "report.tsv"}},
		{in: "file:", wantErr: true},
		{in: "syslog", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSinkSpec(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseSinkSpec(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSinkSpec(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSinkSpec(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if round, _ := ParseSinkSpec(got.String()); round != got {
			t.Fatalf("String() of %+v does not parse back", got)
		}
	}
}

func TestOpenFileSinkOpenFailureReleasesLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.tsv")

	original := openFile
	openFile = func(string, int, os.FileMode) (*os.File, error) {
		return nil, os.ErrPermission
	}
	if _, err := openFileSink(path, false); err == nil {
		t.Fatal("expected open failure")
	}
	openFile = original
	t.Cleanup(func() { openFile = original })

	sink, err := openFileSink(path, false)
	if err != nil {
		t.Fatalf("expected lock to be released after failed open: %v", err)
	}
	if _, err := sink.Write([]byte("1\t\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenFileSinkCreatesReadableReport(t *testing.T) {
	old := syscall.Umask(0o022)
	t.Cleanup(func() { syscall.Umask(old) })

	path := filepath.Join(t.TempDir(), "LCUAnalysis.xls")
	sink, err := openFileSink(path, false)
	if err != nil {
		t.Fatalf("openFileSink: %v", err)
	}
	if _, err := sink.Write([]byte("0\t\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat report: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o644 {
		t.Fatalf("report mode = %v, want -rw-r--r--", mode)
	}
	if _, err := os.Stat(lockPath(path)); err != nil {
		t.Fatalf("expected sidecar lock file: %v", err)
	}
}
