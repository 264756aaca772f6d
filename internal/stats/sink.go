package stats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Target selects the kind of report destination.
type Target int

const (
	// TargetStdout writes labeled rows to the process standard output.
	TargetStdout Target = iota
	// TargetFile writes tab-separated rows to a file.
	TargetFile
)

// SinkSpec names where a table is reported.
type SinkSpec struct {
	Target Target
	Path   string
}

func (s SinkSpec) String() string {
	if s.Target == TargetFile {
		return "file:" + s.Path
	}
	return "stdout"
}

// ParseSinkSpec parses "stdout" or "file:<path>".
func ParseSinkSpec(value string) (SinkSpec, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case strings.EqualFold(trimmed, "stdout"):
		return SinkSpec{Target: TargetStdout}, nil
	case strings.HasPrefix(trimmed, "file:"):
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, "file:"))
		if path == "" {
			return SinkSpec{}, errors.New("file sink requires a path")
		}
		return SinkSpec{Target: TargetFile, Path: path}, nil
	default:
		return SinkSpec{}, fmt.Errorf("unsupported sink %q (want stdout or file:<path>)", value)
	}
}

// SinkError reports a failure to open, write, or release a report sink.
type SinkError struct {
	Table string
	Sink  string
	Op    string
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("report %s to %s: %s: %v", e.Table, e.Sink, e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Sink is an acquired report destination.
type Sink interface {
	io.Writer
	Close() error
}

var openFile = os.OpenFile

type stdoutSink struct {
	io.Writer
}

func (stdoutSink) Close() error { return nil }

// fileSink holds an advisory lock on the report file for the duration of the
// write so concurrent encoder runs appending to the same report do not
// interleave rows.
type fileSink struct {
	file *os.File
	lock *flock.Flock
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.file.Write(p)
}

func (s *fileSink) Close() error {
	closeErr := s.file.Close()
	unlockErr := s.lock.Unlock()
	return errors.Join(closeErr, unlockErr)
}

// lockPath names the sidecar file locked while a report is written. Locking
// the report itself would let flock create it with owner-only permissions.
func lockPath(path string) string {
	return path + ".lock"
}

func openFileSink(path string, truncate bool) (*fileSink, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report directory: %w", err)
		}
	}

	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := openFile(path, flags, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return &fileSink{file: file, lock: lock}, nil
}

type sinkOpener struct {
	dir      string
	truncate bool
	stdout   io.Writer
}

// resolve returns the display name of spec with relative file paths joined to the report dir.
func (o sinkOpener) resolve(spec SinkSpec) SinkSpec {
	if spec.Target != TargetFile {
		return spec
	}
	path := spec.Path
	if o.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(o.dir, path)
	}
	return SinkSpec{Target: TargetFile, Path: path}
}

func (o sinkOpener) open(spec SinkSpec) (Sink, error) {
	if spec.Target == TargetFile {
		return openFileSink(spec.Path, o.truncate)
	}
	if o.stdout == nil {
		return stdoutSink{Writer: os.Stdout}, nil
	}
	return stdoutSink{Writer: o.stdout}, nil
}
