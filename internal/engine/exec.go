package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"videnc/internal/logging"
	"videnc/internal/stats"
)

var commandContext = exec.CommandContext

const stderrLimit = 4096

// waitDelay bounds how long Wait blocks on inherited pipes after the
// encoder is killed.
var waitDelay = 5 * time.Second

// Record is one JSON line emitted by an external encoder on stdout.
type Record struct {
	Type    string  `json:"type"`
	Table   string  `json:"table"`
	Key     []int   `json:"key"`
	Delta   int64   `json:"delta"`
	Nanos   int64   `json:"nanos"`
	Percent float64 `json:"percent"`
	Stage   string  `json:"stage"`
	Message string  `json:"message"`
}

// execBackend runs an external encoder binary.
type execBackend struct {
	binary string
	args   []string
	logger *slog.Logger
}

func newExecBackend(binary string, args []string, logger *slog.Logger) *execBackend {
	return &execBackend{binary: binary, args: append([]string(nil), args...), logger: logger}
}

func (b *execBackend) Name() string { return "exec" }

func (b *execBackend) Close() error { return nil }

// expandArgs substitutes {input}, {output}, {frames} and {workdir}.
func expandArgs(args []string, job Job) []string {
	replacer := strings.NewReplacer(
		"{input}", job.Input,
		"{output}", job.Output,
		"{frames}", strconv.Itoa(job.Frames),
		"{workdir}", job.WorkDir,
	)
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = replacer.Replace(arg)
	}
	return out
}

func (b *execBackend) Encode(ctx context.Context, job Job, rec stats.Recorder) error {
	args := expandArgs(b.args, job)
	cmd := commandContext(ctx, b.binary, args...) //nolint:gosec
	cmd.Dir = job.WorkDir
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(env,
		"VIDENC_INPUT="+job.Input,
		"VIDENC_OUTPUT="+job.Output,
		"VIDENC_FRAMES="+strconv.Itoa(job.Frames),
	)
	cmd.WaitDelay = waitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr := &tailBuffer{limit: stderrLimit}
	cmd.Stderr = stderr

	b.logger.Debug("starting external encoder",
		logging.String("binary", b.binary),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", b.binary, err)
	}

	applied, skipped := 0, 0
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if b.apply(line, rec) {
			applied++
		} else {
			skipped++
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		if tail := strings.TrimSpace(stderr.String()); tail != "" {
			return fmt.Errorf("%s failed: %w: %s", b.binary, err, tail)
		}
		return fmt.Errorf("%s failed: %w", b.binary, err)
	}
	if scanErr != nil {
		return fmt.Errorf("read %s output: %w", b.binary, scanErr)
	}
	b.logger.Debug("external encoder finished",
		logging.Int("records", applied),
		logging.Int("skipped_lines", skipped),
	)
	return nil
}

// apply decodes one stdout line and reports whether it was a statistics record.
func (b *execBackend) apply(line []byte, rec stats.Recorder) bool {
	var record Record
	if err := json.Unmarshal(line, &record); err != nil {
		b.logger.Debug("encoder output", logging.String("line", string(line)))
		return false
	}
	switch record.Type {
	case "counter":
		rec.Count(record.Table, record.Delta, record.Key...)
	case "timer":
		rec.Time(record.Table, time.Duration(record.Nanos), record.Key...)
	case "progress":
		b.logger.Debug("encoder progress",
			logging.Float64("percent", record.Percent),
			logging.String("stage", record.Stage),
			logging.String("message", record.Message),
		)
	default:
		b.logger.Debug("unknown encoder record", logging.String("type", record.Type))
		return false
	}
	return true
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append([]byte(nil), t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
