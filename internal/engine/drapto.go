package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	draptolib "github.com/five82/drapto"

	"videnc/internal/logging"
	"videnc/internal/stats"
)

// runDrapto is replaced in tests so reporter wiring can be exercised without ffmpeg.
var runDrapto = func(ctx context.Context, input, outputDir string, responsive bool, rep draptolib.Reporter) error {
	var opts []draptolib.Option
	if responsive {
		opts = append(opts, draptolib.WithResponsive())
	}
	encoder, err := draptolib.New(opts...)
	if err != nil {
		return err
	}
	_, err = encoder.EncodeWithReporter(ctx, input, outputDir, rep)
	return err
}

// draptoBackend encodes with the drapto library.
type draptoBackend struct {
	responsive bool
	logger     *slog.Logger
}

func newDraptoBackend(responsive bool, logger *slog.Logger) *draptoBackend {
	return &draptoBackend{responsive: responsive, logger: logger}
}

func (b *draptoBackend) Name() string { return "drapto" }

func (b *draptoBackend) Encode(ctx context.Context, job Job, rec stats.Recorder) error {
	if job.Input == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(job.Output) == "" {
		return errors.New("output directory required")
	}
	if job.Frames > 0 {
		b.logger.Warn("frame limit not supported by drapto engine; encoding full input",
			logging.Int("frames", job.Frames),
		)
	}
	rep := newStatsReporter(rec, b.logger)
	return runDrapto(ctx, job.Input, strings.TrimSpace(job.Output), b.responsive, rep)
}

func (b *draptoBackend) Close() error { return nil }
