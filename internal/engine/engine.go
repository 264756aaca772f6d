package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"videnc/internal/config"
	"videnc/internal/deps"
	"videnc/internal/logging"
	"videnc/internal/stats"
)

var (
	// ErrNotCreated is returned when an operation needs Create first.
	ErrNotCreated = errors.New("engine not created")
	// ErrNotConfigured is returned by Encode before Configure succeeded.
	ErrNotConfigured = errors.New("engine not configured")
	// ErrDestroyed is returned by any operation after Destroy.
	ErrDestroyed = errors.New("engine destroyed")
)

// Engine is the encoder resource owned by the lifecycle.
type Engine interface {
	Create(ctx context.Context) error
	Configure(cfg *config.Config, logger *slog.Logger) error
	Encode(ctx context.Context, rec stats.Recorder) error
	Destroy() error
}

// Job is the work handed to a backend.
type Job struct {
	Input   string
	Output  string
	Frames  int
	WorkDir string
}

// Backend performs one encode.
type Backend interface {
	Name() string
	Encode(ctx context.Context, job Job, rec stats.Recorder) error
	Close() error
}

var mkdirTemp = os.MkdirTemp

// Handle implements Engine over a backend chosen by configuration.
type Handle struct {
	mu        sync.Mutex
	logger    *slog.Logger
	workDir   string
	backend   Backend
	job       Job
	created   bool
	destroyed bool
}

// New returns an uncreated handle.
func New() *Handle {
	return &Handle{logger: logging.NewComponentLogger(nil, "engine")}
}

// Create allocates the scratch directory the backend works in.
func (h *Handle) Create(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	if h.created {
		return nil
	}
	dir, err := mkdirTemp("", "videnc-*")
	if err != nil {
		return fmt.Errorf("create engine work dir: %w", err)
	}
	h.workDir = dir
	h.created = true
	return nil
}

// WorkDir returns the scratch directory, empty before Create.
func (h *Handle) WorkDir() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.workDir
}

// Name returns the bound backend name, empty before Configure.
func (h *Handle) Name() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.backend == nil {
		return ""
	}
	return h.backend.Name()
}

// Configure binds the backend named by cfg.Engine.Kind.
func (h *Handle) Configure(cfg *config.Config, logger *slog.Logger) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.destroyed:
		return ErrDestroyed
	case !h.created:
		return ErrNotCreated
	}

	h.logger = logging.NewComponentLogger(logger, "engine")
	backend, err := newBackend(cfg, h.logger)
	if err != nil {
		return err
	}
	if h.backend != nil {
		_ = h.backend.Close()
	}
	h.backend = backend
	h.job = Job{
		Input:   cfg.Input.Path,
		Output:  cfg.Output.Path,
		Frames:  cfg.Input.Frames,
		WorkDir: h.workDir,
	}
	h.logger.Debug("engine configured",
		logging.String(logging.FieldEngine, backend.Name()),
		logging.String("work_dir", h.workDir),
	)
	return nil
}

func newBackend(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Engine.Kind {
	case config.EngineDrapto:
		for _, missing := range deps.Missing(deps.CheckBinaries(deps.MediaTools)) {
			logger.Warn("drapto dependency not found",
				logging.String("tool", missing.Name),
				logging.String("detail", missing.Detail),
			)
		}
		return newDraptoBackend(cfg.Engine.Responsive, logger), nil
	case config.EngineExec:
		status := deps.Check(deps.Requirement{Name: "encoder", Command: cfg.Engine.Binary})
		if !status.Available {
			return nil, fmt.Errorf("exec engine: %s", status.Detail)
		}
		return newExecBackend(status.Path, cfg.Engine.Args, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine.Kind)
	}
}

// Encode runs the bound backend once. Statistics are written through rec.
func (h *Handle) Encode(ctx context.Context, rec stats.Recorder) error {
	h.mu.Lock()
	backend, job := h.backend, h.job
	destroyed := h.destroyed
	h.mu.Unlock()
	switch {
	case destroyed:
		return ErrDestroyed
	case backend == nil:
		return ErrNotConfigured
	}
	if rec == nil {
		rec = discardRecorder{}
	}
	return backend.Encode(ctx, job, rec)
}

// Destroy releases the backend and removes the scratch directory. Calls after
// the first are no-ops.
func (h *Handle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return nil
	}
	h.destroyed = true

	var errs []error
	if h.backend != nil {
		if err := h.backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s engine: %w", h.backend.Name(), err))
		}
		h.backend = nil
	}
	if h.workDir != "" {
		if err := os.RemoveAll(h.workDir); err != nil {
			errs = append(errs, fmt.Errorf("remove engine work dir: %w", err))
		}
	}
	return errors.Join(errs...)
}

type discardRecorder struct{}

func (discardRecorder) Count(string, int64, ...int) {}

func (discardRecorder) Time(string, time.Duration, ...int) {}

var _ Engine = (*Handle)(nil)
